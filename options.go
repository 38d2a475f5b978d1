package jsonlink

import (
	"log/slog"

	"go.jacobcolvin.com/jsonlink/scan"
)

// parseConfig holds the resolved options for one parse invocation.
type parseConfig struct {
	policy     scan.Policy
	comments   scan.CommentStyle
	precision  scan.FloatPrecision
	unknownLog *slog.Logger
}

// ParseOption configures a parse entry point.
type ParseOption func(*parseConfig)

// WithPolicy selects Checked or Unchecked scanning. Unchecked elides
// bounds checks and is valid only for well-formed input.
func WithPolicy(p scan.Policy) ParseOption {
	return func(c *parseConfig) {
		c.policy = p
	}
}

// WithComments enables comment skipping in whitespace positions.
func WithComments(style scan.CommentStyle) ParseOption {
	return func(c *parseConfig) {
		c.comments = style
	}
}

// WithPrecision selects the floating-point conversion tier.
func WithPrecision(p scan.FloatPrecision) ParseOption {
	return func(c *parseConfig) {
		c.precision = p
	}
}

// WithUnknownMemberLogger logs JSON object members that have no contract
// mapping. Unknown members are skipped either way; they are never an
// error. In objects whose contract has a tagged-variant member, unmapped
// members are buffered for variant resolution instead and are not logged.
func WithUnknownMemberLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.unknownLog = logger
	}
}

func newParseConfig(opts []ParseOption) parseConfig {
	var cfg parseConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Format selects the serialized output layout.
type Format int

const (
	// Compact emits no insignificant whitespace.
	Compact Format = iota
	// Pretty emits newline-separated members with two-space indentation
	// and a space after each colon.
	Pretty
)

// serializeConfig holds the resolved options for one serialize invocation.
type serializeConfig struct {
	format         Format
	escapeNonASCII bool
	unquotedKeys   bool
}

// SerializeOption configures a serialize entry point.
type SerializeOption func(*serializeConfig)

// WithFormat selects Compact or Pretty output.
func WithFormat(f Format) SerializeOption {
	return func(c *serializeConfig) {
		c.format = f
	}
}

// WithEscapeNonASCII escapes all bytes outside the ASCII range as \uXXXX
// sequences, producing 7-bit-clean output.
func WithEscapeNonASCII() SerializeOption {
	return func(c *serializeConfig) {
		c.escapeNonASCII = true
	}
}

// WithUnquotedKeys emits object member names without quotes when they are
// plain identifiers. The output is no longer strict RFC 8259; use it only
// for consumers that accept relaxed JSON.
func WithUnquotedKeys() SerializeOption {
	return func(c *serializeConfig) {
		c.unquotedKeys = true
	}
}

func newSerializeConfig(opts []SerializeOption) serializeConfig {
	var cfg serializeConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
