package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"go.jacobcolvin.com/jsonlink"
	"go.jacobcolvin.com/jsonlink/scan"
)

// Flags holds CLI flag names for jsonfmt configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Output   string
	Compact  string
	Comments string
	Escape   string
}

// Config holds CLI flag values for jsonfmt.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags    Flags
	Output   string
	Comments string
	Compact  bool
	Escape   bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Output:   "output",
		Compact:  "compact",
		Comments: "comments",
		Escape:   "escape-non-ascii",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds jsonfmt flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", "-",
		"output file path (- for stdout)")
	flags.BoolVar(&c.Compact, c.Flags.Compact, false,
		"emit compact output instead of pretty-printed")
	flags.StringVar(&c.Comments, c.Flags.Comments, "none",
		"comment syntax accepted in input, one of: none, cpp, hash")
	flags.BoolVar(&c.Escape, c.Flags.Escape, false,
		"escape non-ASCII output as \\uXXXX sequences (convert only; fmt copies strings unchanged)")
}

// ParseOptions resolves the configured parse options.
func (c *Config) ParseOptions() ([]jsonlink.ParseOption, error) {
	style, err := commentStyle(c.Comments)
	if err != nil {
		return nil, err
	}

	return []jsonlink.ParseOption{jsonlink.WithComments(style)}, nil
}

// SerializeOptions resolves the configured serialize options.
func (c *Config) SerializeOptions() []jsonlink.SerializeOption {
	opts := []jsonlink.SerializeOption{}

	if !c.Compact {
		opts = append(opts, jsonlink.WithFormat(jsonlink.Pretty))
	}

	if c.Escape {
		opts = append(opts, jsonlink.WithEscapeNonASCII())
	}

	return opts
}

func commentStyle(name string) (scan.CommentStyle, error) {
	switch name {
	case "none", "":
		return scan.CommentsNone, nil
	case "cpp":
		return scan.CommentsCpp, nil
	case "hash":
		return scan.CommentsHash, nil
	}

	return 0, fmt.Errorf("unknown comment style %q", name)
}
