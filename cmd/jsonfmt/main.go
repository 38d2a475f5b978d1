// Package main provides the CLI entry point for jsonfmt, a tool that
// validates, reformats, and converts JSON documents using the jsonlink
// scanner and serializer.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/jsonlink"
	"go.jacobcolvin.com/jsonlink/log"
	"go.jacobcolvin.com/jsonlink/profile"
	"go.jacobcolvin.com/jsonlink/scan"
	"go.jacobcolvin.com/jsonlink/version"
)

func main() {
	cfg := NewConfig()
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()
	profiler := profCfg.NewProfiler()

	rootCmd := &cobra.Command{
		Use:   "jsonfmt",
		Short: "Validate, reformat, and convert JSON documents",
		Long: `jsonfmt validates, reformats, and converts JSON documents. Validation and
reformatting run on the jsonlink streaming scanner; conversion accepts YAML
input and emits JSON.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			return profiler.Start()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return profiler.Stop()
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	validateCmd := &cobra.Command{
		Use:   "validate [flags] <file.json> [file2.json ...]",
		Short: "Check that inputs are well-formed JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(cfg, args)
		},
	}

	fmtCmd := &cobra.Command{
		Use:   "fmt [flags] <file.json> [file2.json ...]",
		Short: "Reformat JSON inputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFmt(cfg, args)
		},
	}

	convertCmd := &cobra.Command{
		Use:   "convert [flags] <file.yaml> [file2.yaml ...]",
		Short: "Convert YAML inputs to JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(cfg, args)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("jsonfmt %s (%s, %s/%s)\n",
				version.Revision, version.GoVersion, version.GoOS, version.GoArch)
		},
	}

	for _, cmd := range []*cobra.Command{validateCmd, fmtCmd, convertCmd} {
		cfg.RegisterFlags(cmd.Flags())
	}

	rootCmd.AddCommand(validateCmd, fmtCmd, convertCmd, versionCmd)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return data, nil
}

// writeOutput writes to the configured output path, "-" meaning stdout.
func writeOutput(cfg *Config, out []byte) error {
	out = append(out, '\n')

	if cfg.Output == "" || cfg.Output == "-" {
		_, err := os.Stdout.Write(out)
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		return nil
	}

	err := os.WriteFile(cfg.Output, out, 0o644)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func runValidate(cfg *Config, args []string) error {
	parseOpts, err := cfg.ParseOptions()
	if err != nil {
		return err
	}

	failed := false

	for _, arg := range args {
		data, err := readInput(arg)
		if err != nil {
			return err
		}

		_, err = jsonlink.Reformat(data, parseOpts)
		if err != nil {
			failed = true

			var serr *scan.Error
			if errors.As(err, &serr) {
				fmt.Fprintf(os.Stderr, "%s: %v\n", arg, serr)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			}

			continue
		}

		slog.Debug("valid input", slog.String("file", arg))
	}

	if failed {
		return errors.New("validation failed")
	}

	return nil
}

func runFmt(cfg *Config, args []string) error {
	parseOpts, err := cfg.ParseOptions()
	if err != nil {
		return err
	}

	for _, arg := range args {
		data, err := readInput(arg)
		if err != nil {
			return err
		}

		out, err := jsonlink.Reformat(data, parseOpts, cfg.SerializeOptions()...)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}

		err = writeOutput(cfg, out)
		if err != nil {
			return err
		}
	}

	return nil
}

func runConvert(cfg *Config, args []string) error {
	for _, arg := range args {
		data, err := readInput(arg)
		if err != nil {
			return err
		}

		var v any

		err = yaml.Unmarshal(data, &v)
		if err != nil {
			return fmt.Errorf("%s: parsing yaml: %w", arg, err)
		}

		out, err := jsonlink.MarshalAny(v, cfg.SerializeOptions()...)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}

		err = writeOutput(cfg, out)
		if err != nil {
			return err
		}
	}

	return nil
}
