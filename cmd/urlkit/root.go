package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// app carries the global flags shared by every sub-command.
type app struct {
	verbose bool
	output  string
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "urlkit",
		Short: "Parse, edit and match URLs the way browsers do",
		Long: `urlkit exposes a WHATWG URL parser, URLSearchParams and URLPattern.

Examples:
  urlkit parse "HTTP://EXAMPLE.com/a/../b?x=1"
  urlkit set "https://example.com/" hostname "bücher.de"
  urlkit query "a=1&b=2" --append "a=3" --sort
  urlkit match "https://*.example.com/books/:id" "https://shop.example.com/books/42"
  urlkit serve --addr :8080`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.output != "yaml" && a.output != "json" {
				return fmt.Errorf("unsupported output format %q", a.output)
			}

			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Prefix:          "urlkit",
				Level:           level,
				ReportTimestamp: true,
			})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "yaml", "output format: yaml or json")

	cmd.AddCommand(
		newParseCmd(a),
		newSetCmd(a),
		newQueryCmd(a),
		newMatchCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// render writes v in the selected output format.
func (a *app) render(w io.Writer, v any) error {
	if a.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
