package main

import (
	"github.com/spf13/cobra"

	"github.com/vitalvas/urlkit/weburl"
)

func newParseCmd(a *app) *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "parse <url>",
		Short: "Parse a URL and print its components and offsets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := parseURL(args[0], base)
			if err != nil {
				return err
			}
			a.logger.Debug("parsed URL", "input", args[0], "href", u.Href())
			return a.render(cmd.OutOrStdout(), newURLRecord(u))
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "base URL for relative input")
	return cmd
}

func parseURL(input, base string) (*weburl.URL, error) {
	if base == "" {
		return weburl.Parse(input)
	}
	return weburl.ParseWithBase(input, base)
}
