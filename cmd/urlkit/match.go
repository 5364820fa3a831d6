package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vitalvas/urlkit/urlpattern"
)

// errNoMatch is returned by the match command when the URL does not match.
var errNoMatch = errors.New("no match")

// patternRecord is the rendered form of a compiled pattern.
type patternRecord struct {
	Protocol        string `json:"protocol" yaml:"protocol"`
	Username        string `json:"username" yaml:"username"`
	Password        string `json:"password" yaml:"password"`
	Hostname        string `json:"hostname" yaml:"hostname"`
	Port            string `json:"port" yaml:"port"`
	Pathname        string `json:"pathname" yaml:"pathname"`
	Search          string `json:"search" yaml:"search"`
	Hash            string `json:"hash" yaml:"hash"`
	HasRegExpGroups bool   `json:"has_regexp_groups" yaml:"has_regexp_groups"`
}

func newPatternRecord(p *urlpattern.URLPattern) patternRecord {
	return patternRecord{
		Protocol:        p.Protocol(),
		Username:        p.Username(),
		Password:        p.Password(),
		Hostname:        p.Hostname(),
		Port:            p.Port(),
		Pathname:        p.Pathname(),
		Search:          p.Search(),
		Hash:            p.Hash(),
		HasRegExpGroups: p.HasRegExpGroups(),
	}
}

func newMatchCmd(a *app) *cobra.Command {
	var (
		base       string
		ignoreCase bool
	)

	cmd := &cobra.Command{
		Use:   "match <pattern> [url]",
		Short: "Compile a URL pattern and match a URL against it",
		Long: `Compile a URL pattern. Without a URL the normalized pattern is printed.
With a URL the match result is printed, and the command fails when the
URL does not match.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []urlpattern.Option
			if ignoreCase {
				opts = append(opts, urlpattern.WithIgnoreCase())
			}

			p, err := urlpattern.Parse(args[0], base, opts...)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return a.render(cmd.OutOrStdout(), newPatternRecord(p))
			}

			result := p.Exec(args[1], base)
			if result == nil {
				a.logger.Debug("no match", "pattern", args[0], "url", args[1])
				return errNoMatch
			}
			return a.render(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "base URL for the pattern and the input")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "match without regard to case")
	return cmd
}
