package main

import (
	"github.com/spf13/cobra"

	"github.com/vitalvas/urlkit/weburl"
)

func newSetCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "set <url> <component> <value>",
		Short: "Replace one URL component and print the result",
		Long: `Replace one component of a URL: href, protocol, username, password,
host, hostname, port, pathname, search or hash.

A rejected value leaves the URL unchanged, as URL setters do in browsers.
With --strict the rejection is reported as an error instead.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := weburl.Parse(args[0])
			if err != nil {
				return err
			}

			if args[1] == "href" {
				if err := u.SetHref(args[2]); err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), newURLRecord(u))
			}

			kind, err := weburl.ParseSetter(args[1])
			if err != nil {
				return err
			}

			c, err := weburl.Reparse(u.Canonical(), kind, args[2])
			if err != nil {
				if strict {
					return err
				}
				a.logger.Warn("value rejected, URL unchanged", "component", kind, "value", args[2], "err", err)
			}
			a.logger.Debug("set component", "component", kind, "href", c.String())
			return a.render(cmd.OutOrStdout(), newURLRecord(weburl.FromCanonical(c)))
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the value is rejected")
	return cmd
}
