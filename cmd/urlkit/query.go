package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitalvas/urlkit/weburl"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		appends []string
		sets    []string
		deletes []string
		sort    bool
	)

	cmd := &cobra.Command{
		Use:   "query [query-string]",
		Short: "Decode and edit an application/x-www-form-urlencoded string",
		Long: `Decode a query string with URLSearchParams semantics, apply edits and
print the resulting pairs and serialization. Edits run in the order
--delete, --set, --append, --sort.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			params := weburl.NewSearchParams(input)

			for _, name := range deletes {
				params.Delete(name)
			}
			for _, kv := range sets {
				name, value, err := splitPair(kv)
				if err != nil {
					return err
				}
				params.Set(name, value)
			}
			for _, kv := range appends {
				name, value, err := splitPair(kv)
				if err != nil {
					return err
				}
				params.Append(name, value)
			}
			if sort {
				params.Sort()
			}

			a.logger.Debug("query", "input", input, "pairs", params.Len())
			return a.render(cmd.OutOrStdout(), newQueryRecord(params))
		},
	}

	cmd.Flags().StringArrayVar(&appends, "append", nil, "append a name=value pair")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set name=value, replacing every pair with that name")
	cmd.Flags().StringArrayVar(&deletes, "delete", nil, "delete every pair with the given name")
	cmd.Flags().BoolVar(&sort, "sort", false, "stable-sort pairs by name")
	return cmd
}

func splitPair(kv string) (string, string, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok {
		return "", "", fmt.Errorf("expected name=value, got %q", kv)
	}
	return name, value, nil
}
