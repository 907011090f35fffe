package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcollection/collection"
)

func (c *cli) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check the frontmatter of every document without serving",
		Long: `validate walks the content directory (or dir, when given) and reports
every frontmatter problem of every document. It exits non-zero when any
document is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cfg.ContentDir
			if len(args) == 1 {
				dir = args[0]
			}
			res, err := collection.Load(cmd.Context(), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range res.Entries {
				fmt.Fprintf(out, "ok      %s\n", e.ID)
			}
			for _, r := range res.Rejected {
				fmt.Fprintf(out, "invalid %s (%s)\n", r.ID, r.Path)
				for _, p := range r.Problems() {
					fmt.Fprintf(out, "        - %s\n", p)
				}
			}
			fmt.Fprintf(out, "%d valid, %d invalid\n", len(res.Entries), len(res.Rejected))
			return res.Err()
		},
	}
}
