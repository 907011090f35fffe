package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcollection/placeholder"
)

func newCoverCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Print a random placeholder cover image path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			for i := 0; i < n; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), placeholder.PickRandomCoverImage())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 1, "number of paths to print")
	return cmd
}

func newPlaceholdersCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "placeholders SRC...",
		Short: "Build the placeholder cover images from source pictures",
		Long: fmt.Sprintf(`placeholders converts up to %d source pictures (JPEG, PNG or GIF) into
OUT/images/blog-placeholder-N.jpg, scaling wide images down.`, placeholder.Count),
		Args: cobra.RangeArgs(1, placeholder.Count),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := placeholder.Generate(outDir, args)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "public", "static directory to write images into")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pubcollection version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pubcollection %s\n", version)
		},
	}
}
