package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type dedupeResult struct {
	Removed int `json:"removed"`
}

func newDedupeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Rewrite the dataset keeping the first record per id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			removed, err := eng.Compact(cmd.Context())
			if err != nil {
				return err
			}
			res := dedupeResult{Removed: removed}
			return a.print(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "removed %d duplicate records\n", removed)
				return err
			})
		},
	}
}
