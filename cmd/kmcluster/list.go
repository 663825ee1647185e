package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type recordView struct {
	ID      string    `json:"id"`
	Cluster int       `json:"cluster"`
	Coords  []float64 `json:"coords"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records with their cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			records := eng.Records()
			views := make([]recordView, len(records))
			for i, r := range records {
				views[i] = recordView{ID: r.ID, Cluster: r.Cluster, Coords: r.Coords}
			}

			return a.print(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, v := range views {
					if _, err := fmt.Fprintf(w, "%s\t%d\n", v.ID, v.Cluster); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
