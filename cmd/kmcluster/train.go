package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type clusterView struct {
	ID       int       `json:"id"`
	Size     int       `json:"size"`
	Centroid []float64 `json:"centroid"`
}

type trainResult struct {
	K        int           `json:"k"`
	Records  int           `json:"records"`
	Clusters []clusterView `json:"clusters"`
}

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train centroids over the dataset and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			centroids := eng.Centroids()
			sizes := eng.ClusterSizes()
			res := trainResult{
				K:        eng.K(),
				Records:  len(eng.Records()),
				Clusters: make([]clusterView, len(centroids)),
			}
			for i, c := range centroids {
				res.Clusters[i] = clusterView{ID: i, Size: sizes[i], Centroid: c}
			}

			return a.print(cmd.OutOrStdout(), res, func(w io.Writer) error {
				if len(res.Clusters) == 0 {
					_, err := fmt.Fprintf(w, "no records to train on\n")
					return err
				}
				for _, c := range res.Clusters {
					if _, err := fmt.Fprintf(w, "cluster %d: %d members %v\n", c.ID, c.Size, c.Centroid); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
