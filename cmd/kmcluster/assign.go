package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type assignResult struct {
	ID      string   `json:"id"`
	Matches []string `json:"matches"`
}

func newAssignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> [coords...]",
		Short: "Assign a vector to its nearest cluster and list the other members",
		Long: `Assign a vector to its nearest trained centroid, record it in the dataset
and print the ids already in that cluster.

Coordinates may be given as separate arguments or comma-separated. Use --
before a leading negative coordinate. With no coordinates the call only
records a placeholder for the id.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vector, err := parseVector(args[1:])
			if err != nil {
				return err
			}

			eng, err := a.openEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer eng.Close()

			matches, err := eng.Assign(cmd.Context(), vector, args[0])
			if err != nil {
				return err
			}

			res := assignResult{ID: args[0], Matches: matches}
			return a.print(cmd.OutOrStdout(), res, func(w io.Writer) error {
				for _, m := range matches {
					if _, err := fmt.Fprintln(w, m); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// parseVector accepts "1,2,3", "1 2 3" or any mix of the two. NaN and
// infinities are rejected.
func parseVector(args []string) ([]float64, error) {
	var vec []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid coordinate %q: %w", field, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("invalid coordinate %q: not a finite number", field)
			}
			vec = append(vec, v)
		}
	}
	return vec, nil
}
