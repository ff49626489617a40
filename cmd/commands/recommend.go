package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sumeval/pkg/recommend"
	"sumeval/pkg/registry"
)

func newRecommendCommand() *cobra.Command {
	var (
		hasSource    bool
		hasReference bool
		quick        bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend metrics for the inputs you have",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			rec := recommend.Recommender{Registry: reg}
			names := rec.Metrics(hasSource, hasReference, quick)

			table := tablewriter.NewWriter(os.Stdout)
			table.Header([]string{"metric", "category", "kind"})
			for _, name := range names {
				d, err := reg.Get(name)
				if err != nil {
					return err
				}
				table.Append([]string{d.Name, string(d.Category), string(d.Kind)})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&hasSource, "has-source", false, "a source document is available")
	cmd.Flags().BoolVar(&hasReference, "has-reference", false, "a reference summary is available")
	cmd.Flags().BoolVar(&quick, "quick", false, "one representative metric per category")

	return cmd
}
