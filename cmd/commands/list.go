package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

func newListMetricsCommand() *cobra.Command {
	var (
		stage    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list-metrics",
		Short: "List the metric catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()

			var descriptors []core.MetricDescriptor
			switch {
			case stage != "":
				descriptors = reg.ListByStage(core.Stage(stage))
				if len(descriptors) == 0 {
					return fmt.Errorf("no metrics in stage %q", stage)
				}
			case category != "":
				descriptors = reg.ListByCategory(core.Category(category))
				if len(descriptors) == 0 {
					return fmt.Errorf("no metrics in category %q", category)
				}
			default:
				descriptors = reg.List()
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header([]string{"name", "category", "stage", "kind", "needs source", "needs reference", "description"})
			for _, d := range descriptors {
				table.Append([]string{
					d.Name,
					string(d.Category),
					string(d.Stage),
					string(d.Kind),
					yesNo(d.NeedsSource),
					yesNo(d.NeedsReference),
					d.Description,
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "", "filter by stage (integrity-check, conformance-check, judge)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (word-overlap, semantic, completeness, fluency, factuality, llm-judge)")

	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
