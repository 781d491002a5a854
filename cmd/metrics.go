package cmd

import (
	"github.com/huangsam/skillspot/core"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definition of hotness.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the hotness formula, weights and label thresholds",
	Long: `Show how skills are scored, including:
- The four hotness signals and their weights
- The composite formula
- The label thresholds (Critical, High, Moderate, Low)
- The trend labels used by the trending command

No data is read - this is purely informational.

Examples:
  skillspot metrics
  skillspot metrics --output json`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, args []string) error {
		return resolveConfig(args)
	},
	Run: runExecutor("metrics", core.ExecuteMetrics),
}
