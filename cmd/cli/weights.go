package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/service"
)

func newWeightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "weights",
		Short: "Print the factor weighting and the risk tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := service.CanonicalWeights()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "FACTOR\tWEIGHT")
			for _, kind := range models.AllFactorKinds {
				fmt.Fprintf(tw, "%s\t%.2f\n", kind, w.For(kind))
			}
			fmt.Fprintf(tw, "total\t%.2f\n\n", w.Sum())

			fmt.Fprintln(tw, "RISK LEVEL\tMIN SCORE")
			fmt.Fprintf(tw, "%s\t%.0f\n", models.RiskLevelLow, service.LowRiskThreshold)
			fmt.Fprintf(tw, "%s\t%.0f\n", models.RiskLevelModerate, service.ModerateRiskThreshold)
			fmt.Fprintf(tw, "%s\t%.0f\n", models.RiskLevelHigh, service.HighRiskThreshold)
			fmt.Fprintf(tw, "%s\t%.0f\n", models.RiskLevelSevere, 0.0)
			return tw.Flush()
		},
	}
}
