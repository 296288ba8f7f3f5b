package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/internal/domain/service"
	"github.com/bell24h/supplierrisk/internal/infrastructure/geopolitics"
	"github.com/bell24h/supplierrisk/pkg/utils"
)

func newScoreCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a supplier record read from a JSON file",
		Long:  "Score a supplier record read from a JSON file (- for stdin). Political risk uses the static provider.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open supplier record: %w", err)
				}
				defer f.Close()
				in = f
			}

			var profile models.SupplierProfile
			if err := json.NewDecoder(in).Decode(&profile); err != nil {
				return fmt.Errorf("decode supplier record: %w", err)
			}
			if err := utils.ValidateStruct(&profile); err != nil {
				return err
			}

			aggregator := service.NewRiskAggregator(service.WithPoliticalProvider(geopolitics.NewStaticProvider()))
			score := aggregator.ComputeRiskScore(context.Background(), &profile)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(score)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "supplier record JSON file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
