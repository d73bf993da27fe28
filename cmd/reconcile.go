package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-recon/internal/pipeline"
)

var (
	reconcileBatches  []string
	reconcileSend     string
	reconcileOpen     string
	reconcileSDR      string
	reconcileContacts string
	reconcileOutput   string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the reconciliation pipeline over one or more SDR batches",
	Long: `Reconciles send and open exports per SDR against a shared contacts file.

Examples:
  # One SDR
  outreach-recon reconcile --send sends.csv --open opens.csv --sdr "Jane" --contacts contacts.csv

  # Several SDRs, JSON output
  outreach-recon reconcile \
    --batch "Jane=jane_sends.csv:jane_opens.csv" \
    --batch "Sam=sam_sends.xlsx:sam_opens.csv" \
    --contacts contacts.csv --output result.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		batches, _, err := loadBatches(ctx, reconcileBatches, reconcileSend, reconcileOpen, reconcileSDR)
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}
		contacts, err := loadContacts(ctx, reconcileContacts)
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		result, err := pipeline.New(cfg).Run(ctx, batches, contacts)
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		if reconcileOutput != "" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "reconcile: marshal result")
			}
			if err := os.WriteFile(reconcileOutput, data, 0o644); err != nil {
				return eris.Wrap(err, "reconcile: write output")
			}
			zap.L().Info("wrote result", zap.String("path", reconcileOutput))
		}

		zap.L().Info("reconcile complete",
			zap.Int("successful", len(result.Successful)),
			zap.Int("failed", len(result.Failed)),
			zap.Int("batches", len(result.SDRStats)),
		)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().StringArrayVar(&reconcileBatches, "batch", nil, `batch spec "name=send_file:open_file" (repeatable)`)
	reconcileCmd.Flags().StringVar(&reconcileSend, "send", "", "send export for a single batch")
	reconcileCmd.Flags().StringVar(&reconcileOpen, "open", "", "open export for a single batch")
	reconcileCmd.Flags().StringVar(&reconcileSDR, "sdr", "default", "SDR label for the single-batch form")
	reconcileCmd.Flags().StringVar(&reconcileContacts, "contacts", "", "shared contacts file (required)")
	reconcileCmd.Flags().StringVar(&reconcileOutput, "output", "", "write result JSON to this path")
	_ = reconcileCmd.MarkFlagRequired("contacts")
	rootCmd.AddCommand(reconcileCmd)
}
