package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/outreach-recon/internal/pipeline"
	"github.com/sells-group/outreach-recon/internal/validate"
)

var (
	auditBatches  []string
	auditSend     string
	auditOpen     string
	auditSDR      string
	auditContacts string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the pipeline, then cross-check its counters against its rows",
	Long: `Runs the same reconciliation as "reconcile", then independently
re-derives every reported total from the emitted rows and the raw send
files, and prints the validation report. Exits nonzero when any arithmetic
inconsistency is found.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		batches, sources, err := loadBatches(ctx, auditBatches, auditSend, auditOpen, auditSDR)
		if err != nil {
			return eris.Wrap(err, "audit")
		}
		contacts, err := loadContacts(ctx, auditContacts)
		if err != nil {
			return eris.Wrap(err, "audit")
		}

		result, err := pipeline.New(cfg).Run(ctx, batches, contacts)
		if err != nil {
			return eris.Wrap(err, "audit")
		}

		report := validate.CheckWithSources(ctx, result, sources, cfg.Pipeline.ExcludedDomains)
		fmt.Print(report.Render())

		if !report.Passed {
			return eris.Errorf("audit: validation failed with %d errors", len(report.Errors))
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringArrayVar(&auditBatches, "batch", nil, `batch spec "name=send_file:open_file" (repeatable)`)
	auditCmd.Flags().StringVar(&auditSend, "send", "", "send export for a single batch")
	auditCmd.Flags().StringVar(&auditOpen, "open", "", "open export for a single batch")
	auditCmd.Flags().StringVar(&auditSDR, "sdr", "default", "SDR label for the single-batch form")
	auditCmd.Flags().StringVar(&auditContacts, "contacts", "", "shared contacts file (required)")
	_ = auditCmd.MarkFlagRequired("contacts")
	rootCmd.AddCommand(auditCmd)
}
