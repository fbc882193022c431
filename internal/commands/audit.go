package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/core/services"
)

// ErrBalanceDrift is returned when a stored balance differs from its recomputation.
var ErrBalanceDrift = errors.New("balance drift detected")

func newAuditBalancesCommand() *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "audit-balances",
		Short: "Recompute account balances from the transaction log and report drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(orgID); err != nil {
				return fmt.Errorf("invalid organization ID %q: %w", orgID, err)
			}
			cfg, _, err := loadRuntime()
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer b.close()

			return runAudit(cmd.Context(), cmd.OutOrStdout(), newContainer(b, services.Caches{}).Audit, orgID)
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization ID to audit")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

// runAudit writes one line per account and fails with ErrBalanceDrift when any drifted.
func runAudit(ctx context.Context, out io.Writer, auditor portssvc.BalanceAuditSvc, orgID string) error {
	audits, err := auditor.AuditBalances(ctx, orgID)
	if err != nil {
		return fmt.Errorf("auditing balances: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tID\tSTORED\tEXPECTED\tDRIFT")
	drifted := 0
	for _, a := range audits {
		drift := a.Drift()
		marker := ""
		if !drift.IsZero() {
			drifted++
			marker = " !"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%s\n",
			a.Name, a.AccountID, a.Stored.StringFixed(2), a.Expected.StringFixed(2), drift.StringFixed(2), marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%d accounts audited, %d drifted\n", len(audits), drifted)
	if drifted > 0 {
		return fmt.Errorf("%w in %d of %d accounts", ErrBalanceDrift, drifted, len(audits))
	}
	return nil
}
