package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"bitbucket.org/mmdatafocus/bookings_backend/workflow"
)

// Recomputes every booking's payment running balance and records drifted entries
// in reconciliation_reports. Payments are never modified.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase()

	ctx = utils.SetDryRunInContext(ctx, config.CommissionSyncDryRun())
	cid, drifts, err := workflow.RunPaymentLedgerDriftCheck(ctx, config.GetDB(), config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "payment ledger drift check failed: %v\n", err)
		os.Exit(1)
	}

	if len(drifts) == 0 {
		fmt.Println("No running balance drift found")
		return
	}
	fmt.Printf("Found %d payment entries with drifted running_balance (correlation_id=%s)\n", len(drifts), cid)
	for _, d := range drifts {
		fmt.Printf("  payment_id=%d booking_id=%d stored=%s expected=%s\n",
			d.PaymentId, d.BookingId, d.Stored.StringFixed(4), d.Expected.StringFixed(4))
	}
}
