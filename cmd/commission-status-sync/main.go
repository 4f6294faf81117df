package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/workflow"
)

// Brings admin_earnings.payment_status in line with the payment ledger for paid bookings.
// Takes no arguments; everything is read from env (see config).
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer config.CloseDatabase()

	if config.RedisConfigured() {
		if err := config.ConnectRedis(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "redis unavailable, using database lock: %v\n", err)
		} else {
			defer config.CloseRedis()
		}
	}
	defer config.ClosePubSub()

	job, err := workflow.NewCommissionSyncJobFromConfig(config.GetDB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	summary, err := job.Run(ctx)
	if errors.Is(err, workflow.ErrCommissionSyncLocked) {
		fmt.Println("another commission status sync is running; nothing done")
		return
	}
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "commission status sync failed: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(summary *workflow.Summary) {
	if summary.Scanned == 0 {
		fmt.Println("No discrepancies found. Booking and commission statuses are in sync.")
		return
	}
	fmt.Printf("Found %d bookings with paid status but pending commission\n", summary.Scanned)
	for _, d := range summary.Discrepancies {
		fmt.Printf("  %s admin_earnings_id=%d total_cr=%s total_dr=%s\n",
			d.BookingReference, d.AdminEarningsId, d.TotalCrAmount.StringFixed(2), d.TotalDrAmount.StringFixed(2))
	}
	if summary.DryRun {
		fmt.Println("Dry run: no rows updated")
		return
	}
	fmt.Printf("Fixed %d of %d commission records (failed=%d, correlation_id=%s)\n",
		summary.Fixed, summary.Scanned, summary.Failed, summary.CorrelationId)
	for _, e := range summary.Errors {
		fmt.Fprintf(os.Stderr, "  failed: %v\n", e)
	}
}
