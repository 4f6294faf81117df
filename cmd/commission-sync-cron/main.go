package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/workflow"
)

// Runs the commission status sync on COMMISSION_SYNC_CRON until interrupted.
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

	spec := config.CommissionSyncCron()
	scheduler, err := workflow.NewCommissionSyncScheduler(ctx, job, spec, config.GetLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid COMMISSION_SYNC_CRON %q: %v\n", spec, err)
		os.Exit(2)
	}

	scheduler.Start()
	fmt.Printf("commission status sync scheduled (%s UTC). Press Ctrl+C to stop.\n", spec)
	<-ctx.Done()

	fmt.Println("stopping scheduler...")
	<-scheduler.Stop().Done()
	fmt.Println("scheduler stopped")
}
