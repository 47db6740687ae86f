// Command inspect prints the latest checkouts and outbox events, and with
// --fix hands stuck outbox events back to the poller.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/config"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/infrastructure/postgres"

	"github.com/spf13/cobra"
)

func main() {
	var (
		fix   bool
		limit int
	)

	cmd := &cobra.Command{
		Use:          "inspect",
		Short:        "Show recent checkouts and outbox events",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), fix, limit)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "reset processing outbox events to new")
	cmd.Flags().IntVar(&limit, "limit", 5, "rows to show per table")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, fix bool, limit int) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	pool, err := postgres.NewClient(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
	})
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer pool.Close()

	outboxRepo := postgres.NewOutboxRepository(pool)
	checkoutRepo := postgres.NewCheckoutRepository(pool)

	if fix {
		n, err := outboxRepo.ResetProcessing(ctx)
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
		fmt.Printf("Fixed %d messages\n", n)
	}

	checkouts, err := checkoutRepo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	events, err := outboxRepo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "--- Checkouts ---")
	fmt.Fprintln(tw, "ID\tREF\tSTATUS\tPAYMENT\tUPDATED")
	for _, c := range checkouts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.RefCommand, c.Status, c.PaymentStatus, c.UpdatedAt.Format(time.RFC3339))
	}

	fmt.Fprintln(tw, "\n--- Outbox ---")
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tCHECKOUT")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.EventType, e.Status, e.CorrelationID)
	}
	return tw.Flush()
}
