package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
)

const (
	startFlag = "start"
	endFlag   = "end"
)

var reportFlags = map[string]cobraflags.Flag{
	startFlag: &cobraflags.StringFlag{
		Name:  startFlag,
		Usage: "First day to include (YYYY-MM-DD)",
	},
	endFlag: &cobraflags.StringFlag{
		Name:  endFlag,
		Usage: "Last day to include (YYYY-MM-DD)",
	},
}

// parseDay returns nil for an empty flag. A bare end date covers the
// whole day.
func parseDay(flag, raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("--%s must be YYYY-MM-DD", flag)
	}
	if end {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

func newFinancialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "financial",
		Short: "Financial records",
	}
	report := &cobra.Command{
		Use:   "report",
		Short: "Print the records and totals for a date range",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/financial"), func(ctx context.Context, c *client.Client, _ *cobra.Command, _ []string) error {
			start, err := parseDay(startFlag, reportFlags[startFlag].GetString(), false)
			if err != nil {
				return err
			}
			end, err := parseDay(endFlag, reportFlags[endFlag].GetString(), true)
			if err != nil {
				return err
			}
			records, err := c.ListFinancial(ctx, start, end)
			if err != nil {
				return err
			}
			sum, err := c.FinancialSummary(ctx, start, end)
			if err != nil {
				return err
			}
			return formatter().Financial(os.Stdout, records, sum)
		}),
	}
	cobraflags.RegisterMap(report, reportFlags)
	cmd.AddCommand(report)
	return cmd
}

func newDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the financial summary and stock totals",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/dashboard"), func(ctx context.Context, c *client.Client, _ *cobra.Command, _ []string) error {
			d, err := c.Dashboard(ctx)
			if err != nil {
				return err
			}
			return formatter().Dashboard(os.Stdout, d.Summary, d.Inventory)
		}),
	}
}
