package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/validation"
)

func newBondsCmd(a *app) *cobra.Command {
	var withSchedule bool

	cmd := &cobra.Command{
		Use:   "bonds SECID...",
		Short: "Print normalized bonds with their display yield",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secIDs, err := normalizeArgs(args)
			if err != nil {
				return err
			}

			var bonds []model.Bond
			if withSchedule {
				bonds, err = a.market.BondsWithSchedules(cmd.Context(), secIDs)
			} else {
				bonds, err = a.market.Bonds(cmd.Context(), secIDs)
			}
			if err != nil {
				return err
			}

			result := make([]model.BondResponse, len(bonds))
			for i, b := range bonds {
				result[i] = model.NewBondResponse(b)
			}
			return a.printJSON(result)
		},
	}

	cmd.Flags().BoolVar(&withSchedule, "schedule", false, "attach coupon and amortization schedules")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule SECID",
		Short: "Print a bond's coupon and amortization schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secIDs, err := normalizeArgs(args)
			if err != nil {
				return err
			}

			schedule, err := a.market.Schedule(cmd.Context(), secIDs[0])
			if err != nil {
				return err
			}
			return a.printJSON(schedule)
		},
	}
}

func newRatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the current central bank rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.currency.Refresh(cmd.Context()); err != nil {
				return err
			}

			snapshot, err := a.currency.Snapshot()
			if err != nil {
				return err
			}
			return a.printJSON(snapshot)
		},
	}
}

func newCalendarCmd(a *app) *cobra.Command {
	var date, month, start, end string

	cmd := &cobra.Command{
		Use:   "calendar SECID[=QTY]...",
		Short: "Total coupon and amortization payments of holdings over a period",
		Long: `Total coupon and amortization payments per currency for the given holdings.
Quantity defaults to 1. The period is one of --date, --month or --start/--end,
and the current month when none is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := request.ParseCalendarRange(date, month, start, end, time.Now())
			if err != nil {
				return err
			}

			holdings, err := parseHoldings(args)
			if err != nil {
				return err
			}

			secIDs := make([]string, 0, len(holdings))
			for secID := range holdings {
				secIDs = append(secIDs, secID)
			}

			bonds, err := a.market.BondsWithSchedules(cmd.Context(), secIDs)
			if err != nil {
				return err
			}
			for i := range bonds {
				bonds[i].Quantity = holdings[bonds[i].SecID]
			}

			totals := service.SumCashFlowsByCurrency(bonds, service.Between(from, to))
			return a.printJSON(model.CashFlowCalendar{
				Start:     from.Format("2006-01-02"),
				End:       to.Format("2006-01-02"),
				Totals:    totals,
				Formatted: service.FormatTotals(totals),
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "single day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&month, "month", "", "whole month (YYYY-MM)")
	cmd.Flags().StringVar(&start, "start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "range end (YYYY-MM-DD)")
	return cmd
}

// normalizeArgs upper-cases and validates SECID arguments.
func normalizeArgs(args []string) ([]string, error) {
	secIDs := make([]string, len(args))
	for i, arg := range args {
		secIDs[i] = strings.ToUpper(strings.TrimSpace(arg))
	}
	if err := validation.ValidateSecIDs(secIDs); err != nil {
		return nil, err
	}
	return secIDs, nil
}

// parseHoldings reads SECID or SECID=QTY arguments. Repeated SECIDs add up.
func parseHoldings(args []string) (map[string]int, error) {
	holdings := make(map[string]int, len(args))

	for _, arg := range args {
		secID, qty, hasQty := strings.Cut(arg, "=")
		secID = strings.ToUpper(strings.TrimSpace(secID))
		if err := validation.ValidateSecID(secID); err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		quantity := 1
		if hasQty {
			n, err := strconv.Atoi(qty)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%s: quantity must be a non-negative integer", arg)
			}
			quantity = n
		}

		holdings[secID] += quantity
	}

	return holdings, nil
}
