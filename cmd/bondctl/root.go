package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/cbr"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/logging"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/moex"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/service"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/version"
)

// app holds what every subcommand needs once flags and environment are resolved.
type app struct {
	out      io.Writer
	settings *viper.Viper
	log      *logrus.Logger
	market   *service.MarketService
	currency *service.CurrencyService
}

// newRootCmd builds the command tree. Settings come from flags, then
// BONDCTL_* environment variables, then defaults.
func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, settings: viper.New()}

	root := &cobra.Command{
		Use:           "bondctl",
		Short:         "Look up bonds, schedules and currency rates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.String("moex-url", moex.DefaultBaseURL, "exchange ISS base URL")
	flags.String("cbr-url", cbr.DefaultURL, "central bank daily rates URL")
	flags.Float64("moex-rps", 5, "exchange requests per second")
	flags.Int("workers", 4, "concurrent schedule requests")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	a.settings.SetEnvPrefix("BONDCTL")
	a.settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.settings.AutomaticEnv()
	// BindPFlags only fails on a nil flag set.
	_ = a.settings.BindPFlags(flags)

	root.AddCommand(
		newVersionCmd(a),
		newBondsCmd(a),
		newScheduleCmd(a),
		newRatesCmd(a),
		newCalendarCmd(a),
	)

	return root
}

func (a *app) init() error {
	log, err := logging.New(logging.Options{Level: a.settings.GetString("log-level")})
	if err != nil {
		return err
	}
	a.log = log

	exchange := moex.NewISSClient(a.settings.GetString("moex-url"), a.settings.GetFloat64("moex-rps"))
	a.market = service.NewMarketService(exchange, a.settings.GetInt("workers"), log)
	a.currency = service.NewCurrencyService(cbr.NewRatesClient(a.settings.GetString("cbr-url")), log)
	return nil
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.out, "bondctl %s\n", version.Version)
			return err
		},
	}
}
