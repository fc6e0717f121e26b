package commands

import (
	"context"
	"errors"
	"time"

	"eposfetch/internal/components/chrono"
	"eposfetch/internal/components/telemetry"
	"eposfetch/internal/scrapers/epos"
	"eposfetch/lib/diskcache"
	"eposfetch/lib/restyutil"
	"eposfetch/lib/serviceutil"
	"eposfetch/lib/timezone"

	"github.com/spf13/cobra"
)

var (
	fetchMonth *int
	fetchYear  *int
	fetchFresh *bool
	fetchPrint *bool
)

func init() {
	fetchMonth = fetchCmd.Flags().Int("month", 0, "The reporting month (1-12), defaults to the current month in IST.")
	fetchYear = fetchCmd.Flags().Int("year", 0, "The reporting year, defaults to the current year in IST.")
	fetchFresh = fetchCmd.Flags().Bool("fresh", false, "Ignore cached responses and request everything again.")
	fetchPrint = fetchCmd.Flags().Bool("print", false, "Print the sales table and transaction counts when done.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--month <m>] [--year <y>] [--fresh] [--print]",
	Short: "Fetches the sales summary of the shop and the transactions of every ration card in it.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := loadConfig(*configPath, cmd.Flags().Changed("config"))
		if err != nil {
			serviceutil.Fatal(nil, "failed to read config", err)
		}

		logger, logCloser, err := telemetry.NewLogger(telemetry.LogOptions{
			Console:    cmd.OutOrStdout(),
			File:       cfg.LogFile,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogBackups,
			Verbose:    *verbose,
		})
		if err != nil {
			serviceutil.Fatal(nil, "failed to setup logging", err)
		}
		defer logCloser.Close()

		providers, err := telemetry.Setup(ctx, "epos-cli", cfg.Otlp)
		if err != nil {
			serviceutil.Fatal(logger, "failed to setup telemetry", err)
		}
		defer providers.Shutdown(context.Background())

		tel := telemetry.NewSlogAPI(logger)
		if providers.MeterProvider != nil {
			err = telemetry.InstrumentPerfStats(ctx, tel, 30*time.Second)
			if err != nil {
				serviceutil.Fatal(logger, "failed to instrument perf stats", err)
			}
		}

		var output telemetry.MessageOutput
		if *verbose && cfg.DumpDir != "" {
			fsOutput, err := restyutil.NewFilesystemOutput(cfg.DumpDir, logger)
			if err != nil {
				serviceutil.Fatal(logger, "failed to create http dump directory", err)
			}
			output = fsOutput
		}

		client, err := epos.NewClient(tel, epos.ClientOptions{
			Cache:            diskcache.NewStore(cfg.CacheDir),
			Timeout:          cfg.RequestTimeout(),
			UserAgent:        cfg.UserAgent,
			CloudflareBypass: cfg.CloudflareBypass,
			Output:           output,
			Logger:           logger,
		})
		if err != nil {
			serviceutil.Fatal(logger, "failed to initialize client", err)
		}

		scraper := epos.NewScraper(client, tel, epos.ScraperOptions{
			SalesUrl:   cfg.SalesUrl,
			DetailsUrl: cfg.DetailsUrl,
			DistCode:   cfg.DistCode,
			FpsId:      cfg.FpsId,
			Fresh:      *fetchFresh,
			Pacer:      chrono.NewFixedPacer(cfg.RequestDelay()),
		})

		period := resolvePeriod(*fetchMonth, *fetchYear, timezone.Now())
		logger.Info("fetching", "period", period.String(), "cache", cfg.CacheDir, "fresh", *fetchFresh)

		t1 := time.Now()
		report, err := scraper.Run(ctx, period)
		t2 := time.Now()
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted", "sales", len(report.Sales), "cards", len(report.Details))
			return
		}
		if err != nil {
			serviceutil.Fatal(logger, "fetch failed", err)
		}

		logger.Info(
			"done",
			"seconds", t2.Sub(t1).Seconds(),
			"sales", len(report.Sales),
			"cards", len(report.Details),
			"transactions", report.DetailCount(),
			"failures", len(report.Failures),
		)
		if *fetchPrint {
			renderReport(cmd.OutOrStdout(), report)
		}
	},
}

// resolvePeriod fills in an unset month or year from now.
func resolvePeriod(month, year int, now time.Time) epos.Period {
	currentMonth, currentYear := timezone.MonthOf(now)
	if month == 0 {
		month = currentMonth
	}
	if year == 0 {
		year = currentYear
	}
	return epos.Period{Month: month, Year: year}
}
