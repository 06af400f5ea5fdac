package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	availabilityapp "windfleet/internal/availability/application"
	availability "windfleet/internal/availability/domain"
	statuscsv "windfleet/internal/availability/infrastructure/csvsource"
	"windfleet/internal/config"
	"windfleet/internal/logging"
	"windfleet/internal/observability/metrics"
	"windfleet/internal/report"
	"windfleet/internal/vendorcsv"
	wakeapp "windfleet/internal/wake/application"
	wake "windfleet/internal/wake/domain"
	scadacsv "windfleet/internal/wake/infrastructure/csvsource"
)

type flags struct {
	configPath string
	dataDir    string
	outDir     string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := 0
	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.WithError(err).Error("batch failed")
		code = 1
	}
	stop()
	_ = closer.Close()
	os.Exit(code)
}

func parseFlags(args []string) (flags, error) {
	var opts flags
	fs := flag.NewFlagSet("windfleet", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (defaults apply when empty)")
	fs.StringVar(&opts.dataDir, "data-dir", "", "directory holding the vendor CSV exports")
	fs.StringVar(&opts.outDir, "out", "", "output directory for reports")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func loadConfig(opts flags) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.outDir != "" {
		cfg.Output.Dir = opts.outDir
	}
	return cfg, cfg.Validate()
}

// run executes the enabled pipelines and writes every configured report.
func run(ctx context.Context, cfg config.Config, logger *logrus.Logger, console io.Writer) error {
	metrics.Init()

	runInfo := report.NewRun(cfg.DataDir, time.Now())
	log := logger.WithField("run_id", runInfo.ID)
	log.WithFields(logrus.Fields{
		"data_dir":     cfg.DataDir,
		"availability": cfg.Run.Availability,
		"wake":         cfg.Run.Wake,
	}).Info("batch started")

	bundle := report.Bundle{Run: runInfo}
	if cfg.Run.Availability {
		rep, err := runAvailability(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		bundle.Availability = rep
	}
	if cfg.Run.Wake {
		rep, err := runWake(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("wake: %w", err)
		}
		bundle.Wake = rep
	}
	if bundle.Availability == nil && bundle.Wake == nil {
		return errors.New("no pipeline enabled")
	}

	writer, err := report.NewWriter(cfg.Output.Dir, cfg.Output.Formats, cfg.Output.Archive, log)
	if err != nil {
		return err
	}
	if _, err := writer.Write(ctx, bundle); err != nil {
		return err
	}
	if cfg.Output.Console {
		if err := report.PrintConsole(console, bundle); err != nil {
			return err
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.WithError(err).Warn("metrics textfile not written")
		}
	}
	log.Info("batch finished")
	return nil
}

func runAvailability(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*availabilityapp.Report, error) {
	from, to := cfg.YearWindow()
	source, err := statuscsv.NewStatusSource(
		cfg.DataDir,
		statusFamily(cfg),
		statuscsv.StatusColumns{
			Timestamp: cfg.Status.TimestampColumn,
			Category:  cfg.Status.CategoryColumn,
		},
		availability.YearWindow{From: from, To: to},
		logger,
	)
	if err != nil {
		return nil, err
	}
	svc, err := availabilityapp.NewService(source, availabilityapp.Options{
		Available:   availability.CategorySetFromStrings(cfg.AvailableCategories),
		Unavailable: availability.CategorySetFromStrings(cfg.UnavailableCategories),
		Years:       cfg.Years,
		TopCauses:   cfg.TopCauses,
	}, logger)
	if err != nil {
		return nil, err
	}
	return svc.Run(ctx)
}

func runWake(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*wakeapp.Report, error) {
	source, err := scadacsv.NewScadaSource(
		cfg.DataDir,
		scadaFamily(cfg),
		scadacsv.ScadaColumns{
			Timestamp:     cfg.Scada.TimestampColumn,
			WindDirection: cfg.Scada.WindDirectionColumn,
			WindSpeed:     cfg.Scada.WindSpeedColumn,
			Power:         cfg.Scada.PowerColumn,
			PitchA:        cfg.Scada.PitchAColumn,
			PitchB:        cfg.Scada.PitchBColumn,
			PitchC:        cfg.Scada.PitchCColumn,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}
	svc, err := wakeapp.NewService(source, wakeapp.Options{
		Filter: wake.FilterConfig{
			ReferenceTurbine: cfg.Wake.Reference,
			Sector: wake.Sector{
				CenterDeg:    cfg.Wake.CenterDeg,
				HalfWidthDeg: cfg.Wake.HalfWidthDeg,
			},
			PitchLimitDeg: cfg.Wake.PitchLimitDeg,
		},
		Downstream: cfg.Wake.Downstream,
		Bins:       wake.BinSpec{Width: cfg.Wake.BinWidth, MaxSpeed: cfg.Wake.MaxSpeed},
	}, logger)
	if err != nil {
		return nil, err
	}
	return svc.Run(ctx)
}

func statusFamily(cfg config.Config) vendorcsv.Family {
	return vendorcsv.Family{
		Name:          "status",
		Prefix:        cfg.Status.Prefix,
		SkipRows:      cfg.Status.SkipRows,
		TurbineToken:  cfg.Status.TurbineToken,
		TurbinePrefix: cfg.TurbinePrefix,
	}
}

func scadaFamily(cfg config.Config) vendorcsv.Family {
	return vendorcsv.Family{
		Name:          "scada",
		Prefix:        cfg.Scada.Prefix,
		SkipRows:      cfg.Scada.SkipRows,
		TurbineToken:  cfg.Scada.TurbineToken,
		TurbinePrefix: cfg.TurbinePrefix,
	}
}
