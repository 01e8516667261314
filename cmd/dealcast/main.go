package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kweiss/dealcast/internal/charts"
	"github.com/kweiss/dealcast/internal/config"
	"github.com/kweiss/dealcast/internal/engine"
	"github.com/kweiss/dealcast/internal/logger"
	"github.com/kweiss/dealcast/internal/models"
	"github.com/kweiss/dealcast/internal/scenario"
	"github.com/kweiss/dealcast/internal/view"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario YAML file (default: config default_scenario)")
	endpoint := flag.String("endpoint", "", "engine endpoint override")
	outDir := flag.String("out", "", "directory for histogram HTML files (default: config charts.output_dir)")
	noCharts := flag.Bool("no-charts", false, "print the report only, skip chart files")
	flag.Parse()

	cfg := config.Load()
	if err := logger.InitWithConfig(cfg.Logging.LogLevel, cfg.Logging.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	if *endpoint != "" {
		cfg.Engine.Endpoint = *endpoint
	}
	if *outDir != "" {
		cfg.Charts.OutputDir = *outDir
	}

	if err := run(cfg, *scenarioPath, *noCharts); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, scenarioPath string, noCharts bool) error {
	v := view.New()

	req, err := loadScenario(cfg, scenarioPath, v)
	if err != nil {
		v.ShowError(err)
		return err
	}

	runner := engine.NewClient(cfg.Engine.Endpoint, cfg.EngineTimeout())

	// stop is idempotent; the defer guarantees the loading line never
	// sticks, whichever path exits first.
	stop := v.StartLoading()
	defer stop()

	result, err := runner.Run(context.Background(), req)
	stop()
	if err != nil {
		v.ShowError(err)
		return err
	}

	v.ShowReport(result.Metrics, true)

	if noCharts {
		return nil
	}
	if err := writeCharts(cfg.Charts.OutputDir, result, v); err != nil {
		v.ShowError(err)
		return err
	}
	return nil
}

// loadScenario resolves which scenario to run. An explicitly flagged file
// must load; the configured default file is optional and falls back to the
// built-in scenario when missing.
func loadScenario(cfg *config.Config, path string, v *view.View) (models.ScenarioRequest, error) {
	explicit := path != ""
	if !explicit {
		path = cfg.DefaultScenario
	}

	req, err := scenario.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			v.Notef("📄 No scenario file at %s, using built-in defaults", path)
			return scenario.Default(), nil
		}
		return req, err
	}

	logger.Info.Printf("📄 Loaded scenario from %s", path)
	return req, nil
}

func writeCharts(dir string, result *models.SimulationResult, v *view.View) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	files := []struct {
		name  string
		chart *echarts.Bar
	}{
		{"irr.html", charts.IRRHistogram(result.IRRSamples)},
		{"moic.html", charts.MOICHistogram(result.MOICSamples)},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := f.chart.Render(out); err != nil {
			out.Close()
			return fmt.Errorf("render %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		v.Notef("📊 Wrote %s", path)
	}
	return nil
}
