package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/cornergrid/internal/app"
	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/progress"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError is an ExitError for bad invocations.
func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// tempsFlag accumulates every -temps occurrence.
type tempsFlag []model.Temperature

func (f *tempsFlag) String() string {
	parts := make([]string, len(*f))
	for i, t := range *f {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func (f *tempsFlag) Set(s string) error {
	temps, err := model.ParseTemperatureList(s)
	if err != nil {
		return err
	}
	*f = append(*f, temps...)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Options may appear before or after the template path.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("cornergrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
cornergrid - Expand one ngspice netlist template into a deck per process
corner and temperature, and run the simulator on each.

Usage:
  cornergrid [options] TEMPLATE

Arguments:
  TEMPLATE
    Netlist template. Its first line should read "* sch_path: <schematic>";
    results go next to the schematic.

Options:
`)
		flagSet.PrintDefaults()
	}

	var temps tempsFlag
	outputDir := flagSet.String("output-dir", "", "Output root directory. Overrides the template header.")
	oFlag := flagSet.String("o", "", "Output root directory (shorthand).")
	flagSet.Var(&temps, "temps", "Comma-separated temperatures in Celsius, e.g. '-40,27,125'. Repeatable. Enables the temperature sweep.")
	cornersFlag := flagSet.String("corners", "", "Comma-separated corners. Defaults to the 16 standard corners.")
	sweepFlag := flagSet.String("sweep", "", "Path to an HCL sweep file.")
	filterFlag := flagSet.String("filter", "", "Run filter expression, e.g. 'corner startsWith \"ss\" && temp < 0'.")
	sentinelFlag := flagSet.String("sentinel", "", "Placeholder corner token in the template. Default 'tt'.")
	simulatorFlag := flagSet.String("simulator", "", "Simulator command; the deck path is appended. Default 'ngspice -b'.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-run timeout, e.g. '30m'. 0 disables it.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent simulator runs. Default 1.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Write decks without running the simulator.")
	strictHeaderFlag := flagSet.Bool("strict-header", false, "Fail when the template has no sch_path header.")
	strictExitFlag := flagSet.Bool("strict-exit", false, "Exit with status 1 when any run did not complete.")
	reportFlag := flagSet.String("report", "", "Summary workbook path. Default '<root>/summary.xlsx'; '-' disables it.")
	progressFlag := flagSet.String("progress", "enabled", "Terminal progress display. Options: 'enabled' or 'disabled'.")
	progressURLFlag := flagSet.String("progress-url", "", "socket.io endpoint receiving progress events.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	debugFlag := flagSet.Bool("debug", false, "Shorthand for -log-level debug.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	var positional []string
	for {
		if err := flagSet.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, true, nil
			}
			return nil, false, usageError("%s", err.Error())
		}
		if flagSet.NArg() == 0 {
			break
		}
		positional = append(positional, flagSet.Arg(0))
		args = flagSet.Args()[1:]
	}
	slog.Debug("Arguments parsed successfully.", "positional", positional)

	if len(positional) == 0 {
		slog.Debug("No template provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if len(positional) > 1 {
		return nil, false, usageError("expected exactly one template, got %d: %s", len(positional), strings.Join(positional, " "))
	}
	templatePath := positional[0]
	if info, err := os.Stat(templatePath); err != nil || info.IsDir() {
		return nil, false, usageError("template not found: %s", templatePath)
	}

	outDir := *outputDir
	if outDir == "" {
		outDir = *oFlag
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if *debugFlag {
		logLevel = "debug"
	}

	display, err := progress.ParseDisplay(*progressFlag)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	config, err := app.NewConfig(app.Config{
		TemplatePath:     templatePath,
		SweepPath:        *sweepFlag,
		OutputDir:        outDir,
		Corners:          model.ParseCornerList(*cornersFlag),
		Temperatures:     []model.Temperature(temps),
		Filter:           *filterFlag,
		Sentinel:         *sentinelFlag,
		SimulatorCommand: strings.Fields(*simulatorFlag),
		Timeout:          *timeoutFlag,
		Workers:          *workersFlag,
		DryRun:           *dryRunFlag,
		StrictHeader:     *strictHeaderFlag,
		StrictExit:       *strictExitFlag,
		ReportPath:       *reportFlag,
		Progress:         display,
		ProgressURL:      *progressURLFlag,
		HealthcheckPort:  *healthPortFlag,
		LogFormat:        strings.ToLower(*logFormatFlag),
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
