// Command endpointcheck annotates an NPPES endpoint CSV with email and
// Direct-certificate validity, writing one output row per input row.
//
// Usage: endpointcheck [flags] <nppes_endpoint_file> [output_file]
//
// The run is resumable: if the output file already holds data rows, the
// run appends after skipping that many input rows. Interrupting with
// Ctrl-C stops cleanly between records; rerunning picks up where the
// output left off.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ftrotter/endpoint-test/internal/config"
	"github.com/ftrotter/endpoint-test/internal/discover"
	"github.com/ftrotter/endpoint-test/internal/logging"
	"github.com/ftrotter/endpoint-test/internal/pipeline"
	"github.com/ftrotter/endpoint-test/internal/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func usage(flags *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "You must supply an NPPES endpoint input file. If the output file is omitted, the default is output.csv")
	fmt.Fprintln(os.Stderr, "Usage: endpointcheck [flags] <nppes_endpoint_file> [output_file]")
	fmt.Fprintln(os.Stderr, flags.FlagUsages())
}

func main() {
	flags := pflag.NewFlagSet("endpointcheck", pflag.ContinueOnError)
	envFile := flags.String("env-file", "", "load environment variables from this file before reading configuration")
	flags.Usage = func() { usage(flags) }

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	args := flags.Args()
	if len(args) < 1 || len(args) > 2 {
		usage(flags)
		os.Exit(1)
	}

	// Load .env if present (Overload overwrites existing env vars)
	if *envFile != "" {
		if err := godotenv.Overload(*envFile); err != nil {
			slog.Error("failed to load env file", "path", *envFile, "error", err)
			os.Exit(1)
		}
	} else if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log, runID := logging.NewRunLogger()

	inputPath := args[0]
	outputPath := cfg.Pipeline.OutputPath
	if len(args) == 2 {
		outputPath = args[1]
	}

	log.Info("configuration loaded",
		"input", inputPath,
		"output", outputPath,
		"flush_interval", cfg.Pipeline.FlushInterval,
		"run_id", runID,
	)

	dnsLookup, err := discover.NewDNSLookup(cfg.Discovery.DNSResolver, cfg.Discovery.DNSTimeout)
	if err != nil {
		log.Error("failed to configure dns lookup", "error", err)
		os.Exit(1)
	}

	ctrl := &pipeline.Controller{
		Dispatcher: &validate.Dispatcher{
			Email: validate.NewSyntaxChecker(),
			Certs: discover.NewClient(
				dnsLookup,
				discover.NewLDAPLookup(cfg.Discovery.LDAPTimeout),
				log,
			),
		},
		FlushInterval: cfg.Pipeline.FlushInterval,
		Log:           log,
	}

	// Ctrl-C stops the loop between records; a second signal kills the
	// process the default way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := ctrl.Run(ctx, inputPath, outputPath); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}
