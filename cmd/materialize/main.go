// Copyright (c) Archivekit, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/archivekit/materialize"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI are the command line parameters for the materialize binary.
type CLI struct {
	Archive           string           `arg:"" name:"archive" help:"Path to the archive." type:"existingfile"`
	Destination       string           `arg:"" name:"destination" help:"Output directory (or file for gzip/xz)."`
	MaxFiles          int64            `optional:"" default:"-1" help:"Maximum number of entries to extract. (disable check: -1)"`
	MaxExtractionSize int64            `optional:"" default:"-1" help:"Maximum size of the extracted content in bytes. (disable check: -1)"`
	NoRar             bool             `help:"Treat rar decoding as unavailable."`
	Probe             bool             `short:"p" help:"Only detect the format, do not extract."`
	SkipUnsupported   bool             `short:"S" help:"Skip unsupported archive members instead of failing."`
	Telemetry         bool             `short:"T" help:"Print telemetry to log after extraction."`
	Verbose           bool             `short:"v" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

func main() {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("Detect the format of an archive by content and extract it."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if cli.Probe {
		fmt.Println(materialize.DetectFormat(cli.Archive))
		return
	}

	telemetryToLog := func(ctx context.Context, td *materialize.TelemetryData) {
		if cli.Telemetry {
			logger.Info("extraction finished", "telemetry", td)
		}
	}

	cfg := materialize.NewConfig(
		materialize.WithContinueOnUnsupportedFiles(cli.SkipUnsupported),
		materialize.WithLogger(logger),
		materialize.WithMaxExtractionSize(cli.MaxExtractionSize),
		materialize.WithMaxFiles(cli.MaxFiles),
		materialize.WithRarSupport(!cli.NoRar),
		materialize.WithTelemetryHook(telemetryToLog),
	)

	if err := materialize.Extract(ctx, cli.Archive, cli.Destination, cfg); err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}
