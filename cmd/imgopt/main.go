// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command imgopt builds the resized images served from /img according to
// a YAML manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/biemme2/biemme2-site/internal/imaging"
)

func main() {
	manifestPath := flag.String("manifest", "", "YAML manifest (default: built-in manifest)")
	srcDir := flag.String("src", "", "Override the manifest source directory")
	outDir := flag.String("out", "", "Override the manifest output directory")
	dryRun := flag.Bool("dry-run", false, "Compute variants without writing files")
	workers := flag.Int("workers", runtime.NumCPU(), "Images processed in parallel")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), logger, *manifestPath, *srcDir, *outDir, *dryRun, *workers); err != nil {
		logger.Error("image optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, manifestPath, srcDir, outDir string, dryRun bool, workers int) error {
	m := imaging.DefaultManifest()
	if manifestPath != "" {
		var err error
		if m, err = imaging.LoadManifest(manifestPath); err != nil {
			return err
		}
	}
	if srcDir != "" {
		m.SourceDir = srcDir
	}
	if outDir != "" {
		m.OutputDir = outDir
	}

	jobs, err := m.Jobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logger.Warn("no source images matched", "source_dir", m.SourceDir)
		return nil
	}

	proc := imaging.NewProcessor(m.OutputDir, dryRun)
	var (
		mu               sync.Mutex
		written, skipped int
		bytesOut         int64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results, err := proc.Process(job.Source, job.Subdir, job.Variants)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Group, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, r := range results {
				if r.Skipped {
					skipped++
					logger.Debug("variant skipped, source already small", "source", r.Source, "suffix", r.Suffix)
					continue
				}
				written++
				bytesOut += r.Size
				logger.Info("variant written",
					"group", job.Group,
					"file", r.FilePath,
					"size", fmt.Sprintf("%dx%d", r.Width, r.Height),
					"kb", r.Size/1024,
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("image optimization done",
		"sources", len(jobs),
		"written", written,
		"skipped", skipped,
		"total_kb", bytesOut/1024,
		"dry_run", dryRun,
	)
	return nil
}
