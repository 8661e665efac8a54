package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"lyproxify/internal/config"
	"lyproxify/internal/dataset"
	"lyproxify/internal/lytable"
	"lyproxify/internal/metrics"
	"lyproxify/internal/rawcsv"
	"lyproxify/internal/storage"
	"lyproxify/internal/transform"
	"lyproxify/internal/validate"

	"golang.org/x/sync/errgroup"
)

// runJobs executes every job of the run concurrently. The sink, when
// configured, is opened once and shared; both backends are safe for
// concurrent Store calls. Any failing job cancels the rest.
func runJobs(ctx context.Context, run config.Run, verbose bool) error {
	var sink storage.Sink
	if run.Storage.Kind != "" {
		var err error
		sink, err = storage.Open(ctx, run.Storage.Kind, storage.Config{
			DSN:   run.Storage.DSN,
			Table: run.Storage.Table,
		})
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range run.Jobs {
		g.Go(func() error {
			start := time.Now()
			err := runJob(ctx, job, sink, verbose)
			metrics.RecordJob(job.Dataset, err, time.Since(start))
			if err != nil {
				return fmt.Errorf("dataset %s: %w", job.Dataset, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// runJob transforms one raw export: parse, map, validate, write CSV, store.
func runJob(ctx context.Context, job config.Job, sink storage.Sink, verbose bool) error {
	spec, err := dataset.Get(job.Dataset)
	if err != nil {
		return err
	}

	f, err := os.Open(job.Raw)
	if err != nil {
		return err
	}
	defer f.Close()

	parser := rawcsv.NewParser(rawcsv.Options{Comma: commaRune(job.Comma, spec.Comma)})
	header, rows, err := parser.Parse(f)
	if err != nil {
		return err
	}

	start := spec.IDStart
	if start == 0 {
		start = 1
	}
	ids := transform.NewIDSequence(spec.IDPrefix, start)
	table, stats, err := transform.Run(spec.Build(ids), spec.Exclude, header, rows)
	if err != nil {
		return err
	}

	metrics.RecordRows(spec.Name, "in", int64(stats.RowsIn))
	metrics.RecordRows(spec.Name, "excluded", int64(stats.Excluded))
	metrics.RecordRows(spec.Name, "out", int64(stats.RowsOut))
	if verbose {
		log.Printf("%s: %d rows in, %d excluded, %d out", spec.Name, stats.RowsIn, stats.Excluded, stats.RowsOut)
	}

	if job.Validate {
		if err := validateTable(spec.Name, table); err != nil {
			return err
		}
	}

	if job.Out != "" {
		if err := writeCSV(job.Out, table); err != nil {
			return err
		}
		if verbose {
			fp, err := table.Fingerprint()
			if err == nil {
				log.Printf("%s: wrote %s (fingerprint %016x)", spec.Name, job.Out, fp)
			}
		}
	}

	if sink != nil {
		n, err := sink.Store(ctx, spec.Name, table)
		if err != nil {
			return err
		}
		metrics.RecordRows(spec.Name, "stored", n)
		if verbose {
			log.Printf("%s: stored %d rows", spec.Name, n)
		}
	}
	return nil
}

// validateTable prints every finding and fails the job on errors. Warnings
// are surfaced but do not block; they mark suspicious values a curator should
// look at, not broken data.
func validateTable(name string, t *lytable.Table) error {
	rep := validate.Table(t)
	var errs, warns int64
	for _, iss := range rep {
		fmt.Fprintf(os.Stderr, "%s: %s\n", name, iss)
		if iss.Severity == validate.Error {
			errs++
		} else {
			warns++
		}
	}
	metrics.RecordIssues(name, "error", errs)
	metrics.RecordIssues(name, "warning", warns)
	if rep.HasErrors() {
		return fmt.Errorf("validation found %d error(s)", errs)
	}
	return nil
}

func writeCSV(path string, t *lytable.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
