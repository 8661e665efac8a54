// Command lyproxify turns raw institutional CSV exports into canonical
// lymphatic-progression tables. It runs either a single dataset given on the
// command line or a JSON run file with several jobs, optionally validating
// the result, appending it to a database sink and pushing run metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"lyproxify/internal/config"
	"lyproxify/internal/dataset"
	"lyproxify/internal/metrics"
	"lyproxify/internal/metrics/datadog"
	"lyproxify/internal/metrics/prompush"

	// register all storage backends with the factory; the run file picks one.
	_ "lyproxify/internal/storage/all"
)

func main() {
	var (
		cfgPath  string
		dsName   string
		rawPath  string
		outPath  string
		comma    string
		validate bool

		docsName string
		list     bool

		sinkKind  string
		sinkDSN   string
		sinkTable string

		metricsBackend string
		pushgatewayURL string
		statsdAddr     string
		metricsJob     string
	)

	flag.StringVar(&cfgPath, "config", "", "run file (JSON) with one or more jobs")
	flag.StringVar(&dsName, "dataset", "", "dataset name for single-job mode (see -list)")
	flag.StringVar(&rawPath, "raw", "", "raw CSV export path (single-job mode)")
	flag.StringVar(&outPath, "out", "", "canonical CSV output path (single-job mode)")
	flag.StringVar(&comma, "comma", "", "raw CSV delimiter override (single character)")
	flag.BoolVar(&validate, "validate", false, "run the canonical-schema validator on each result")

	flag.StringVar(&docsName, "docs", "", "print the column documentation of a dataset and exit")
	flag.BoolVar(&list, "list", false, "list registered datasets and exit")

	flag.StringVar(&sinkKind, "sink", "", "storage backend (postgres, sqlite); empty disables the sink")
	flag.StringVar(&sinkDSN, "dsn", "", "storage connection string")
	flag.StringVar(&sinkTable, "table", "", "storage destination table")

	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend (prompush, datadog); empty disables metrics")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (prompush)")
	flag.StringVar(&statsdAddr, "statsd-addr", "", "DogStatsD address (datadog)")
	flag.StringVar(&metricsJob, "metrics-job", "", "job label on pushed metrics")

	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("lyproxify: ")

	if list {
		for _, n := range dataset.Names() {
			fmt.Println(n)
		}
		return
	}
	if docsName != "" {
		if err := printDocs(os.Stdout, docsName); err != nil {
			fatalf("%v", err)
		}
		return
	}

	run, err := resolveRun(cfgPath, dsName, rawPath, outPath, comma, validate,
		sinkKind, sinkDSN, sinkTable, metricsBackend, pushgatewayURL, statsdAddr, metricsJob)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid")
	}

	setupMetrics(run.Metrics, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	if err := runJobs(context.Background(), run, *verbose); err != nil {
		fatalf("%v", err)
	}
}

// resolveRun builds the effective run: either the run file, or a single job
// assembled from the flags. Flag-level sink and metrics settings apply in
// both modes so a run file can be pointed at a different database ad hoc.
func resolveRun(cfgPath, dsName, rawPath, outPath, comma string, validate bool,
	sinkKind, sinkDSN, sinkTable, metricsBackend, pushgatewayURL, statsdAddr, metricsJob string) (config.Run, error) {

	var run config.Run
	if cfgPath != "" {
		if dsName != "" || rawPath != "" || outPath != "" {
			return run, fmt.Errorf("-config and -dataset/-raw/-out are mutually exclusive")
		}
		var err error
		run, err = config.Load(cfgPath)
		if err != nil {
			return run, err
		}
	} else {
		if dsName == "" || rawPath == "" {
			return run, fmt.Errorf("either -config or both -dataset and -raw are required")
		}
		run.Jobs = []config.Job{{
			Dataset:  dsName,
			Raw:      rawPath,
			Out:      outPath,
			Comma:    comma,
			Validate: validate,
		}}
	}

	if validate {
		for i := range run.Jobs {
			run.Jobs[i].Validate = true
		}
	}
	if sinkKind != "" {
		run.Storage = config.Storage{Kind: sinkKind, DSN: sinkDSN, Table: sinkTable}
	}
	if metricsBackend != "" {
		run.Metrics.Backend = metricsBackend
	}
	if pushgatewayURL != "" {
		run.Metrics.PushgatewayURL = pushgatewayURL
	}
	if statsdAddr != "" {
		run.Metrics.StatsdAddr = statsdAddr
	}
	if metricsJob != "" {
		run.Metrics.Job = metricsJob
	}
	return run, nil
}

// setupMetrics installs the configured backend; on failure the nop backend
// stays in place so a broken gateway never blocks a transformation run.
func setupMetrics(m config.Metrics, verbose bool) {
	switch m.Backend {
	case "prompush":
		b, err := prompush.NewBackend(m.Job, m.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: prompush init failed: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
		if verbose {
			log.Printf("metrics: backend=prompush url=%s", m.PushgatewayURL)
		}
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{Addr: m.StatsdAddr})
		if err != nil {
			log.Printf("metrics: datadog init failed: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
		if verbose {
			log.Printf("metrics: backend=datadog addr=%s", m.StatsdAddr)
		}
	case "", "nop":
		if verbose {
			log.Printf("metrics: disabled")
		}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", m.Backend)
	}
}

// commaRune decodes the job-level delimiter override, falling back to the
// dataset default.
func commaRune(override string, fallback rune) rune {
	if override == "" {
		return fallback
	}
	r, _ := utf8.DecodeRuneInString(override)
	if r == utf8.RuneError {
		return fallback
	}
	return r
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "lyproxify: "+format+"\n", a...)
	os.Exit(1)
}
