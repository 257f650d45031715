package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/saleslens-org/saleslens/engine"
	"github.com/saleslens-org/saleslens/ingest"
	"github.com/saleslens-org/saleslens/report"
)

// ============================================================================
// SALESLENS CLI — Transaction analytics from a CSV export
// ============================================================================

const version = "0.1.0"

func main() {
	filePath := flag.String("file", os.Getenv("SALESLENS_FILE"), "Path to transaction CSV file (required)")
	asOfStr := flag.String("as-of", "", "Churn reference date, YYYY-MM-DD (default: latest transaction date)")
	minSupport := flag.Int("min-support", 10, "Minimum invoice co-occurrence for basket affinity pairs")
	topProducts := flag.Int("top-products", 20, "Product growth leaderboard size")
	topCustomers := flag.Int("top-customers", 50, "Top customer leaderboard size")
	topCLV := flag.Int("top-clv", 100, "CLV ranking size")
	format := flag.String("format", "text", "Output format: text, csv")
	outDir := flag.String("out-dir", "", "Directory for CSV export (required with --format csv)")
	verbose := flag.Bool("v", false, "Verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Saleslens — derived business metrics from sales transactions

Usage:
  saleslens --file transactions.csv
  saleslens --file transactions.csv --format csv --out-dir results/
  saleslens --file transactions.csv --as-of 2024-12-31 --min-support 5

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("saleslens", version)
		return
	}

	// Env file is optional; flags win over environment.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *format == "csv" && *outDir == "" {
		log.Fatal("--format csv requires --out-dir")
	}

	opts := []engine.Option{
		engine.WithAffinityMinCount(*minSupport),
		engine.WithTopProducts(*topProducts),
		engine.WithTopCustomers(*topCustomers),
		engine.WithTopCLV(*topCLV),
		engine.WithLogger(log),
	}
	if *asOfStr != "" {
		asOf, err := time.Parse("2006-01-02", *asOfStr)
		if err != nil {
			log.Fatalf("invalid --as-of date: %v", err)
		}
		opts = append(opts, engine.WithAsOfDate(asOf))
	}

	eng, err := engine.New(opts...)
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	loaded, err := ingest.ReadCSV(f)
	f.Close()
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	if loaded.Skipped > 0 {
		log.Warnf("skipped %d unparsable rows", loaded.Skipped)
	}

	rep, err := eng.Run(context.Background(), engine.NewSliceStore(loaded.Lines))
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	places := int32(2)
	tables := report.Build(rep, places)

	switch *format {
	case "csv":
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("create output dir: %v", err)
		}
		bar := progressbar.Default(int64(len(tables)))
		for _, t := range tables {
			path, err := report.ExportCSV(*outDir, t)
			if err != nil {
				log.Fatalf("export: %v", err)
			}
			log.WithField("path", path).Debug("table exported")
			_ = bar.Add(1)
		}
	case "text":
		for _, t := range tables {
			report.RenderText(os.Stdout, t)
		}
	default:
		log.Fatalf("unknown format %q", *format)
	}

	fmt.Fprintln(os.Stderr, report.SummaryLine(rep))
}
