// Command import loads a channel catalog document into the database.
//
// Usage:
//
//	rabbitears-import [-verbose] [-config path] [document.yaml]
//
// The document path defaults to the configured catalog document. Exit code
// is 0 only when every channel in the document imported cleanly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/statichead/rabbitears/internal/catalog"
	"github.com/statichead/rabbitears/internal/config"
	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rabbitears-import", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "enable debug logging")
	configPath := fs.String("config", "", "path to a config file (default: search ., ./config, /etc/rabbitears)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: rabbitears-import [-verbose] [-config path] [document.yaml]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rabbitears-import: %v\n", err)
		return 1
	}

	// Keep the report readable: only -verbose turns the log stream on
	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.Init(level, cfg.Logging.Pretty)

	docPath := cfg.Catalog.Document
	if fs.NArg() == 1 {
		docPath = fs.Arg(0)
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rabbitears-import: %v\n", err)
		return 1
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rabbitears-import: %v\n", err)
		return 1
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "rabbitears-import: %v\n", err)
		return 1
	}

	repos := db.NewRepositories(database)
	importer := catalog.NewImporter(database, repos.ImportRuns)

	report, err := importer.ImportFile(context.Background(), docPath)
	if report == nil {
		// Nothing was imported: unreadable file or a malformed document
		fmt.Fprintf(os.Stderr, "rabbitears-import: %v\n", err)
		return 1
	}

	printReport(report)

	if err != nil {
		return 1
	}
	return 0
}

// printReport writes the imported channels to stdout and failure details to
// stderr, matching what the HTTP report returns.
func printReport(report *catalog.Report) {
	fmt.Printf("imported %d channel(s)\n", len(report.Channels))
	for _, ch := range report.Channels {
		fmt.Printf("  %s: %s\n", ch.Number, ch.Name)
	}

	if len(report.Failures) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "\nfailed to import %d channel(s):\n", len(report.Failures))
	for _, failure := range report.Failures {
		label := failure.Number
		if failure.Name != "" {
			label = fmt.Sprintf("%s (%s)", failure.Number, failure.Name)
		}
		fmt.Fprintf(os.Stderr, "\nchannel %s:\n%s\n", label, failure.Reason())
	}
}
