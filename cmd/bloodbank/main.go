package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/truongquocminh/bloodbank/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "Path to YAML configuration file")
		source     = flag.String("source", "", "Snapshot source: csv, api")
		dataDir    = flag.String(
			"data",
			"",
			"Path to snapshot directory containing CSV files",
		)
		apiURL          = flag.String("api-url", "", "Base URL of the blood bank service")
		report          = flag.String("report", "", "Report: compatibility, transfusion, inventory, all")
		bloodType       = flag.Int64("blood-type", 0, "Blood type id to look up")
		search          = flag.String("search", "", "Only include names containing this term")
		typeFilter      = flag.Int64("type-filter", 0, "Only include this blood type id")
		componentFilter = flag.Int64("component-filter", 0, "Only include this component id")
		format          = flag.String("format", "", "Output format: text, json, html, xlsx")
		outputDir       = flag.String("output", "", "Output directory for results (optional)")
		verbose         = flag.Bool("verbose", false, "Enable verbose output")
		help            = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ConfigFile:      *configFile,
		Source:          *source,
		DataDir:         *dataDir,
		APIURL:          *apiURL,
		Report:          *report,
		BloodType:       *bloodType,
		SearchTerm:      *search,
		TypeFilter:      *typeFilter,
		ComponentFilter: *componentFilter,
		Format:          *format,
		OutputDir:       *outputDir,
		Verbose:         *verbose,
		Help:            *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create and execute command
	cmd := commands.NewReportCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
