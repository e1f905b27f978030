package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/application/services/compatibility"
	"github.com/truongquocminh/bloodbank/pkg/application/services/query"
	"github.com/truongquocminh/bloodbank/pkg/application/services/snapshot"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
	"github.com/truongquocminh/bloodbank/pkg/domain/repositories"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/api"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/config"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/events"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/logging"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/repositories/csv"
	"github.com/truongquocminh/bloodbank/pkg/infrastructure/repositories/memory"
	"github.com/truongquocminh/bloodbank/pkg/interfaces/cli/output"
)

// Report kinds selectable with -report
const (
	ReportCompatibility = "compatibility"
	ReportTransfusion   = "transfusion"
	ReportInventory     = "inventory"
	ReportAll           = "all"
)

// Config holds the command line flags. Empty values fall back to the config
// file and environment.
type Config struct {
	ConfigFile      string
	Source          string
	DataDir         string
	APIURL          string
	Report          string
	BloodType       int64
	SearchTerm      string
	TypeFilter      int64
	ComponentFilter int64
	Format          string
	OutputDir       string
	Verbose         bool
	Help            bool

	// Stdout receives the report and progress messages. Defaults to os.Stdout.
	Stdout io.Writer
	// Now is the reference time for expiry; defaults to time.Now.
	Now func() time.Time
}

// ReportCommand loads a snapshot and prints the requested report
type ReportCommand struct {
	config Config
	out    io.Writer
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(config Config) *ReportCommand {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &ReportCommand{config: config, out: out}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "bloodbank")
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	source := c.buildSource(cfg, logger)
	if c.config.Verbose {
		c.printHeader(cfg, source)
	}

	catalogRepo := memory.NewCatalogRepository()
	inventoryRepo := memory.NewInventoryRepository()
	eventStore := events.NewInMemoryEventStore(logger)
	if c.config.Verbose {
		if err := eventStore.Subscribe(
			[]string{events.SnapshotLoadedEvent, events.CatalogWarningsEvent},
			&events.HandlerFunc{
				Types: []string{events.SnapshotLoadedEvent, events.CatalogWarningsEvent},
				Fn:    c.printEvent,
			},
		); err != nil {
			return fmt.Errorf("failed to subscribe to snapshot events: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "📂 Loading snapshot from %s...\n", source.Name())
	}
	loader := snapshot.NewLoader(source, catalogRepo, inventoryRepo, eventStore, logger)
	loaded, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading snapshot: %w", err)
	}

	svc := query.NewQueryService(catalogRepo, inventoryRepo, logger)
	report, err := c.buildReport(ctx, svc, cfg.Report.Kind, loaded)
	if err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    cfg.Report.Format,
		OutputDir: cfg.Report.OutputDir,
		Verbose:   c.config.Verbose,
		LoadTime:  loaded.Elapsed,
		Stdout:    c.out,
	}
	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Report complete!")
	}
	return nil
}

// resolveConfig layers flags over the config file and environment
func (c *ReportCommand) resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return nil, err
	}

	if c.config.Source != "" {
		cfg.Source.Kind = c.config.Source
	}
	if c.config.DataDir != "" {
		cfg.Source.DataDir = c.config.DataDir
	}
	if c.config.APIURL != "" {
		cfg.API.BaseURL = c.config.APIURL
		if c.config.Source == "" {
			cfg.Source.Kind = config.SourceAPI
		}
	}
	if c.config.Report != "" {
		cfg.Report.Kind = c.config.Report
	}
	if c.config.Format != "" {
		cfg.Report.Format = c.config.Format
	}
	if c.config.OutputDir != "" {
		cfg.Report.OutputDir = c.config.OutputDir
	}
	if c.config.Verbose && cfg.Log.Level == "warn" {
		cfg.Log.Level = "info"
	}

	switch cfg.Report.Kind {
	case ReportCompatibility, ReportTransfusion, ReportInventory, ReportAll:
	default:
		return nil, fmt.Errorf("unknown report %q (expected compatibility, transfusion, inventory or all)", cfg.Report.Kind)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ReportCommand) buildSource(cfg *config.Config, logger *zap.Logger) repositories.SnapshotSource {
	if cfg.Source.Kind == config.SourceAPI {
		return api.NewClient(cfg.ClientConfig(), api.StaticToken(cfg.API.Token), logger)
	}
	return csv.NewDirSource(cfg.Source.DataDir)
}

func (c *ReportCommand) buildReport(
	ctx context.Context,
	svc *query.QueryService,
	kind string,
	loaded *snapshot.LoadResult,
) (*dto.Report, error) {
	q := compatibility.Query{
		SearchTerm:      c.config.SearchTerm,
		BloodTypeFilter: entities.BloodTypeID(c.config.TypeFilter),
		ComponentFilter: entities.ComponentID(c.config.ComponentFilter),
	}

	report := &dto.Report{
		SnapshotID:  loaded.SnapshotID,
		Source:      loaded.Source,
		GeneratedAt: c.config.Now(),
		Query: dto.QuerySummary{
			SearchTerm:      q.SearchTerm,
			BloodTypeFilter: q.BloodTypeFilter,
			ComponentFilter: q.ComponentFilter,
		},
		Warnings: loaded.Validation.Warnings,
	}

	if c.config.BloodType != 0 {
		lookup, err := c.lookup(ctx, svc, entities.BloodTypeID(c.config.BloodType))
		if err != nil {
			return nil, err
		}
		report.Lookup = lookup
	}

	if kind == ReportCompatibility || kind == ReportAll {
		matrix, err := svc.ComponentMatrix(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("error building component matrix: %w", err)
		}
		report.ComponentMatrix = &matrix
	}
	if kind == ReportTransfusion || kind == ReportAll {
		matrix, err := svc.TransfusionMatrix(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("error building transfusion matrix: %w", err)
		}
		report.TransfusionMatrix = &matrix
	}
	if kind == ReportInventory || kind == ReportAll {
		summary, err := svc.InventorySummary(ctx, report.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("error building inventory summary: %w", err)
		}
		report.Inventory = summary
	}

	return report, nil
}

func (c *ReportCommand) lookup(ctx context.Context, svc *query.QueryService, id entities.BloodTypeID) (*dto.BloodTypeLookup, error) {
	bloodTypes, _, err := svc.InView(ctx, compatibility.Query{BloodTypeFilter: id})
	if err != nil {
		return nil, err
	}
	if len(bloodTypes) == 0 {
		return nil, fmt.Errorf("blood type %d not found", id)
	}

	components, err := svc.ListCompatibleComponents(ctx, id)
	if err != nil {
		return nil, err
	}
	recipients, err := svc.ListCompatibleRecipients(ctx, id)
	if err != nil {
		return nil, err
	}
	donors, err := svc.ListCompatibleDonors(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.BloodTypeLookup{
		BloodType:  bloodTypes[0],
		Components: components,
		Recipients: recipients,
		Donors:     donors,
	}, nil
}

func (c *ReportCommand) printEvent(event events.Event) error {
	switch data := event.Data().(type) {
	case events.SnapshotLoaded:
		fmt.Fprintf(c.out, "✅ Snapshot %s loaded in %v:\n", data.SnapshotID, data.Elapsed)
		fmt.Fprintf(c.out, "  Blood types: %d\n", data.BloodTypes)
		fmt.Fprintf(c.out, "  Components: %d\n", data.Components)
		fmt.Fprintf(c.out, "  Inventory units: %d\n", data.Units)
		fmt.Fprintf(c.out, "  Extraction records: %d\n\n", data.Extractions)
	case events.CatalogWarnings:
		fmt.Fprintf(c.out, "⚠️  %d catalog warnings\n", len(data.Warnings))
	}
	return nil
}

// printHeader prints the command header information
func (c *ReportCommand) printHeader(cfg *config.Config, source repositories.SnapshotSource) {
	fmt.Fprintf(c.out, "🩸 Blood Bank CLI\n")
	fmt.Fprintf(c.out, "Source: %s\n", source.Name())
	fmt.Fprintf(c.out, "Report: %s\n", cfg.Report.Kind)
	fmt.Fprintf(c.out, "Output format: %s\n", cfg.Report.Format)
	if cfg.Report.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", cfg.Report.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *ReportCommand) showHelp() {
	fmt.Fprintf(c.out, `Blood Bank CLI - blood type compatibility and inventory reports

USAGE:
    bloodbank -data <directory>                # Read a CSV snapshot directory
    bloodbank -source api -api-url <url>       # Fetch the snapshot from the REST service

OPTIONS:
    -source <kind>          Snapshot source: csv, api (default: csv)
    -data <dir>             Path to CSV snapshot directory
    -api-url <url>          Base URL of the blood bank service
    -report <kind>          compatibility, transfusion, inventory, all (default: all)
    -blood-type <id>        Show components, recipients and donors for one blood type
    -search <term>          Only include blood types whose name contains term
    -type-filter <id>       Only include this blood type
    -component-filter <id>  Only include this component
    -format <fmt>           Output format: text, json, html, xlsx (default: text)
    -output <dir>           Output directory for results (required for html, xlsx)
    -config <file>          YAML configuration file
    -verbose                Enable verbose output
    -help                   Show this help message

ENVIRONMENT:
    BLOODBANK_SOURCE, BLOODBANK_DATA_DIR, BLOODBANK_API_URL, BLOODBANK_API_TOKEN,
    BLOODBANK_API_TIMEOUT, BLOODBANK_API_PAGE_SIZE, BLOODBANK_LOG_LEVEL, BLOODBANK_LOG_FORMAT

SNAPSHOT DIRECTORY STRUCTURE:
    snapshot/
    ├── blood_types.csv             # Blood types and donation rules
    ├── blood_components.csv        # Component catalog
    ├── blood_type_components.csv   # Components per blood type (optional)
    ├── inventory.csv               # Inventory units (optional)
    └── extractions.csv             # Extraction records (optional)

CSV FILE FORMATS:

blood_types.csv:
    id,type_name,can_donate_to,can_receive_from
    1,O_NEG,"1,2,3,4,5,6,7,8",1

blood_components.csv:
    component_id,component_name
    1,WHOLE_BLOOD

blood_type_components.csv:
    type_id,component_id
    1,1

inventory.csv:
    id,blood_type_id,blood_component_id,quantity,added_date,expiry_date
    1,1,2,450,2024-06-01,2024-07-06

extractions.csv:
    extraction_id,inventory_unit_id,volume,extracted_at
    1,1,200,2024-06-10

EXAMPLES:
    # Full report from a CSV snapshot
    bloodbank -data snapshots/today -verbose

    # What can O_NEG donate and receive
    bloodbank -data snapshots/today -blood-type 1 -report compatibility

    # Inventory spreadsheet from the live service
    bloodbank -source api -api-url https://bloodbank.example.org/api -report inventory -format xlsx -output reports/
`)
}
