package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	LoadTime  time.Duration
	// Stdout receives text and json output when no OutputDir is set. Defaults to os.Stdout.
	Stdout io.Writer
}

// Report file names inside OutputDir
const (
	TextFile  = "bloodbank_report.txt"
	JSONFile  = "bloodbank_report.json"
	HTMLFile  = "bloodbank_report.html"
	ExcelFile = "bloodbank_report.xlsx"
)

// Generate creates output in the specified format
func Generate(report *dto.Report, config Config) error {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}

	switch config.Format {
	case "text", "":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "html":
		return generateHTMLOutput(report, config)
	case "xlsx":
		return generateExcelOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints the report and, with an output directory, saves a copy
func generateTextOutput(report *dto.Report, config Config) error {
	var sb strings.Builder
	WriteText(&sb, report)

	if _, err := io.WriteString(config.Stdout, sb.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}

	if config.OutputDir != "" {
		filename, err := writeReportFile(config.OutputDir, TextFile, []byte(sb.String()))
		if err != nil {
			return err
		}
		if config.Verbose {
			fmt.Fprintf(config.Stdout, "💾 Results saved to: %s\n", filename)
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *dto.Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Stdout, string(jsonData))
		return nil
	}

	filename, err := writeReportFile(config.OutputDir, JSONFile, jsonData)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

func generateHTMLOutput(report *dto.Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for HTML format")
	}

	html, err := NewHTMLReport().Render(report)
	if err != nil {
		return err
	}

	filename, err := writeReportFile(config.OutputDir, HTMLFile, []byte(html))
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 HTML report saved to: %s\n", filename)
	}
	return nil
}

func generateExcelOutput(report *dto.Report, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, ExcelFile)
	if err := WriteExcel(report, filename); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "💾 Spreadsheet saved to: %s\n", filename)
	}
	return nil
}

func writeReportFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filename, nil
}

// WriteText renders the human-readable report
func WriteText(w io.Writer, report *dto.Report) {
	fmt.Fprintf(w, "🩸 Blood Bank Report\n")
	fmt.Fprintf(w, "====================\n\n")
	fmt.Fprintf(w, "Source: %s\n", report.Source)
	fmt.Fprintf(w, "Snapshot: %s\n", report.SnapshotID)
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	if q := report.Query; q != (dto.QuerySummary{}) {
		fmt.Fprintf(w, "Filters: search=%q type=%d component=%d\n", q.SearchTerm, q.BloodTypeFilter, q.ComponentFilter)
	}
	fmt.Fprintln(w)

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "⚠️  Catalog warnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	if report.Lookup != nil {
		writeLookup(w, report.Lookup)
	}
	if report.ComponentMatrix != nil {
		fmt.Fprintf(w, "🧪 Blood type / component compatibility\n")
		writeMatrix(w, report.ComponentMatrix)
	}
	if report.TransfusionMatrix != nil {
		fmt.Fprintf(w, "🔁 Donor -> recipient compatibility\n")
		writeMatrix(w, report.TransfusionMatrix)
	}
	if report.Inventory != nil {
		writeInventory(w, report.Inventory)
	}
}

func writeLookup(w io.Writer, lookup *dto.BloodTypeLookup) {
	fmt.Fprintf(w, "🔎 %s (id %d)\n", lookup.BloodType.TypeName, lookup.BloodType.ID)

	components := make([]string, len(lookup.Components))
	for i, c := range lookup.Components {
		components[i] = c.ComponentName
	}
	fmt.Fprintf(w, "  Components: %s\n", joinOrNone(components))
	fmt.Fprintf(w, "  Can donate to: %s\n", joinOrNone(typeNames(lookup.Recipients)))
	fmt.Fprintf(w, "  Can receive from: %s\n\n", joinOrNone(typeNames(lookup.Donors)))
}

func writeMatrix(w io.Writer, matrix *dto.Matrix) {
	if len(matrix.Rows) == 0 || len(matrix.Columns) == 0 {
		fmt.Fprintf(w, "  (no data in view)\n\n")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{""}
	for _, column := range matrix.Columns {
		header = append(header, column.Label)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, row := range matrix.Rows {
		cells := []string{row.Label}
		for _, compatible := range matrix.Cells[i] {
			cells = append(cells, mark(compatible))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	fmt.Fprintf(w, "Compatible: %d/%d (%d%%)\n\n",
		matrix.Stats.TotalCompatible, matrix.Stats.TotalCombinations, matrix.Stats.Rate)
}

func writeInventory(w io.Writer, summary *dto.InventorySummary) {
	fmt.Fprintf(w, "📦 Inventory\n")
	fmt.Fprintf(w, "Units: %d (%d depleted)\n", summary.TotalUnits, summary.DepletedUnits)
	fmt.Fprintf(w, "Total stock: %d ml\n", summary.TotalQuantity)
	fmt.Fprintf(w, "Low stock units: %d\n", summary.LowStockCount)
	fmt.Fprintf(w, "Stock levels: %d %s, %d %s, %d %s\n",
		summary.Stock.Danger, entities.StockDanger.Label(),
		summary.Stock.Warning, entities.StockWarning.Label(),
		summary.Stock.Normal, entities.StockNormal.Label())
	fmt.Fprintf(w, "Expiry: %d %s, %d %s, %d %s, %d %s\n",
		summary.Expiry.Expired, entities.ExpiryExpired.Label(),
		summary.Expiry.ExpiringSoon, entities.ExpiryExpiringSoon.Label(),
		summary.Expiry.Valid, entities.ExpiryValid.Label(),
		summary.Expiry.Unknown, entities.ExpiryUnknown.Label())
	fmt.Fprintf(w, "Extracted: %d records, %s L\n\n", summary.Extractions, summary.ExtractedLiters.StringFixed(2))

	if len(summary.Units) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBlood Type\tComponent\tQty (ml)\tStock\tExpiry Date\tExpiry")
	fmt.Fprintln(tw, "--\t----------\t---------\t--------\t-----\t-----------\t------")
	for _, row := range summary.Units {
		expiry := "-"
		if !row.Unit.ExpiryDate.IsZero() {
			expiry = row.Unit.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			row.Unit.ID,
			row.BloodTypeName,
			row.ComponentName,
			row.Unit.Quantity,
			row.StockLevel.Label(),
			expiry,
			expiryText(row))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func expiryText(row dto.UnitStatus) string {
	if row.DaysUntilExpiry == nil || row.ExpiryStatus == entities.ExpiryExpired {
		return row.ExpiryStatus.Label()
	}
	return fmt.Sprintf("%s (%d ngày)", row.ExpiryStatus.Label(), *row.DaysUntilExpiry)
}

func mark(compatible bool) string {
	if compatible {
		return "✓"
	}
	return "·"
}

func typeNames(types []entities.BloodType) []string {
	names := make([]string, len(types))
	for i, bt := range types {
		names[i] = bt.TypeName
	}
	return names
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
