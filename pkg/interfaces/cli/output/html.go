package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/truongquocminh/bloodbank/pkg/application/dto"
	"github.com/truongquocminh/bloodbank/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTMLReport renders a self-contained HTML report with matrix and inventory tables
type HTMLReport struct {
	Title string
}

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	*dto.Report
	Title       string
	DataJSON    template.JS
	GeneratedAt string
}

// NewHTMLReport creates a new HTML report generator
func NewHTMLReport() *HTMLReport {
	return &HTMLReport{Title: "Blood Bank Report"}
}

// Render executes the report template
func (hr *HTMLReport) Render(report *dto.Report) (string, error) {
	// the raw report is embedded for client-side filtering
	jsonData, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report data: %w", err)
	}

	templateData := &TemplateData{
		Report:      report,
		Title:       hr.Title,
		DataJSON:    template.JS(jsonData),
		GeneratedAt: report.GeneratedAt.Format("2006-01-02 15:04:05"),
	}

	tmpl, err := template.New("report.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

var templateFuncs = template.FuncMap{
	"mark": mark,
	"stockClass": func(level entities.StockLevel) string {
		return "stock-" + level.String()
	},
	"expiryClass": func(status entities.ExpiryStatus) string {
		return "expiry-" + status.String()
	},
	"expiryText": expiryText,
	"date": func(row dto.UnitStatus) string {
		if row.Unit.ExpiryDate.IsZero() {
			return "-"
		}
		return row.Unit.ExpiryDate.Format("2006-01-02")
	},
	"names":      typeNames,
	"joinOrNone": joinOrNone,
	"componentNames": func(components []entities.BloodComponent) []string {
		names := make([]string, len(components))
		for i, c := range components {
			names[i] = c.ComponentName
		}
		return names
	},
}
