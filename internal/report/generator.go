// Package report renders a preview as a machine readable summary for the
// review screen and for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Row is the per-invoice part of a Summary. Amounts are fixed two-decimal strings.
type Row struct {
	Mark      string `json:"mark,omitempty" yaml:"mark,omitempty"`
	Invoice   string `json:"invoice" yaml:"invoice"`
	Date      string `json:"date" yaml:"date"`
	AFM       string `json:"afm" yaml:"afm"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	CustID    *int   `json:"cust_id" yaml:"cust_id"`
	Receipt   bool   `json:"receipt" yaml:"receipt"`
	Net       string `json:"net" yaml:"net"`
	VAT       string `json:"vat" yaml:"vat"`
	Gross     string `json:"gross" yaml:"gross"`
	LCode     string `json:"lcode" yaml:"lcode"`
	Details   string `json:"detail_accounts" yaml:"detail_accounts"`
	Characts  string `json:"characts" yaml:"characts"`
	LineCount int    `json:"lines" yaml:"lines"`
}

// IssueCount is the number of issues of one code.
type IssueCount struct {
	Code  models.IssueCode `json:"code" yaml:"code"`
	Count int              `json:"count" yaml:"count"`
}

// Summary is the rendered view of one preview.
type Summary struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	VAT        string         `json:"vat" yaml:"vat"`
	Source     string         `json:"source" yaml:"source"`
	Exportable bool           `json:"exportable" yaml:"exportable"`
	Rows       []Row          `json:"rows" yaml:"rows"`
	Issues     []models.Issue `json:"issues" yaml:"issues"`
	Counts     []IssueCount   `json:"issue_counts" yaml:"issue_counts"`
}

// Summarize builds a Summary from a preview.
func Summarize(runID, vat, source string, p models.Preview) *Summary {
	s := &Summary{
		RunID:      runID,
		VAT:        vat,
		Source:     source,
		Exportable: p.OK(),
		Rows:       make([]Row, 0, len(p.Rows)),
		Issues:     append([]models.Issue{}, p.Issues...),
	}
	for _, r := range p.Rows {
		invoice := r.AA
		if r.Series != "" {
			invoice = r.Series + " " + r.AA
		}
		s.Rows = append(s.Rows, Row{
			Mark:      r.Mark,
			Invoice:   invoice,
			Date:      r.Date,
			AFM:       r.AFM,
			Name:      r.Name,
			CustID:    r.CustID,
			Receipt:   r.IsReceipt,
			Net:       textutils.FormatAmount(r.Net),
			VAT:       textutils.FormatAmount(r.VAT),
			Gross:     textutils.FormatAmount(r.Gross),
			LCode:     r.LCode,
			Details:   r.DetailAccounts,
			Characts:  r.Characts,
			LineCount: len(r.Lines),
		})
	}
	for code, n := range p.Issues.CountByCode() {
		s.Counts = append(s.Counts, IssueCount{Code: code, Count: n})
	}
	sort.Slice(s.Counts, func(i, j int) bool { return s.Counts[i].Code < s.Counts[j].Code })
	return s
}

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger.WithField(logging.FieldComponent, "report")}
}

// IsValidFormat checks if the given format is supported.
func IsValidFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'yaml'", format)
	}
}

// Generate renders s in format.
func (g *Generator) Generate(s *Summary, format string) ([]byte, error) {
	if err := IsValidFormat(format); err != nil {
		return nil, err
	}
	if format == FormatYAML {
		return g.generateYAML(s)
	}
	return g.generateJSON(s)
}

func (g *Generator) generateJSON(s *Summary) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(s *Summary) ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
