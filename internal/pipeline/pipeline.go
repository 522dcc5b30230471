// Package pipeline runs one export for a client VAT: it loads settings,
// credentials, roster and invoice feed, builds the preview, and writes the
// workbook only when the preview is clean.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"mydata/epsilon-export/internal/accounts"
	"mydata/epsilon-export/internal/categorizer"
	"mydata/epsilon-export/internal/classifier"
	"mydata/epsilon-export/internal/clientdb"
	"mydata/epsilon-export/internal/config"
	"mydata/epsilon-export/internal/container"
	"mydata/epsilon-export/internal/exporter"
	"mydata/epsilon-export/internal/invoice"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/preview"
	"mydata/epsilon-export/internal/store"
	"mydata/epsilon-export/internal/validation"
	"mydata/epsilon-export/internal/vatrate"
)

// Options are the per-run inputs. Empty paths fall back to discovery under the
// configured directories.
type Options struct {
	VAT          string
	InvoicesPath string
	ClientDBPath string
	OutputPath   string
}

// Outcome describes a finished run.
type Outcome struct {
	RunID        string
	VAT          string
	InvoicesPath string
	Records      int
	Clients      int
	Preview      models.Preview
	Result       exporter.Result

	// IssuesPath is set when a blocked export wrote its issue report.
	IssuesPath string
}

// Pipeline is safe to reuse across runs; every run builds its own components.
type Pipeline struct {
	store  store.Store
	paths  config.PathsConfig
	export config.ExportConfig
	logger logging.Logger
}

// New builds a Pipeline from the container dependencies.
func New(c *container.Container) *Pipeline {
	cfg := c.GetConfig()
	return &Pipeline{
		store:  c.GetStore(),
		paths:  cfg.Paths,
		export: cfg.Export,
		logger: c.GetLogger(),
	}
}

// DefaultOutputPath is <exportsDir>/<vat>/epsilon_<vat>.xlsx.
func DefaultOutputPath(exportsDir, vat string) string {
	return filepath.Join(exportsDir, vat, fmt.Sprintf("epsilon_%s.xlsx", vat))
}

// OutputPath is the workbook target for opts.
func (p *Pipeline) OutputPath(opts Options) string {
	if opts.OutputPath != "" {
		return opts.OutputPath
	}
	return DefaultOutputPath(p.paths.ExportsDir, strings.TrimSpace(opts.VAT))
}

// Preview loads every input and builds the preview without writing anything.
// Errors are hard failures (unreadable feed, roster without required columns,
// malformed settings); everything else is reported as preview issues.
func (p *Pipeline) Preview(opts Options) (Outcome, error) {
	if err := validateInputs(opts); err != nil {
		return Outcome{}, err
	}
	vat := strings.TrimSpace(opts.VAT)

	out := Outcome{RunID: uuid.NewString(), VAT: vat}
	log := p.logger.WithFields(
		logging.F(logging.FieldRunID, out.RunID),
		logging.F(logging.FieldVAT, vat))

	settings, err := p.store.LoadSettings()
	if err != nil {
		return out, fmt.Errorf("failed to load settings: %w", err)
	}
	creds, err := p.store.LoadCredentials()
	if err != nil {
		return out, fmt.Errorf("failed to load credentials: %w", err)
	}
	cred, ok := store.SelectCredential(creds, vat)
	if !ok {
		log.Warn("No credentials entry; receipts use per-issuer customers")
	} else if cred.VAT != vat {
		log.Warn("No credentials entry for this VAT; using the first entry",
			logging.F("credential_vat", cred.VAT))
	}

	merged := accounts.MergeCustomCategories(settings, cred)
	canon := categorizer.NewCanonicalizer(log, accounts.CustomCategoryKeys(cred)...)
	resolver := accounts.NewResolver(merged, log)

	clients, err := clientdb.NewLoader(log).LoadOrDiscover(opts.ClientDBPath, p.paths.ClientDBDir, p.paths.DataDir)
	if err != nil {
		return out, fmt.Errorf("failed to load client roster: %w", err)
	}
	out.Clients = clients.Len()

	feed, err := invoice.ResolveFeedPath(opts.InvoicesPath, p.paths.InvoicesDir, vat)
	if err != nil {
		return out, err
	}
	records, err := invoice.LoadFeed(feed)
	if err != nil {
		return out, err
	}
	out.InvoicesPath = feed
	out.Records = len(records)
	log.Info("Loaded invoice feed",
		logging.F(logging.FieldFile, feed),
		logging.F(logging.FieldCount, len(records)))

	lines := invoice.NewLineParser(canon, vatrate.NewInferencer(log), log)
	builder := preview.NewBuilder(classifier.NewClassifier(log), lines, resolver, clients, cred, log)
	out.Preview = builder.Build(records)

	log.Info("Preview built",
		logging.F("rows", len(out.Preview.Rows)),
		logging.F("issues", len(out.Preview.Issues)))
	return out, nil
}

// Export runs Preview and writes the workbook. A preview with issues yields
// an Outcome whose Result is not OK and, when enabled, an issue report.
func (p *Pipeline) Export(opts Options) (Outcome, error) {
	out, err := p.Preview(opts)
	if err != nil {
		return out, err
	}
	log := p.logger.WithFields(
		logging.F(logging.FieldRunID, out.RunID),
		logging.F(logging.FieldVAT, out.VAT))

	target := p.OutputPath(opts)
	if err := validation.IsValidOutputPath(target); err != nil {
		return out, err
	}
	writer := exporter.NewWriter(log)
	res, err := writer.Export(out.Preview, target)
	if err != nil {
		return out, err
	}
	out.Result = res

	if !res.OK && p.export.IssuesCSV {
		issuesPath := exporter.IssuesPath(target, out.VAT)
		if err := writer.WriteIssues(res.Issues, issuesPath); err != nil {
			log.WithError(err).Warn("Could not write issue report")
		} else {
			out.IssuesPath = issuesPath
		}
	}
	return out, nil
}

func validateInputs(opts Options) error {
	if err := validation.IsValidVAT(opts.VAT); err != nil {
		return err
	}
	for _, path := range []string{opts.InvoicesPath, opts.ClientDBPath} {
		if path == "" {
			continue
		}
		if err := validation.IsValidInputFile(path); err != nil {
			return err
		}
	}
	return nil
}
