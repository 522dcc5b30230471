// Package preview builds the per-invoice review rows and collects every
// issue that must be fixed before an export is allowed.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mydata/epsilon-export/internal/accounts"
	"mydata/epsilon-export/internal/categorizer"
	"mydata/epsilon-export/internal/classifier"
	"mydata/epsilon-export/internal/invoice"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

// Builder turns records into preview rows.
type Builder struct {
	classifier *classifier.Classifier
	lines      *invoice.LineParser
	resolver   *accounts.Resolver
	clients    *models.ClientMap
	credential models.Credential
	logger     logging.Logger
}

// NewBuilder wires a Builder. clients may be nil or empty, in which case
// every row reports a missing customer id.
func NewBuilder(
	cls *classifier.Classifier,
	lines *invoice.LineParser,
	resolver *accounts.Resolver,
	clients *models.ClientMap,
	credential models.Credential,
	logger logging.Logger,
) *Builder {
	return &Builder{
		classifier: cls,
		lines:      lines,
		resolver:   resolver,
		clients:    clients,
		credential: credential,
		logger:     logger,
	}
}

// Build processes every record. It never fails: problems become issues.
func (b *Builder) Build(records []models.Record) models.Preview {
	var p models.Preview
	if b.credential.SupplierMode() {
		if id, ok := b.credential.SupplierID(); ok {
			p.SupplierID = models.IntPtr(id)
		}
	}

	p.Rows = make([]models.PreviewRow, 0, len(records))
	for _, rec := range records {
		row, issues := b.BuildRow(rec)
		p.Rows = append(p.Rows, row)
		p.Issues = append(p.Issues, issues...)
	}

	b.logger.Info("Preview built",
		logging.F(logging.FieldCount, len(p.Rows)),
		logging.F("issues", len(p.Issues)))
	return p
}

// BuildRow builds the preview row for one record and the issues it raises.
func (b *Builder) BuildRow(rec models.Record) (models.PreviewRow, models.Issues) {
	doc := b.classifier.Classify(rec, b.clients)
	h := invoice.ReadHeader(rec)

	row := models.PreviewRow{
		Mark:        h.Mark,
		AA:          h.AA,
		Series:      h.Series,
		Date:        h.Date,
		AFM:         doc.AFM,
		Name:        textutils.FirstNonEmpty(doc.Name, b.clients.Name(doc.AFM)),
		Reason:      doc.Reason,
		IsReceipt:   doc.IsReceipt,
		OtherExpend: doc.IsReceipt && b.credential.OtherExpenses(),
		Net:         decimal.Zero,
		VAT:         decimal.Zero,
	}

	var issues models.Issues
	add := func(issue models.Issue) {
		issue.Mark, issue.AA = h.Mark, h.AA
		b.logger.Warn(issue.Message,
			logging.F(logging.FieldIssue, string(issue.Code)),
			logging.F(logging.FieldMark, h.Mark),
			logging.F(logging.FieldAA, h.AA))
		issues.Add(issue)
	}

	b.resolveCustID(&row, doc, add)

	lcode, headerKey := b.resolver.HeaderAccount(doc.IsReceipt)
	row.LCode = lcode
	if lcode == "" {
		add(models.Issue{
			Code:    models.IssueMissingHeaderAccount,
			Message: fmt.Sprintf("%s: header account is not configured (set %s)", label(h), headerKey),
			Modal:   true,
			Key:     headerKey,
		})
	}

	var categories, detailAccounts []string
	for i, line := range b.lines.Parse(rec) {
		pl := models.PreviewLine{Line: line, Index: i + 1}
		if doc.IsReceipt && pl.Category == "" {
			pl.Category = categorizer.CategoryReceipts
		}
		b.resolveLine(&pl, doc.IsReceipt, h, add)

		row.Net = row.Net.Add(pl.Net).Round(2)
		row.VAT = row.VAT.Add(pl.VAT).Round(2)
		row.Lines = append(row.Lines, pl)
		if pl.Category != "" {
			categories = append(categories, pl.Category)
		}
		if pl.Account != "" {
			detailAccounts = append(detailAccounts, pl.Account)
		}
	}
	row.Gross = row.Net.Add(row.VAT).Round(2)
	row.Characts = joinUnique(categories)
	row.DetailAccounts = joinUnique(detailAccounts)

	return row, issues
}

func (b *Builder) resolveCustID(row *models.PreviewRow, doc classifier.Document, add func(models.Issue)) {
	if doc.IsReceipt && b.credential.SupplierMode() {
		id, ok := b.credential.SupplierID()
		if ok && b.clients.HasID(id) {
			row.CustID = models.IntPtr(id)
			return
		}
		supplier := models.ScalarString(b.credential.ApodeixakiaSupplier)
		add(models.Issue{
			Code:    models.IssueSupplierNotInClientDB,
			Message: fmt.Sprintf("receipt supplier id %q is not in the client database", supplier),
		})
		return
	}

	if id, ok := b.clients.Lookup(doc.AFM); ok {
		row.CustID = models.IntPtr(id)
		return
	}
	add(models.Issue{
		Code:    models.IssueCustIDMissing,
		Message: fmt.Sprintf("no customer id for AFM %q (%s)", doc.AFM, doc.Reason),
	})
}

// resolveLine sets the detail account. Receipts whose line is in the receipts
// category tolerate a missing VAT rate since they always resolve at 0%.
func (b *Builder) resolveLine(pl *models.PreviewLine, isReceipt bool, h invoice.Header, add func(models.Issue)) {
	where := fmt.Sprintf("%s line %d", label(h), pl.Index)

	if pl.Category == "" {
		add(models.Issue{
			Code:    models.IssueMissingCategoryLine,
			Message: where + ": category is missing",
			Line:    pl.Index,
		})
		return
	}

	tolerant := isReceipt && categorizer.IsReceiptsCategory(pl.Category)
	if pl.VATRate == nil && !tolerant {
		add(models.Issue{
			Code:    models.IssueMissingVATRateLine,
			Message: fmt.Sprintf("%s: VAT rate could not be determined (category %s)", where, pl.Category),
			Line:    pl.Index,
		})
	}

	res := b.resolver.Resolve(pl.Category, isReceipt, pl.VATRate)
	pl.Account = res.Account
	if res.Account != "" || res.Debug == nil || res.Debug.Reason != accounts.ReasonNotFound {
		return
	}
	add(models.Issue{
		Code: models.IssueUnresolvedAccountLine,
		Message: fmt.Sprintf("%s: no account for category %s at VAT %d%% (set %s)",
			where, res.Debug.Category, *res.Debug.Rate, res.Debug.ExpectedKey),
		Modal: true,
		Line:  pl.Index,
		Key:   res.Debug.ExpectedKey,
	})
}

func label(h invoice.Header) string {
	switch {
	case h.Mark != "":
		return "MARK " + h.Mark
	case h.AA != "":
		return "AA " + h.AA
	}
	return "record"
}

func joinUnique(values []string) string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
