// Package exporter turns a clean preview into the accounting import
// workbook: one movement per invoice line plus the partner registry.
package exporter

import (
	"sort"
	"strings"

	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

// purchaseKeywords mark a line category as a purchase or expense.
var purchaseKeywords = []string{
	"αγορ", "δαπαν", "εξοδ", "expense", "purchase", "receipts",
	"merchandise", "raw-material", "general-expenses",
}

// IsPurchaseCategory applies the purchase/expense heuristic to category text.
func IsPurchaseCategory(text string) bool {
	return textutils.ContainsAny(textutils.Fold(text), purchaseKeywords)
}

// InvoiceRef joins series and number, dropping whichever is empty.
func InvoiceRef(series, aa string) string {
	return strings.TrimSpace(strings.TrimSpace(series) + " " + strings.TrimSpace(aa))
}

// BuildMoves flattens preview rows into one MoveRow per line. ARTID grows by
// one per invoice and is shared by all of its lines.
func BuildMoves(rows []models.PreviewRow) []models.MoveRow {
	var moves []models.MoveRow
	for i, row := range rows {
		artID := i + 1
		sign := 1
		if row.Net.IsNegative() {
			sign = -1
		}
		custID := 0
		if row.CustID != nil {
			custID = *row.CustID
		}
		otherExpend := 0
		if row.OtherExpend {
			otherExpend = 1
		}
		invoiceRef := InvoiceRef(row.Series, row.AA)
		sumKepyo := row.Net.Abs()

		for _, line := range row.Lines {
			mtype := 0
			if row.IsReceipt || IsPurchaseCategory(line.Category+" "+line.RawCategory) {
				mtype = 1
			}
			moves = append(moves, models.MoveRow{
				ArtID:        artID,
				MType:        mtype,
				IsKepyo:      1,
				IsAgryp:      0,
				CustID:       custID,
				MDate:        row.Date,
				Reason:       row.Reason,
				Invoice:      invoiceRef,
				SumKepyoYp:   sumKepyo,
				LCodeDetail:  line.Account,
				IsAgrypDet:   0,
				KepyoParty:   line.Net.Abs(),
				NetAmtDetail: line.Net.Abs(),
				VATAmtDetail: line.VAT.Abs(),
				MSign:        sign,
				LCode:        row.LCode,
				OtherExpend:  otherExpend,
			})
		}
	}
	return moves
}

// BuildPartners lists every CUSTID used by moves exactly once, with the AFM
// and name of the first preview row that used it. When supplierID is set and
// used, that partner is replaced by the shared supplier placeholder. The
// result is sorted by id.
func BuildPartners(rows []models.PreviewRow, moves []models.MoveRow, supplierID *int) []models.PartnerRow {
	firstRow := make(map[int]models.PreviewRow)
	for _, row := range rows {
		if row.CustID == nil {
			continue
		}
		if _, seen := firstRow[*row.CustID]; !seen {
			firstRow[*row.CustID] = row
		}
	}

	used := make(map[int]struct{})
	var partners []models.PartnerRow
	for _, m := range moves {
		if _, ok := used[m.CustID]; ok {
			continue
		}
		used[m.CustID] = struct{}{}

		row := firstRow[m.CustID]
		p := models.PartnerRow{ID: m.CustID, AFM: row.AFM, Name: row.Name}
		if supplierID != nil && *supplierID == m.CustID {
			p.AFM = models.SupplierPlaceholderAFM
			p.Name = models.SupplierPlaceholderName
		}
		partners = append(partners, p)
	}

	sort.SliceStable(partners, func(i, j int) bool {
		return partners[i].ID < partners[j].ID
	})
	return partners
}
