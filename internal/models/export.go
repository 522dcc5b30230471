package models

import "github.com/shopspring/decimal"

// Sheet names and column layouts of the accounting import workbook.
const (
	SheetMoves    = "ΚΙΝΗΣΕΙΣ"
	SheetPartners = "ΣΥΝΑΛΛΑΣΣΟΜΕΝΟΙ"
)

// MoveColumns is the exact column order of the movements sheet.
var MoveColumns = []string{
	"ARTID", "MTYPE", "ISKEPYO", "ISAGRYP", "CUSTID", "MDATE", "REASON", "INVOICE",
	"SUMKEPYOYP", "LCODE_DETAIL", "ISAGRYP_DETAIL", "KEPYOPARTY_DETAIL",
	"NETAMT_DETAIL", "VATAMT_DETAIL", "MSIGN", "LCODE", "OTHEREXPEND",
}

// PartnerColumns is the exact column order of the partners sheet.
var PartnerColumns = []string{"Α/Α", "ΑΦΜ", "ΕΠΩΝΥΜΙΑ"}

// Placeholder partner written for the shared retail-receipt supplier.
const (
	SupplierPlaceholderAFM  = "000000000"
	SupplierPlaceholderName = "ΠΡΟΜΗΘΕΥΤΕΣ ΔΑΠΑΝΩΝ"
)

// MoveRow is one ledger movement: one per (invoice, line) pair. Amounts are
// absolute; the sign of the invoice net is carried by MSign.
type MoveRow struct {
	ArtID        int
	MType        int
	IsKepyo      int
	IsAgryp      int
	CustID       int
	MDate        string
	Reason       string
	Invoice      string
	SumKepyoYp   decimal.Decimal
	LCodeDetail  string
	IsAgrypDet   int
	KepyoParty   decimal.Decimal
	NetAmtDetail decimal.Decimal
	VATAmtDetail decimal.Decimal
	MSign        int
	LCode        string
	OtherExpend  int
}

// PartnerRow is one counterparty of the partner registry.
type PartnerRow struct {
	ID   int
	AFM  string
	Name string
}
