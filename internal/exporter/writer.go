package exporter

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"mydata/epsilon-export/internal/common"
	"mydata/epsilon-export/internal/fileutils"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
)

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// moneyColumns are the movement sheet columns holding amounts.
var moneyColumns = []string{"I", "L", "M", "N"}

// Result is the outcome of an export. Path is empty and Issues non-empty
// when the export was refused.
type Result struct {
	OK       bool
	Path     string
	Issues   models.Issues
	Moves    int
	Partners int
}

// Writer exports previews to workbooks.
type Writer struct {
	logger logging.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{logger: logger}
}

// Export writes the workbook for p to path. A preview with any issue is
// refused and nothing is written. err reports I/O failures only.
func (w *Writer) Export(p models.Preview, path string) (Result, error) {
	if !p.OK() {
		w.logger.Warn("Export refused: preview has issues",
			logging.F(logging.FieldCount, len(p.Issues)))
		return Result{Issues: p.Issues}, nil
	}

	moves := BuildMoves(p.Rows)
	partners := BuildPartners(p.Rows, moves, p.SupplierID)

	err := fileutils.WriteFileAtomic(path, func(out io.Writer) error {
		return WriteWorkbook(out, moves, partners)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to write export %s: %w", path, err)
	}

	w.logger.Info("Export written",
		logging.F(logging.FieldOutput, path),
		logging.F("moves", len(moves)),
		logging.F("partners", len(partners)))
	return Result{OK: true, Path: path, Moves: len(moves), Partners: len(partners)}, nil
}

// WriteIssues saves the issue list as CSV.
func (w *Writer) WriteIssues(issues models.Issues, path string) error {
	return common.WriteCSVFile([]models.Issue(issues), path, w.logger)
}

// IssuesPath is the report path used next to an export target.
func IssuesPath(exportPath, vat string) string {
	return filepath.Join(filepath.Dir(exportPath), fmt.Sprintf("issues_%s.csv", vat))
}

// WriteWorkbook renders the two sheets as xlsx to out.
func WriteWorkbook(out io.Writer, moves []models.MoveRow, partners []models.PartnerRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", models.SheetMoves); err != nil {
		return fmt.Errorf("error naming movements sheet: %w", err)
	}
	if _, err := f.NewSheet(models.SheetPartners); err != nil {
		return fmt.Errorf("error adding partners sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("error creating number style: %w", err)
	}

	for _, col := range moneyColumns {
		if err := f.SetColStyle(models.SheetMoves, col, moneyStyle); err != nil {
			return fmt.Errorf("error styling column %s: %w", col, err)
		}
	}
	if err := writeHeader(f, models.SheetMoves, models.MoveColumns, headerStyle); err != nil {
		return err
	}
	for i, m := range moves {
		if err := setRow(f, models.SheetMoves, i+2, moveValues(m)); err != nil {
			return err
		}
	}

	if err := writeHeader(f, models.SheetPartners, models.PartnerColumns, headerStyle); err != nil {
		return err
	}
	for i, p := range partners {
		if err := setRow(f, models.SheetPartners, i+2, []interface{}{p.ID, p.AFM, p.Name}); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("error serializing workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	if err := setRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("error styling header of %s: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("error writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// moveValues lists a MoveRow in MoveColumns order.
func moveValues(m models.MoveRow) []interface{} {
	return []interface{}{
		m.ArtID,
		m.MType,
		m.IsKepyo,
		m.IsAgryp,
		m.CustID,
		m.MDate,
		m.Reason,
		m.Invoice,
		m.SumKepyoYp.Round(2).InexactFloat64(),
		m.LCodeDetail,
		m.IsAgrypDet,
		m.KepyoParty.Round(2).InexactFloat64(),
		m.NetAmtDetail.Round(2).InexactFloat64(),
		m.VATAmtDetail.Round(2).InexactFloat64(),
		m.MSign,
		m.LCode,
		m.OtherExpend,
	}
}
