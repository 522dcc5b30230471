// Package clientdb loads the customer roster that maps supplier tax numbers
// to accounting customer ids.
package clientdb

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/parsererror"
	"mydata/epsilon-export/internal/textutils"
)

// headerScanRows bounds the search for the header row.
const headerScanRows = 20

var (
	afmTokens  = []string{"αφμ", "afm", "vat", "α.φ.μ", "tax"}
	idTokens   = []string{"κωδ", "code", "id", "custid", "α/α"}
	nameTokens = []string{"επωνυμ", "name", "ονομ", "περιγραφ"}

	csvDelimiters = []rune{',', ';', '\t', '|'}
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
)

// Loader reads roster files in CSV, XLSX or legacy XLS format.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a roster loader.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Loader{logger: logger}
}

// Load reads the roster at path. A file without AFM or id columns is a hard
// error; rows with an unusable id are skipped.
func (l *Loader) Load(path string) (*models.ClientMap, error) {
	rows, err := l.readRows(path)
	if err != nil {
		return nil, err
	}
	cm, err := l.fromRows(path, rows)
	if err != nil {
		return nil, err
	}
	cm.Source = path
	l.logger.Info("Loaded client roster",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, cm.Len()))
	return cm, nil
}

func (l *Loader) readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".xls":
		return readXLS(path)
	case ".csv", ".txt", "":
		return readCSV(path)
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "csv, txt, xlsx, xlsm or xls",
			Msg:            "unsupported roster file extension",
		}
	}
}

func (l *Loader) fromRows(path string, rows [][]string) (*models.ClientMap, error) {
	headerIdx := findHeaderRow(rows)
	if headerIdx < 0 {
		return nil, &parsererror.DataExtractionError{
			FilePath:  path,
			FieldName: "header",
			Reason:    "roster has no non-empty rows",
		}
	}
	header := rows[headerIdx]

	afmCol, idCol, nameCol := mapColumns(header)
	var missing []string
	if afmCol < 0 {
		missing = append(missing, "afm")
	}
	if idCol < 0 {
		missing = append(missing, "id")
	}
	if len(missing) > 0 {
		return nil, &parsererror.MissingColumnsError{
			FilePath: path,
			Missing:  missing,
			Headers:  trimAll(header),
		}
	}

	cm := models.NewClientMap()
	skipped := 0
	for _, row := range rows[headerIdx+1:] {
		if blankRow(row) {
			continue
		}
		id, ok := textutils.ParseInt(cell(row, idCol))
		if !ok {
			skipped++
			continue
		}
		name := ""
		if nameCol >= 0 {
			name = cell(row, nameCol)
		}
		cm.Add(textutils.NormalizeAFM(cell(row, afmCol)), id, name)
	}
	if skipped > 0 {
		l.logger.Warn("Skipped roster rows with invalid id",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, skipped))
	}
	return cm, nil
}

// findHeaderRow returns the index of the row with the most non-empty cells
// among the first rows, or -1 when all are empty.
func findHeaderRow(rows [][]string) int {
	best, bestCount := -1, 0
	for i, row := range rows {
		if i >= headerScanRows {
			break
		}
		n := 0
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

// mapColumns assigns each header cell to at most one role; AFM tokens are
// checked before id tokens so "tax id" is an AFM column.
func mapColumns(header []string) (afmCol, idCol, nameCol int) {
	afmCol, idCol, nameCol = -1, -1, -1
	for i, h := range header {
		f := textutils.Fold(h)
		if f == "" {
			continue
		}
		switch {
		case textutils.ContainsAny(f, afmTokens):
			if afmCol < 0 {
				afmCol = i
			}
		case textutils.ContainsAny(f, idTokens):
			if idCol < 0 {
				idCol = i
			}
		case textutils.ContainsAny(f, nameTokens):
			if nameCol < 0 {
				nameCol = i
			}
		}
	}
	return afmCol, idCol, nameCol
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading roster %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1253.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("error decoding roster %s: %w", path, err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "delimited text",
			Err:            err,
		}
	}
	return rows, nil
}

// sniffDelimiter picks the candidate that occurs most often on the first
// non-empty lines, defaulting to comma.
func sniffDelimiter(data []byte) rune {
	counts := make(map[rune]int, len(csvDelimiters))
	lines := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range csvDelimiters {
			counts[d] += strings.Count(line, string(d))
		}
		lines++
		if lines >= 5 {
			break
		}
	}
	best, bestCount := ',', 0
	for _, d := range csvDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "xlsx", Err: err}
	}
	defer func() { _ = f.Close() }()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet %s of %s: %w", sheet, path, err)
		}
		if hasData(rows) {
			return rows, nil
		}
	}
	return nil, nil
}

func readXLS(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading roster %s: %w", path, err)
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "xls", Err: err}
	}

	for _, sheet := range workbook.GetSheets() {
		var rows [][]string
		for _, row := range sheet.GetRows() {
			var values []string
			for _, c := range row.GetCols() {
				values = append(values, c.GetString())
			}
			rows = append(rows, values)
		}
		if hasData(rows) {
			return rows, nil
		}
	}
	return nil, nil
}

func hasData(rows [][]string) bool {
	for _, row := range rows {
		if !blankRow(row) {
			return true
		}
	}
	return false
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
