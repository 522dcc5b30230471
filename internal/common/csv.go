// Package common provides the CSV writers shared by the export reports.
package common

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"mydata/epsilon-export/internal/fileutils"
	"mydata/epsilon-export/internal/logging"
)

// Delimiter is the field separator used for written reports.
var Delimiter rune = ','

// MarshalCSV writes rows with a header line to w.
func MarshalCSV[TCSVRow any](rows []TCSVRow, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteCSVFile writes rows to filePath atomically, creating parent
// directories as needed.
func WriteCSVFile[TCSVRow any](rows []TCSVRow, filePath string, logger logging.Logger) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}
	err := fileutils.WriteFileAtomic(filePath, func(w io.Writer) error {
		return MarshalCSV(rows, w)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to write CSV file")
		return err
	}
	logger.Info("Wrote CSV file",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
