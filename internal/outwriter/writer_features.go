package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/velostat/velostat/schema"
)

// featureHeader returns the flat column layout of an exported feature table.
// The categorical domains are fixed, so every partition written from the same
// builder shares an identical header.
func featureHeader(holidayColumns []string) []string {
	header := []string{
		"date", "hires", "docks", "docks_known", "hires_per_dock", "defined",
		"year", "month", "iso_week", "weekday",
	}
	header = append(header, schema.MonthColumns()...)
	header = append(header, schema.WeekdayColumns()...)
	header = append(header, holidayColumns...)
	header = append(header,
		"exchange_closed",
		"lockdown", "shops_shut", "hospitality_shut", "rule_of_six", "work_from_home", "postcovid",
		"date_index",
	)
	return header
}

// WriteFeatureDatasetCSV writes one feature dataset to a CSV file with the
// one-hot categoricals expanded. An undefined hires-per-dock serializes as an
// empty cell, never as NaN.
func WriteFeatureDatasetCSV(ds schema.FeatureDataset, outputPath string, precision int) error {
	fmtFloat, fmtBool := createFormatters(precision)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return writeFeatureRowsCSV(file, ds, fmtFloat, fmtBool)
}

func writeFeatureRowsCSV(w io.Writer, ds schema.FeatureDataset, fmtFloat func(float64) string, fmtBool func(bool) string) error {
	return writeCSVWithHeader(w, featureHeader(ds.HolidayColumns), func(csvWriter *csv.Writer) error {
		fmtIndicator := func(v float64) string {
			return strconv.FormatFloat(v, 'f', 0, 64)
		}

		for _, row := range ds.Rows {
			ratio := ""
			if row.Defined {
				ratio = fmtFloat(row.HiresPerDock)
			}

			record := []string{
				row.Date.Format(schema.DayLayout),
				strconv.Itoa(row.Hires),
				strconv.Itoa(row.Docks),
				fmtBool(row.DocksKnown),
				ratio,
				fmtBool(row.Defined),
				strconv.Itoa(row.Year),
				strconv.Itoa(int(row.Month)),
				strconv.Itoa(row.ISOWeek),
				strconv.Itoa(int(row.Weekday)),
			}
			for _, v := range row.MonthOneHot() {
				record = append(record, fmtIndicator(v))
			}
			for _, v := range row.WeekdayOneHot() {
				record = append(record, fmtIndicator(v))
			}
			for _, flag := range row.Holidays {
				record = append(record, fmtBool(flag))
			}
			record = append(record,
				fmtBool(row.ExchangeClosed),
				fmtBool(row.Restrictions.Lockdown),
				fmtBool(row.Restrictions.ShopsShut),
				fmtBool(row.Restrictions.HospitalityShut),
				fmtBool(row.Restrictions.RuleOfSix),
				fmtBool(row.Restrictions.WorkFromHome),
				fmtBool(row.Restrictions.PostCovid),
				fmtFloat(row.DateIndex),
			)

			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}
