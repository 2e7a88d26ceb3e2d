// Package report 將車輛狀態資料輸出為 Excel 活頁簿或 CSV。
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DetailSheet  = "Detailed Records"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

var (
	summaryHeader = []string{
		"Plate Number", "Brand", "Model", "Year", "Status",
		"Total Records", "Trip Records", "Idle Records", "Stopped Records",
	}
	detailHeader = []string{
		"Plate Number", "Brand", "Model", "Status", "Date", "Time",
		"Latitude", "Longitude", "Speed (km/h)", "Location",
	}
)

// SummaryRow 每台車一列的統計
type SummaryRow struct {
	PlateNumber    string
	Brand          string
	Model          string
	Year           int
	Status         string
	TotalRecords   int
	TripRecords    int
	IdleRecords    int
	StoppedRecords int
}

// DetailRow 每筆狀態紀錄一列，Latitude/Longitude 為 nil 時輸出空白
type DetailRow struct {
	PlateNumber string
	Brand       string
	Model       string
	Status      string
	Date        string
	Time        string
	Latitude    *float64
	Longitude   *float64
	Speed       float64
	Location    string
}

func (r SummaryRow) cells() []interface{} {
	return []interface{}{
		r.PlateNumber, r.Brand, r.Model, r.Year, r.Status,
		r.TotalRecords, r.TripRecords, r.IdleRecords, r.StoppedRecords,
	}
}

func (r DetailRow) cells() []interface{} {
	return []interface{}{
		r.PlateNumber, r.Brand, r.Model, r.Status, r.Date, r.Time,
		optional(r.Latitude), optional(r.Longitude), r.Speed, r.Location,
	}
}

func (r DetailRow) strings() []string {
	return []string{
		r.PlateNumber, r.Brand, r.Model, r.Status, r.Date, r.Time,
		optionalString(r.Latitude), optionalString(r.Longitude),
		strconv.FormatFloat(r.Speed, 'f', -1, 64), r.Location,
	}
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// WriteXLSX 輸出兩個工作表：Summary 與 Detailed Records
func WriteXLSX(w io.Writer, summary []SummaryRow, detail []DetailRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	summaryRows := make([][]interface{}, len(summary))
	for i, r := range summary {
		summaryRows[i] = r.cells()
	}
	if err := writeSheet(f, SummarySheet, summaryHeader, summaryRows, headerStyle); err != nil {
		return err
	}

	detailRows := make([][]interface{}, len(detail))
	for i, r := range detail {
		detailRows[i] = r.cells()
	}
	if err := writeSheet(f, DetailSheet, detailHeader, detailRows, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// WriteCSV 只輸出明細表
func WriteCSV(w io.Writer, detail []DetailRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return err
	}
	for _, r := range detail {
		if err := cw.Write(r.strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
