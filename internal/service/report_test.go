package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/report"
)

func seedReport(t *testing.T, f *fixture) (*models.Vehicle, *models.Vehicle) {
	t.Helper()
	z := f.vehicle(t, "Z9")
	a := f.vehicle(t, "A1")

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, jakarta)
	f.record(t, a.ID, models.StatusStopped, day.Add(6*time.Hour))
	f.record(t, a.ID, models.StatusTrip, day.Add(9*time.Hour+15*time.Minute))
	f.record(t, a.ID, models.StatusIdle, day.AddDate(0, 0, 1).Add(23*time.Hour+59*time.Minute))
	f.record(t, z.ID, models.StatusTrip, day.Add(10*time.Hour))
	f.record(t, z.ID, models.StatusTrip, day.AddDate(0, 0, 2)) // 區間外
	return a, z
}

func TestGenerateAllVehiclesWorkbook(t *testing.T) {
	f := newFixture(t)
	seedReport(t, f)

	out, err := f.services.Report.Generate(context.Background(), ReportParams{
		VehicleID: AllVehicles,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "vehicle-report-all-2024-03-01-to-2024-03-02.xlsx", out.Filename)
	assert.Equal(t, report.ContentTypeXLSX, out.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer wb.Close()

	summary, err := wb.GetRows(report.SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"A1", "Toyota", "Avanza", "2020", "ACTIVE", "3", "1", "1", "1"}, summary[1])
	assert.Equal(t, []string{"Z9", "Toyota", "Avanza", "2020", "ACTIVE", "1", "1", "0", "0"}, summary[2])

	detail, err := wb.GetRows(report.DetailSheet)
	require.NoError(t, err)
	require.Len(t, detail, 5)
	assert.Equal(t, []string{"A1", "STOPPED", "01/03/2024", "06.00.00"}, []string{detail[1][0], detail[1][3], detail[1][4], detail[1][5]})
	assert.Equal(t, "09.15.00", detail[2][5])
	assert.Equal(t, "02/03/2024", detail[3][4])
	assert.Equal(t, "Z9", detail[4][0])
}

func TestGenerateSingleVehicleCSV(t *testing.T) {
	f := newFixture(t)
	a, _ := seedReport(t, f)

	out, err := f.services.Report.Generate(context.Background(), ReportParams{
		VehicleID: a.ID,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-01",
		Status:    models.StatusTrip,
		Format:    FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "vehicle-report-A1-2024-03-01-to-2024-03-01.csv", out.Filename)
	assert.Equal(t, report.ContentTypeCSV, out.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TRIP", rows[1][3])
	assert.Equal(t, "40", rows[1][8])
}

func TestGenerateGeneralReportFilename(t *testing.T) {
	f := newFixture(t)

	out, err := f.services.Report.Generate(context.Background(), ReportParams{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "vehicle-report-2024-03-01-to-2024-03-31.xlsx", out.Filename)
}

func TestGenerateErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Report.Generate(ctx, ReportParams{VehicleID: AllVehicles, StartDate: "2024-03-02", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = f.services.Report.Generate(ctx, ReportParams{VehicleID: "missing", StartDate: "2024-03-01", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = f.services.Report.Generate(ctx, ReportParams{StartDate: "March", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
