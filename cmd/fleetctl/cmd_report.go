package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fleet_tracker/pkg/client"
)

var (
	reportReq client.ReportRequest
	reportOut string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download a vehicle report (xlsx or csv)",
	Long: `Download a report for the given date range.

Without --vehicle the general report for every vehicle is generated;
--vehicle all or --vehicle <id> uses the per-vehicle report endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := api.DownloadReport(cmd.Context(), reportReq)
		if err != nil {
			return err
		}

		path := reportOut
		if path == "" {
			path = reportFilename(report.Filename, reportReq.Format)
		}
		if err := os.WriteFile(path, report.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, len(report.Data))
		return nil
	},
}

// reportFilename 只取伺服器檔名的最後一段，避免寫到目前目錄以外
func reportFilename(name, format string) string {
	base := filepath.Base(filepath.Clean("/" + filepath.FromSlash(name)))
	if base == "." || base == string(filepath.Separator) {
		if format == "" {
			format = "xlsx"
		}
		return "vehicle-report." + format
	}
	return base
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportReq.VehicleID, "vehicle", "", `vehicle id or "all"`)
	f.StringVar(&reportReq.StartDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&reportReq.EndDate, "end", "", "end date (YYYY-MM-DD)")
	f.StringVar(&reportReq.Status, "status", "", "only TRIP, IDLE or STOPPED records")
	f.StringVar(&reportReq.Format, "format", "xlsx", "xlsx or csv")
	f.StringVarP(&reportOut, "output", "o", "", "output file, defaults to the server-provided name")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")
}
