package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fleet_tracker/pkg/client"
)

var (
	listOpts   client.ListVehiclesOptions
	statusDate string
)

var vehiclesCmd = &cobra.Command{
	Use:     "vehicles",
	Aliases: []string{"v"},
	Short:   "Browse vehicles and their status history",
}

var vehiclesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles with their latest location",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := api.ListVehicles(cmd.Context(), listOpts)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPLATE\tBRAND\tMODEL\tYEAR\tSTATUS\tLOCATION")
		for _, v := range page.Vehicles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", v.ID, v.PlateNumber, v.Brand, v.Model, v.Year, v.Status, v.Location)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		p := page.Pagination
		fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d vehicles\n", p.CurrentPage, p.TotalPages, p.TotalCount)
		return nil
	},
}

var vehiclesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one vehicle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := api.GetVehicle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, v)
	},
}

var vehiclesStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show a vehicle's status records for one day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := api.VehicleStatus(cmd.Context(), args[0], statusDate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s %s on %s\n", day.Vehicle.PlateNumber, day.Vehicle.Brand, day.Vehicle.Model, day.Date)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSTATUS\tSPEED\tLOCATION")
		for _, r := range day.StatusRecords {
			speed := 0.0
			if r.Speed != nil {
				speed = *r.Speed
			}
			fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", r.Timestamp.Local().Format("15:04:05"), r.Status, speed, r.Location)
		}
		return w.Flush()
	},
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	f := vehiclesListCmd.Flags()
	f.IntVar(&listOpts.Page, "page", 1, "page number")
	f.IntVar(&listOpts.Limit, "limit", 10, "vehicles per page (max 100)")
	f.StringVar(&listOpts.SortBy, "sort-by", "date", "date, plateNumber or status")
	f.StringVar(&listOpts.SortOrder, "order", "desc", "asc or desc")

	vehiclesStatusCmd.Flags().StringVar(&statusDate, "date", "", "day to show (YYYY-MM-DD), defaults to today")

	vehiclesCmd.AddCommand(vehiclesListCmd, vehiclesGetCmd, vehiclesStatusCmd)
}
