package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"energy-cli/internal/bridge"
	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	energyDevice  int64
	energyFrom    string
	energyTo      string
	energyWatch   time.Duration
	reportVoltage float64
	reportCurrent float64
	reportPower   float64
	reportTotal   float64
	reportTime    string
)

// Parent Command
var energyCmd = &cobra.Command{
	Use:         "energy",
	Short:       "Real-time energy monitoring",
	Long:        `Show live readings of a device, query stored readings or push a reading. Without a subcommand the overview is shown.`,
	Annotations: viewAnnotation("/energy"),
	RunE:        showOverview,
}

var energyOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Consumption today and this month",
	RunE:  showOverview,
}

func showOverview(cmd *cobra.Command, args []string) error {
	ov, err := current.client.EnergyOverview(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching overview: %w", err)
	}
	if jsonOutput {
		return printJSON(ov)
	}

	w := newTable("TODAY (kWh)", "MONTH (kWh)", "DEVICES", "ALARMS TODAY")
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", formatFloat(ov.TodayEnergy), formatFloat(ov.MonthEnergy), ov.DeviceCount, ov.TodayAlarmCount)
	return w.Flush()
}

var energyRealtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Show the latest reading of a device",
	Example: `  energy-cli energy realtime --device 3
  energy-cli energy realtime --device 3 --watch 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if energyWatch <= 0 {
			return printRealtime(cmd, true)
		}

		ticker := time.NewTicker(energyWatch)
		defer ticker.Stop()

		header := true
		for {
			if err := printRealtime(cmd, header); err != nil {
				return err
			}
			header = false
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func printRealtime(cmd *cobra.Command, header bool) error {
	rt, err := current.client.EnergyRealtime(cmd.Context(), energyDevice)
	if err != nil {
		return fmt.Errorf("fetching realtime data: %w", err)
	}
	if jsonOutput {
		return printJSON(rt)
	}

	// While watching, only the first tick prints the header.
	var w *tabwriter.Writer
	if header {
		w = newTable("DEVICE", "VOLTAGE (V)", "CURRENT (A)", "POWER (W)", "TOTAL (kWh)", "COLLECTED")
	} else {
		w = newRowWriter()
	}
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
		rt.DeviceID,
		formatFloat(rt.Voltage),
		formatFloat(rt.Current),
		formatFloat(rt.Power),
		formatFloat(rt.TotalEnergy),
		orDash(rt.CollectTime),
	)
	return w.Flush()
}

var energyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored readings",
	Example: `  energy-cli energy list --device 3 --from "2024-05-01 00:00:00" --to "2024-05-02 00:00:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := models.EnergyQuery{DeviceID: energyDevice, StartTime: energyFrom, EndTime: energyTo}

		data, err := current.client.ListEnergy(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("fetching readings: %w", err)
		}

		if jsonOutput {
			return printJSON(data)
		}
		if len(data) == 0 {
			fmt.Println("No readings found.")
			return nil
		}

		w := newTable("ID", "DEVICE", "VOLTAGE (V)", "CURRENT (A)", "POWER (W)", "TOTAL (kWh)", "COLLECTED")
		for _, d := range data {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				d.ID,
				d.DeviceID,
				formatFloat(d.Voltage),
				formatFloat(d.Current),
				formatFloat(d.Power),
				formatFloat(d.TotalEnergy),
				d.CollectTime,
			)
		}
		return w.Flush()
	},
}

var energyReportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Push a reading on behalf of a device",
	Example: `  energy-cli energy report --device 3 --voltage 229.8 --current 4.2 --power 965 --total 1520.4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collect := reportTime
		if collect == "" {
			collect = time.Now().Format(bridge.CollectTimeFormat)
		}
		r := models.EnergyReport{
			DeviceID:    energyDevice,
			Voltage:     reportVoltage,
			Current:     reportCurrent,
			Power:       reportPower,
			TotalEnergy: reportTotal,
			CollectTime: collect,
		}
		if err := current.client.ReportEnergy(cmd.Context(), r); err != nil {
			return fmt.Errorf("reporting reading: %w", err)
		}
		fmt.Println("Reading reported successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(energyCmd)

	energyCmd.AddCommand(energyOverviewCmd)
	energyCmd.AddCommand(energyRealtimeCmd)
	energyCmd.AddCommand(energyListCmd)
	energyCmd.AddCommand(energyReportCmd)

	energyRealtimeCmd.Flags().Int64Var(&energyDevice, "device", 0, "Device ID")
	energyRealtimeCmd.Flags().DurationVar(&energyWatch, "watch", 0, "Refresh interval (e.g. 5s); 0 prints once")
	_ = energyRealtimeCmd.MarkFlagRequired("device")

	energyListCmd.Flags().Int64Var(&energyDevice, "device", 0, "Device ID (default all devices)")
	energyListCmd.Flags().StringVar(&energyFrom, "from", "", "Start time")
	energyListCmd.Flags().StringVar(&energyTo, "to", "", "End time")

	energyReportCmd.Flags().Int64Var(&energyDevice, "device", 0, "Device ID")
	energyReportCmd.Flags().Float64Var(&reportVoltage, "voltage", 0, "Voltage in V")
	energyReportCmd.Flags().Float64Var(&reportCurrent, "current", 0, "Current in A")
	energyReportCmd.Flags().Float64Var(&reportPower, "power", 0, "Power in W")
	energyReportCmd.Flags().Float64Var(&reportTotal, "total", 0, "Cumulative energy in kWh")
	energyReportCmd.Flags().StringVar(&reportTime, "time", "", "Collect time (default now, "+bridge.CollectTimeFormat+")")
	_ = energyReportCmd.MarkFlagRequired("device")
}
