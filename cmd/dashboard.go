package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"energy-cli/pkg/models"
)

type dashboardView struct {
	Overview        models.EnergyOverview `json:"overview"`
	UnhandledAlarms int                   `json:"unhandledAlarms"`
}

var dashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Short:       "System overview: consumption, devices and alarms",
	Annotations: viewAnnotation("/dashboard"),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := current.client
		ctx := cmd.Context()

		ov, err := api.EnergyOverview(ctx)
		if err != nil {
			return fmt.Errorf("fetching overview: %w", err)
		}
		unhandled, err := api.UnhandledAlarmCount(ctx)
		if err != nil {
			return fmt.Errorf("fetching unhandled alarms: %w", err)
		}

		view := dashboardView{Overview: ov, UnhandledAlarms: unhandled}
		if jsonOutput {
			return printJSON(view)
		}

		w := newTable("METRIC", "VALUE")
		fmt.Fprintf(w, "Energy today (kWh)\t%s\n", formatFloat(ov.TodayEnergy))
		fmt.Fprintf(w, "Energy this month (kWh)\t%s\n", formatFloat(ov.MonthEnergy))
		fmt.Fprintf(w, "Devices\t%d\n", ov.DeviceCount)
		fmt.Fprintf(w, "Alarms today\t%d\n", ov.TodayAlarmCount)
		fmt.Fprintf(w, "Unhandled alarms\t%d\n", unhandled)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
