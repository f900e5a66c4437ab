package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	alarmID        int64
	alarmDevice    int64
	alarmUnhandled bool
)

// Parent Command
var alarmsCmd = &cobra.Command{
	Use:         "alarms",
	Short:       "Manage alarm records",
	Long:        `List alarms, mark them handled, or count them. Without a subcommand all alarms are listed.`,
	Annotations: viewAnnotation("/alarms"),
	RunE:        listAlarms,
}

// List Command
var alarmsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alarms",
	RunE:  listAlarms,
}

func listAlarms(cmd *cobra.Command, args []string) error {
	alarms, err := current.client.ListAlarms(cmd.Context(), alarmDevice)
	if err != nil {
		return fmt.Errorf("fetching alarms: %w", err)
	}

	if alarmUnhandled {
		open := alarms[:0]
		for _, a := range alarms {
			if a.Status == models.AlarmUnhandled {
				open = append(open, a)
			}
		}
		alarms = open
	}

	if jsonOutput {
		return printJSON(alarms)
	}

	if len(alarms) == 0 {
		fmt.Println("No alarms.")
		return nil
	}

	w := newTable("ID", "DEVICE", "TYPE", "VALUE", "DESCRIPTION", "TRIGGERED", "STATUS", "HANDLED")
	for _, a := range alarms {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.DeviceID,
			a.AlarmType,
			formatFloat(a.AlarmValue),
			orDash(a.AlarmDesc),
			a.TriggerTime,
			a.Status,
			orDash(a.HandleTime),
		)
	}
	return w.Flush()
}

// Handle Command
var alarmsHandleCmd = &cobra.Command{
	Use:     "handle",
	Short:   "Mark an alarm as handled",
	Example: `  energy-cli alarms handle --id 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Handling alarm %d...\n", alarmID)

		if err := current.client.HandleAlarm(cmd.Context(), alarmID); err != nil {
			return fmt.Errorf("handling alarm: %w", err)
		}

		fmt.Println("Alarm handled successfully.")
		return nil
	},
}

type alarmCounts struct {
	Today     int         `json:"today"`
	Unhandled int         `json:"unhandled"`
	ByType    map[int]int `json:"byType"`
}

// Count Command
var alarmsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count today's, unhandled and per-type alarms",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := current.client
		ctx := cmd.Context()

		var out alarmCounts
		var err error
		if out.Today, err = api.TodayAlarmCount(ctx); err != nil {
			return fmt.Errorf("counting today's alarms: %w", err)
		}
		if out.Unhandled, err = api.UnhandledAlarmCount(ctx); err != nil {
			return fmt.Errorf("counting unhandled alarms: %w", err)
		}
		if out.ByType, err = api.AlarmCountByType(ctx); err != nil {
			return fmt.Errorf("counting alarms by type: %w", err)
		}

		if jsonOutput {
			return printJSON(out)
		}

		fmt.Printf("Today: %d   Unhandled: %d\n\n", out.Today, out.Unhandled)
		printAlarmTypes(out.ByType)
		return nil
	},
}

func init() {
	// Register Parent
	rootCmd.AddCommand(alarmsCmd)

	alarmsCmd.AddCommand(alarmsListCmd)
	alarmsCmd.AddCommand(alarmsHandleCmd)
	alarmsCmd.AddCommand(alarmsCountCmd)

	for _, c := range []*cobra.Command{alarmsCmd, alarmsListCmd} {
		c.Flags().Int64Var(&alarmDevice, "device", 0, "Only alarms of this device (default all)")
		c.Flags().BoolVar(&alarmUnhandled, "unhandled", false, "Only show unhandled alarms")
	}

	alarmsHandleCmd.Flags().Int64Var(&alarmID, "id", 0, "Alarm ID to handle")
	_ = alarmsHandleCmd.MarkFlagRequired("id")
}
