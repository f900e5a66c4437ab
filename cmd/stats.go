package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var (
	statsDevice int64
	statsPeriod string
)

// Parent Command
var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Consumption and alarm statistics",
	Long:        `Consumption series per day or month, and alarm counts per type. Without a subcommand the consumption series is shown.`,
	Annotations: viewAnnotation("/stats"),
	RunE:        showEnergyStats,
}

var statsEnergyCmd = &cobra.Command{
	Use:     "energy",
	Short:   "Consumption series",
	Example: `  energy-cli stats energy --type month --device 3`,
	RunE:    showEnergyStats,
}

func showEnergyStats(cmd *cobra.Command, args []string) error {
	points, err := current.client.EnergyStatistics(cmd.Context(), statsDevice, statsPeriod)
	if err != nil {
		return fmt.Errorf("fetching statistics: %w", err)
	}

	if jsonOutput {
		return printJSON(points)
	}
	if len(points) == 0 {
		fmt.Println("No statistics available.")
		return nil
	}

	w := newTable("TIME", "ENERGY (kWh)")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Time, formatFloat(p.Energy))
	}
	return w.Flush()
}

var statsAlarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "Alarm counts per alarm type",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := current.client.AlarmCountByType(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching alarm counts: %w", err)
		}

		if jsonOutput {
			return printJSON(counts)
		}
		printAlarmTypes(counts)
		return nil
	},
}

func printAlarmTypes(counts map[int]int) {
	if len(counts) == 0 {
		fmt.Println("No alarms recorded.")
		return
	}

	types := make([]int, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Ints(types)

	w := newTable("TYPE", "COUNT")
	for _, t := range types {
		fmt.Fprintf(w, "%d\t%d\n", t, counts[t])
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsEnergyCmd)
	statsCmd.AddCommand(statsAlarmsCmd)

	for _, c := range []*cobra.Command{statsCmd, statsEnergyCmd} {
		c.Flags().Int64Var(&statsDevice, "device", 0, "Device ID (default all devices)")
		c.Flags().StringVar(&statsPeriod, "type", "day", "Aggregation period: day or month")
	}
}
