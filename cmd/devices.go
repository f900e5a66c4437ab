package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	deviceID       int64
	deviceName     string
	deviceSN       string
	deviceBuilding string
	deviceRoom     string
	deviceMaxPower float64
	deviceStatus   string
)

// Parent Command
var devicesCmd = &cobra.Command{
	Use:         "devices",
	Short:       "Manage metering devices",
	Long:        `List, add, update and delete metering devices, or switch their status. Without a subcommand the devices are listed.`,
	Annotations: viewAnnotation("/devices"),
	RunE:        listDevices,
}

// List Command
var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all devices",
	RunE:  listDevices,
}

func listDevices(cmd *cobra.Command, args []string) error {
	devices, err := current.client.ListDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching devices: %w", err)
	}

	if jsonOutput {
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return nil
	}

	w := newTable("ID", "NAME", "SN", "BUILDING", "ROOM", "STATUS", "MAX POWER (W)")
	for _, d := range devices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID,
			d.DeviceName,
			orDash(d.SN),
			orDash(d.BuildingID.String()),
			orDash(d.RoomNo),
			d.Status,
			formatFloat(d.MaxPower),
		)
	}
	return w.Flush()
}

// applyDeviceFlags copies the flags given on the command line onto d and
// leaves every other field as it was.
func applyDeviceFlags(cmd *cobra.Command, d *models.Device) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		d.DeviceName = deviceName
	}
	if flags.Changed("sn") {
		d.SN = deviceSN
	}
	if flags.Changed("building") {
		if deviceBuilding != "" {
			if _, err := strconv.ParseInt(deviceBuilding, 10, 64); err != nil {
				return fmt.Errorf("invalid building id %q", deviceBuilding)
			}
		}
		d.BuildingID = json.Number(deviceBuilding)
	}
	if flags.Changed("room") {
		d.RoomNo = deviceRoom
	}
	if flags.Changed("max-power") {
		d.MaxPower = deviceMaxPower
	}
	if flags.Changed("status") {
		st, err := parseDeviceStatus(deviceStatus)
		if err != nil {
			return err
		}
		d.Status = st
	}
	return nil
}

// findDevice looks a device up in the device list; the API has no get-by-id.
func findDevice(ctx context.Context, id int64) (models.Device, error) {
	devices, err := current.client.ListDevices(ctx)
	if err != nil {
		return models.Device{}, fmt.Errorf("fetching devices: %w", err)
	}
	for _, d := range devices {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Device{}, fmt.Errorf("device %d not found", id)
}

// parseDeviceStatus accepts the numeric code or its name.
func parseDeviceStatus(s string) (models.DeviceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "unused":
		return models.DeviceUnused, nil
	case "1", "in-use", "in_use", "inuse", "active":
		return models.DeviceInUse, nil
	case "2", "disabled":
		return models.DeviceDisabled, nil
	}
	return 0, fmt.Errorf("invalid device status %q (want unused, in-use or disabled)", s)
}

// Add Command
var devicesAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Register a new device",
	Example: `  energy-cli devices add --name "Meter 1" --sn SN-0001 --building 3 --room 101 --max-power 2200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var d models.Device
		if err := applyDeviceFlags(cmd, &d); err != nil {
			return err
		}
		if err := current.client.AddDevice(cmd.Context(), d); err != nil {
			return fmt.Errorf("adding device: %w", err)
		}
		fmt.Println("Device added successfully.")
		return nil
	},
}

// Update Command
var devicesUpdateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update a device; fields without a flag keep their current value",
	Example: `  energy-cli devices update --id 4 --name "Meter 1 (east)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := findDevice(cmd.Context(), deviceID)
		if err != nil {
			return err
		}
		if err := applyDeviceFlags(cmd, &d); err != nil {
			return err
		}
		if err := current.client.UpdateDevice(cmd.Context(), d); err != nil {
			return fmt.Errorf("updating device: %w", err)
		}
		fmt.Println("Device updated successfully.")
		return nil
	},
}

// Delete Command
var devicesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a device by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Deleting device ID: %d ...\n", deviceID)
		if err := current.client.DeleteDevice(cmd.Context(), deviceID); err != nil {
			return fmt.Errorf("deleting device: %w", err)
		}
		fmt.Println("Device deleted successfully.")
		return nil
	},
}

// Status Command
var devicesStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Change the status of a device",
	Example: `  energy-cli devices status --id 4 --status disabled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := parseDeviceStatus(deviceStatus)
		if err != nil {
			return err
		}
		fmt.Printf("Setting device %d to %s...\n", deviceID, st)
		if err := current.client.ChangeDeviceStatus(cmd.Context(), deviceID, st); err != nil {
			return fmt.Errorf("changing device status: %w", err)
		}
		fmt.Println("Device status updated successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesUpdateCmd)
	devicesCmd.AddCommand(devicesDeleteCmd)
	devicesCmd.AddCommand(devicesStatusCmd)

	for _, c := range []*cobra.Command{devicesAddCmd, devicesUpdateCmd} {
		c.Flags().StringVar(&deviceName, "name", "", "Device name")
		c.Flags().StringVar(&deviceSN, "sn", "", "Serial number")
		c.Flags().StringVar(&deviceBuilding, "building", "", "Building ID")
		c.Flags().StringVar(&deviceRoom, "room", "", "Room number")
		c.Flags().Float64Var(&deviceMaxPower, "max-power", 0, "Rated maximum power in W")
		c.Flags().StringVar(&deviceStatus, "status", "", "Status: unused, in-use or disabled")
	}
	_ = devicesAddCmd.MarkFlagRequired("name")

	for _, c := range []*cobra.Command{devicesUpdateCmd, devicesDeleteCmd, devicesStatusCmd} {
		c.Flags().Int64Var(&deviceID, "id", 0, "Device ID")
		_ = c.MarkFlagRequired("id")
	}

	devicesStatusCmd.Flags().StringVar(&deviceStatus, "status", "", "Status: unused, in-use or disabled")
	_ = devicesStatusCmd.MarkFlagRequired("status")
}
