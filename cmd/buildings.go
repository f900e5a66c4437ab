package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	buildingID       int64
	buildingName     string
	buildingLocation string
	buildingFloors   int
	buildingUsage    string
)

// Parent Command
var buildingsCmd = &cobra.Command{
	Use:         "buildings",
	Short:       "Manage buildings",
	Long:        `List, add, update and delete monitored buildings. Without a subcommand the buildings are listed.`,
	Annotations: viewAnnotation("/buildings"),
	RunE:        listBuildings,
}

// List Command
var buildingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all buildings",
	RunE:  listBuildings,
}

func listBuildings(cmd *cobra.Command, args []string) error {
	buildings, err := current.client.ListBuildings(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching buildings: %w", err)
	}

	if jsonOutput {
		return printJSON(buildings)
	}

	if len(buildings) == 0 {
		fmt.Println("No buildings found.")
		return nil
	}

	w := newTable("ID", "NAME", "LOCATION", "FLOORS", "USAGE", "CREATED")
	for _, b := range buildings {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			b.ID,
			b.Name,
			orDash(b.LocationCode),
			b.FloorCount,
			orDash(b.UsageType),
			orDash(b.CreateTime),
		)
	}
	return w.Flush()
}

// Add Command
var buildingsAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Register a new building",
	Example: `  energy-cli buildings add --name "Library" --location "B-01" --floors 5 --usage teaching`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var b models.Building
		applyBuildingFlags(cmd, &b)
		if err := current.client.AddBuilding(cmd.Context(), b); err != nil {
			return fmt.Errorf("adding building: %w", err)
		}
		fmt.Println("Building added successfully.")
		return nil
	},
}

// Update Command
var buildingsUpdateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update a building; fields without a flag keep their current value",
	Example: `  energy-cli buildings update --id 3 --name "Main Library" --floors 6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buildings, err := current.client.ListBuildings(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching buildings: %w", err)
		}
		i := slices.IndexFunc(buildings, func(b models.Building) bool { return b.ID == buildingID })
		if i < 0 {
			return fmt.Errorf("building %d not found", buildingID)
		}
		b := buildings[i]
		applyBuildingFlags(cmd, &b)
		if err := current.client.UpdateBuilding(cmd.Context(), b); err != nil {
			return fmt.Errorf("updating building: %w", err)
		}
		fmt.Println("Building updated successfully.")
		return nil
	},
}

func applyBuildingFlags(cmd *cobra.Command, b *models.Building) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		b.Name = buildingName
	}
	if flags.Changed("location") {
		b.LocationCode = buildingLocation
	}
	if flags.Changed("floors") {
		b.FloorCount = buildingFloors
	}
	if flags.Changed("usage") {
		b.UsageType = buildingUsage
	}
}

// Delete Command
var buildingsDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete a building by ID",
	Example: `  energy-cli buildings delete --id 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Deleting building ID: %d ...\n", buildingID)
		if err := current.client.DeleteBuilding(cmd.Context(), buildingID); err != nil {
			return fmt.Errorf("deleting building: %w", err)
		}
		fmt.Println("Building deleted successfully.")
		return nil
	},
}

func init() {
	// Register parent
	rootCmd.AddCommand(buildingsCmd)

	buildingsCmd.AddCommand(buildingsListCmd)
	buildingsCmd.AddCommand(buildingsAddCmd)
	buildingsCmd.AddCommand(buildingsUpdateCmd)
	buildingsCmd.AddCommand(buildingsDeleteCmd)

	for _, c := range []*cobra.Command{buildingsAddCmd, buildingsUpdateCmd} {
		c.Flags().StringVar(&buildingName, "name", "", "Building name")
		c.Flags().StringVar(&buildingLocation, "location", "", "Location code")
		c.Flags().IntVar(&buildingFloors, "floors", 0, "Number of floors")
		c.Flags().StringVar(&buildingUsage, "usage", "", "Usage type (e.g. office, teaching, dormitory)")
	}
	_ = buildingsAddCmd.MarkFlagRequired("name")

	buildingsUpdateCmd.Flags().Int64Var(&buildingID, "id", 0, "ID of the building to update")
	_ = buildingsUpdateCmd.MarkFlagRequired("id")

	buildingsDeleteCmd.Flags().Int64Var(&buildingID, "id", 0, "ID of the building to delete")
	_ = buildingsDeleteCmd.MarkFlagRequired("id")
}
