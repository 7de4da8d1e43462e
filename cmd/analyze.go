package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <timetable-id>",
	Short: "Report clashes and utilization for a timetable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timetable id %q", args[0])
		}

		service, _, err := openService()
		if err != nil {
			return err
		}

		report, err := service.Analyze(context.Background(), uint(id))
		if err != nil {
			return err
		}

		if len(report.Clashes) == 0 {
			fmt.Println("no clashes")
		}
		for _, clash := range report.Clashes {
			fmt.Printf("clash: %s %d at timeslot %d involves %d entries\n",
				clash.Dimension, clash.ResourceID, clash.TimeslotID, len(clash.Entries))
		}

		fmt.Printf("room occupancy: %.1f%%\n", report.Utilization.RoomOccupancy*100)
		for _, room := range report.Utilization.Rooms {
			fmt.Printf("room %d: %d slots used (%.1f%%)\n", room.RoomID, room.SlotsUsed, room.Utilization*100)
		}
		for _, load := range report.Utilization.Faculty {
			marker := ""
			if load.Overloaded {
				marker = " OVERLOADED"
			}
			fmt.Printf("faculty %d: %d entries (ceiling %d)%s\n", load.FacultyID, load.Entries, load.MaxPerWeek, marker)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
