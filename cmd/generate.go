package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var timetableName string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build and solve a full weekly timetable from current reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service, _, err := openService()
		if err != nil {
			return err
		}

		timetable, err := service.Generate(ctx, timetableName)
		if err != nil {
			return err
		}

		fmt.Printf("timetable %d %q generated with %d entries\n", timetable.ID, timetable.Name, len(timetable.Entries))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&timetableName, "name", "n", "Generated Timetable", "name of the new timetable")
	rootCmd.AddCommand(generateCmd)
}
