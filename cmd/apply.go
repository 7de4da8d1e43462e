package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <unavailability-id>",
	Short: "Run disruption recovery for one approved faculty unavailability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unavailability id %q", args[0])
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		service, _, err := openService()
		if err != nil {
			return err
		}

		changed, err := service.ApplyUnavailability(ctx, uint(id))
		if err != nil {
			return err
		}

		fmt.Printf("%d entries changed\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
