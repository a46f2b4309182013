package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, occupancy, and sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			st, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:      %v (pid %d)\n", st.Running, st.PID)
			fmt.Fprintf(out, "Beds:         %d total, %d occupied, %d empty\n", st.TotalBeds, st.Occupied, st.Empty)
			fmt.Fprintf(out, "Sync:         %s (%d queued)\n", st.SyncStatus, st.OutboxDepth)
			fmt.Fprintf(out, "State DB:     %s\n", st.StateDBPath)
			return nil
		},
	}
}
