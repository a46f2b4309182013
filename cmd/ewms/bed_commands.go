package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ewms/internal/api"
)

func newBedsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "beds",
		Short: "Show the ward board with live stay clocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			beds, err := client.Beds(cmd.Context())
			if err != nil {
				return err
			}
			renderBedsTable(cmd.OutOrStdout(), beds)
			return nil
		},
	}
}

func newEmptyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "empty",
		Short: "List empty bed ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			ids, err := client.EmptyBeds(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No empty beds.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatBedIDs(ids))
			return nil
		},
	}
}

func newAdmitCommand(ctx *commandContext) *cobra.Command {
	var name, mrn, diagnosis string

	cmd := &cobra.Command{
		Use:   "admit <bed>",
		Short: "Admit a patient into an empty bed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bedID, err := parseBedID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Admit(cmd.Context(), bedID, api.AdmitRequest{
				Name:      name,
				MRN:       mrn,
				Diagnosis: diagnosis,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admitted %s (MRN %s) to bed %d at %s %s\n",
				resp.Bed.Patient.Name, resp.Bed.Patient.MRN, bedID,
				resp.Bed.Patient.VisitDate, resp.Bed.Patient.VisitTime)
			printWarning(cmd, resp.Warning)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Patient name (required)")
	cmd.Flags().StringVar(&mrn, "mrn", "", "Medical record number (required)")
	cmd.Flags().StringVar(&diagnosis, "diagnosis", "", "Admitting diagnosis (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("mrn")
	_ = cmd.MarkFlagRequired("diagnosis")
	return cmd
}

func newDischargeCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "discharge <bed>",
		Short: "Discharge the patient in a bed",
		Long:  "Discharge clears the bed irreversibly; the engine performs no confirmation of its own, so the command asks first unless --yes is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bedID, err := parseBedID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Discharge bed %d? This clears the bed.", bedID)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Discharge(cmd.Context(), bedID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discharged %s (MRN %s) from bed %d after %s\n",
				resp.Patient.Name, resp.Patient.MRN, bedID, resp.Duration)
			printWarning(cmd, resp.Warning)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newTransferCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from> <to>",
		Short: "Move a patient to an empty bed, preserving the admission clock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := parseBedID(args[0])
			if err != nil {
				return err
			}
			toID, err := parseBedID(args[1])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.Transfer(cmd.Context(), fromID, toID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transferred %s (MRN %s) from bed %d to bed %d\n",
				resp.Bed.Patient.Name, resp.Bed.Patient.MRN, fromID, toID)
			printWarning(cmd, resp.Warning)
			return nil
		},
	}
}

func parseBedID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("bed id %q must be a positive integer", arg)
	}
	return id, nil
}

func formatBedIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printWarning(cmd *cobra.Command, warning string) {
	if warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
	}
}
