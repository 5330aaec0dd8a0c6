package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/crypto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect generation jobs",
}

var (
	jobsExportOut     string
	jobsExportEncrypt bool
)

var jobsStatusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Print a job's current progress snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetContainer()
		if c == nil {
			return fmt.Errorf("no database connection configured")
		}

		jobID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id %q: %w", args[0], err)
		}

		snapshot, err := c.JobRunner.Status(jobID)
		if err != nil {
			return err
		}

		fmt.Printf("state:   %s\n", snapshot.State)
		fmt.Printf("percent: %.0f%%\n", snapshot.Percent)
		fmt.Printf("placed:  %d/%d\n", snapshot.Placed, snapshot.TotalExpected)
		if snapshot.CurrentWeek != "" {
			fmt.Printf("week:    %s\n", snapshot.CurrentWeek)
		}
		if snapshot.ETA > 0 {
			fmt.Printf("eta:     %s\n", snapshot.ETA)
		}
		if snapshot.FailureMessage != "" {
			fmt.Printf("failure: %s\n", snapshot.FailureMessage)
		}
		for _, row := range snapshot.ThisWeekRows {
			fmt.Printf("  %s  %s (%s)  %s-%s  %s\n",
				row.CourseName, row.ClassLabel, row.Subgroup,
				row.Start.Format("15:04"), row.End.Format("15:04"), row.TeacherName)
		}

		return nil
	},
}

var jobsExportCmd = &cobra.Command{
	Use:   "export [job-id]",
	Short: "Write a job's progress snapshot to a file as JSON",
	Long: `Writes the current snapshot (state, placement counts, and this week's
placed rows) to --out as JSON. Pass --encrypt to AES-GCM seal the file with
the key configured via EXPORT_ENCRYPTION_KEY.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetContainer()
		if c == nil {
			return fmt.Errorf("no database connection configured")
		}
		if jobsExportOut == "" {
			return fmt.Errorf("--out is required")
		}

		jobID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id %q: %w", args[0], err)
		}

		snapshot, err := c.JobRunner.Status(jobID)
		if err != nil {
			return err
		}

		payload, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}

		if jobsExportEncrypt {
			encrypter, err := crypto.NewAESGCMFromBase64Key(c.Config.ExportEncryptionKey)
			if err != nil {
				return fmt.Errorf("configuring export encryption: %w", err)
			}
			payload, err = encrypter.Encrypt(payload)
			if err != nil {
				return fmt.Errorf("encrypting export: %w", err)
			}
		}

		if err := os.WriteFile(jobsExportOut, payload, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", jobsExportOut, err)
		}

		fmt.Printf("wrote job %s snapshot to %s\n", jobID, jobsExportOut)
		return nil
	},
}

func init() {
	jobsExportCmd.Flags().StringVar(&jobsExportOut, "out", "", "file path to write the JSON (or encrypted) snapshot to")
	jobsExportCmd.Flags().BoolVar(&jobsExportEncrypt, "encrypt", false, "seal the export with EXPORT_ENCRYPTION_KEY")

	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsExportCmd)
}
