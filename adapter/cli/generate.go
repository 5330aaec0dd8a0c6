package cli

import (
	"fmt"
	"strings"
	"time"

	genDomain "github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/security"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	generateScope         string
	generateCourseIDs     []string
	generateCourseIDsFile string
	generateWindowStart   string
	generateWindowEnd     string
	generateWait          bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Submit a schedule generation job",
	Long: `Submit a generation job for a data scope's courses over a planning
window. By default the command returns the job id immediately; pass --wait
to block and print the final placement summary.`,
	Example: `  schedgen generate --scope lycee-a --window-start 2026-09-01 --window-end 2027-06-30
  schedgen generate --scope lycee-a --course 8f14e45f-... --wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetContainer()
		if c == nil {
			return fmt.Errorf("no database connection configured")
		}
		if generateScope == "" {
			return fmt.Errorf("--scope is required")
		}

		start, err := time.Parse("2006-01-02", generateWindowStart)
		if err != nil {
			return fmt.Errorf("--window-start must be YYYY-MM-DD: %w", err)
		}
		end, err := time.Parse("2006-01-02", generateWindowEnd)
		if err != nil {
			return fmt.Errorf("--window-end must be YYYY-MM-DD: %w", err)
		}

		rawIDs := append([]string{}, generateCourseIDs...)
		if generateCourseIDsFile != "" {
			fromFile, err := readCourseIDsFile(generateCourseIDsFile)
			if err != nil {
				return fmt.Errorf("reading --course-ids-file: %w", err)
			}
			rawIDs = append(rawIDs, fromFile...)
		}

		courseIDs := make([]uuid.UUID, 0, len(rawIDs))
		for _, raw := range rawIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid course id %q: %w", raw, err)
			}
			courseIDs = append(courseIDs, id)
		}

		job := genDomain.NewJob(generateScope, courseIDs, genDomain.DateRange{Start: start, End: end})
		jobID := c.JobRunner.Submit(cmd.Context(), job, 0)

		fmt.Printf("Submitted job %s for scope %q\n", jobID, generateScope)

		if !generateWait {
			fmt.Printf("Poll status with: schedgen jobs status %s\n", jobID)
			return nil
		}

		return waitForJob(cmd, jobID)
	},
}

// readCourseIDsFile reads one course id per line, skipping blank lines and
// lines starting with "#".
func readCourseIDsFile(path string) ([]string, error) {
	data, err := security.SafeReadFile(path)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, nil
}

func waitForJob(cmd *cobra.Command, jobID uuid.UUID) error {
	c := GetContainer()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-ticker.C:
			snapshot, err := c.JobRunner.Status(jobID)
			if err != nil {
				return err
			}
			fmt.Printf("\r%.0f%% - %s", snapshot.Percent, snapshot.CurrentWeek)

			switch snapshot.State {
			case genDomain.JobSuccess:
				fmt.Printf("\ndone: %d sessions placed\n", snapshot.Placed)
				return nil
			case genDomain.JobFailed:
				fmt.Printf("\nfailed: %s\n", snapshot.FailureMessage)
				return fmt.Errorf("job %s failed: %s", jobID, snapshot.FailureMessage)
			case genDomain.JobCancelled:
				fmt.Println("\ncancelled")
				return nil
			}
		}
	}
}

func init() {
	generateCmd.Flags().StringVar(&generateScope, "scope", "", "data scope to generate a schedule for")
	generateCmd.Flags().StringSliceVar(&generateCourseIDs, "course", nil, "course id to include (repeatable); omit for all courses in scope")
	generateCmd.Flags().StringVar(&generateCourseIDsFile, "course-ids-file", "", "path to a file with one course id per line, merged with --course")
	generateCmd.Flags().StringVar(&generateWindowStart, "window-start", "", "planning window start, YYYY-MM-DD")
	generateCmd.Flags().StringVar(&generateWindowEnd, "window-end", "", "planning window end, YYYY-MM-DD")
	generateCmd.Flags().BoolVar(&generateWait, "wait", false, "block until the job reaches a terminal state")
}
