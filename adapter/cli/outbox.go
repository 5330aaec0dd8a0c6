package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outboxReplayLimit int

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Manage the transactional outbox",
}

var outboxReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-publish failed outbox messages",
	Long: `Fetches messages the outbox processor marked as failed (but not yet
dead-lettered) and attempts to publish them again through the configured
event publisher.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetContainer()
		if c == nil {
			return fmt.Errorf("no database connection configured")
		}
		ctx := cmd.Context()

		messages, err := c.OutboxRepo.GetFailed(ctx, c.Config.OutboxMaxRetries, outboxReplayLimit)
		if err != nil {
			return fmt.Errorf("fetching failed outbox messages: %w", err)
		}
		if len(messages) == 0 {
			fmt.Println("no failed messages to replay")
			return nil
		}

		var replayed, stillFailing int
		for _, msg := range messages {
			if err := c.EventPublisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
				stillFailing++
				fmt.Printf("message %d (%s): still failing: %v\n", msg.ID, msg.RoutingKey, err)
				continue
			}
			if err := c.OutboxRepo.MarkPublished(ctx, msg.ID); err != nil {
				return fmt.Errorf("marking message %d published: %w", msg.ID, err)
			}
			replayed++
		}

		fmt.Printf("replayed %d message(s), %d still failing\n", replayed, stillFailing)
		return nil
	},
}

func init() {
	outboxReplayCmd.Flags().IntVar(&outboxReplayLimit, "limit", 100, "maximum number of failed messages to replay")
	outboxCmd.AddCommand(outboxReplayCmd)
}
