package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/spacedrep"
	"github.com/abhisek/flashdeck/internal/study"
)

var reviewCmd = &cobra.Command{
	Use:   "review <card-id> <quality>",
	Short: "Record a review of a card (quality 0-5 or its name)",
	Long: `Record a review of a card and reschedule it with SM-2.

Quality is 0 (blackout) to 5 (perfect); 3 and above count as correct.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := spacedrep.ParseQuality(args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		res, err := e.study.SubmitReview(cmd.Context(), study.SubmitInput{
			CardID:    args[0],
			SessionID: sessionID,
			Quality:   q,
		})
		if err != nil {
			return fmt.Errorf("review card: %w", err)
		}

		fmt.Printf("Rated %s. Ease %.2f → %.2f, interval %d → %d days.\n",
			q, res.Previous.EaseFactor, res.Next.EaseFactor, res.Previous.Interval, res.Next.Interval)
		fmt.Printf("Next review on %s.\n", res.Next.NextReview.Format("Mon, 2 Jan 2006"))
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("session", "", "Count the review towards this open session")
}
