package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track reading progress",
	Long:  `Record and show how far you have read, as a percentage from 0 to 100.`,
}

var progressUpdateCmd = &cobra.Command{
	Use:   "update [book_id]",
	Short: "Record reading progress for a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		percent, _ := cmd.Flags().GetInt("percent")
		if percent < 0 || percent > 100 {
			return fmt.Errorf("--percent must be between 0 and 100")
		}

		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		resp, err := c.UpdateProgress(cmd.Context(), id, percent)
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		printOK("Book %d is now at %d%%", id, resp.Progress.Progress)
		return nil
	},
}

var progressShowCmd = &cobra.Command{
	Use:   "show [book_id]",
	Short: "Show reading progress, for one book or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			p, err := c.GetProgress(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get progress: %w", err)
			}
			fmt.Printf("Book %d: %d%% (updated %s)\n", p.BookID, p.Progress, p.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		}

		list, err := c.ListProgress(cmd.Context())
		if err != nil {
			return fmt.Errorf("list progress: %w", err)
		}
		if len(list.Items) == 0 {
			fmt.Println("No reading progress recorded")
			return nil
		}
		for _, p := range list.Items {
			title := fmt.Sprintf("Book %d", p.BookID)
			if p.Book != nil {
				title = p.Book.Title
			}
			fmt.Printf("%-40s %3d%%\n", title, p.Progress)
		}
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your profile and membership",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		me, err := c.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		headColor.Println(me.Username)
		fmt.Printf("  Email: %s\n", me.Email)
		if me.Membership.PremiumActive {
			okColor.Printf("  Premium until %s\n", *me.Membership.PremiumExpiry)
		} else {
			fmt.Println("  Standard membership")
		}
		fmt.Printf("  Shelf capacity: %s\n", me.Membership.ShelfCapacity)
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressUpdateCmd, progressShowCmd)

	progressUpdateCmd.Flags().IntP("percent", "p", 0, "Progress percentage from 0 to 100")
	_ = progressUpdateCmd.MarkFlagRequired("percent")
}
