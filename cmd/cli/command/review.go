package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Rate and review books",
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit [book_id]",
	Short: "Rate a book from 1 to 5, replacing your earlier review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		if rating < 1 || rating > 5 {
			return fmt.Errorf("--rating must be between 1 and 5")
		}
		text, _ := cmd.Flags().GetString("text")

		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		resp, err := c.SubmitReview(cmd.Context(), id, rating, text)
		if err != nil {
			return fmt.Errorf("submit review: %w", err)
		}

		verb := "Updated"
		if resp.Created {
			verb = "Posted"
		}
		printOK("%s your review of book %d", verb, id)
		fmt.Printf("Book rating is now %s over %d reviews\n", stars(resp.Book.Rating), resp.Book.ReviewCount)
		return nil
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete [book_id]",
	Short: "Delete your review of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		agg, err := c.DeleteReview(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		printOK("Deleted your review of book %d", id)
		fmt.Printf("Book rating is now %s over %d reviews\n", stars(agg.Rating), agg.ReviewCount)
		return nil
	},
}

var reviewListCmd = &cobra.Command{
	Use:   "list [book_id]",
	Short: "List the reviews of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		list, err := GetOptionalClient(cmd.Context()).ListReviews(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("list reviews: %w", err)
		}
		if len(list.Items) == 0 {
			fmt.Println("No reviews yet")
			return nil
		}
		for _, r := range list.Items {
			headColor.Printf("%s ", r.Username)
			fmt.Printf("%d★  ", r.Rating)
			dimColor.Printf("%s  +%d/-%d\n", r.CreatedAt.Format("2006-01-02"), r.Likes, r.Dislikes)
			if r.Content != "" {
				fmt.Printf("  %s\n", r.Content)
			}
		}
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewSubmitCmd, reviewDeleteCmd, reviewListCmd)

	reviewSubmitCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	reviewSubmitCmd.Flags().StringP("text", "t", "", "Review text")
	_ = reviewSubmitCmd.MarkFlagRequired("rating")
}
