package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shelfCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Manage your bookshelf",
	Long:  `Add, remove and list the books on your shelf. Standard members can keep 10 books.`,
}

var shelfAddCmd = &cobra.Command{
	Use:   "add [book_id]",
	Short: "Add a book to your shelf",
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
		resp, err := c.AddToShelf(cmd.Context(), id)
		if err != nil {
			return err
		}
		if resp.Status == "added" {
			printOK("Added book %d to your shelf", id)
		} else {
			printOK("Book %d is already on your shelf", id)
		}
		return nil
	},
}

var shelfRemoveCmd = &cobra.Command{
	Use:   "remove [book_id]",
	Short: "Remove a book from your shelf",
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
		resp, err := c.RemoveFromShelf(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("remove from shelf: %w", err)
		}
		if resp.Removed {
			printOK("Removed book %d from your shelf", id)
		} else {
			fmt.Printf("Book %d was not on your shelf\n", id)
		}
		return nil
	},
}

var shelfListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the books on your shelf",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		shelf, err := c.GetShelf(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch shelf: %w", err)
		}

		headColor.Printf("Your shelf (%d of %s)\n", shelf.Total, shelf.Capacity)
		if len(shelf.Items) == 0 {
			fmt.Println("Your shelf is empty")
			return nil
		}
		for i, item := range shelf.Items {
			fmt.Printf("%d. %s (ID: %d)\n", i+1, item.Book.Title, item.BookID)
			dimColor.Printf("   %s · added %s\n", item.Book.Author, item.AddedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	shelfCmd.AddCommand(shelfAddCmd, shelfRemoveCmd, shelfListCmd)
}
