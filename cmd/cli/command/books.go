package command

import (
	"fmt"
	"strconv"

	"bookhub/cmd/cli/command/client"
	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse the catalogue",
	Long:  `List, search and inspect books. Premium-only books are shown only to active premium members.`,
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		var q client.BookQuery
		q.Category, _ = cmd.Flags().GetString("category")
		q.Search, _ = cmd.Flags().GetString("search")
		q.Sort, _ = cmd.Flags().GetString("sort")
		if cmd.Flags().Changed("premium-only") {
			v, _ := cmd.Flags().GetBool("premium-only")
			q.PremiumOnly = &v
		}

		list, err := GetOptionalClient(cmd.Context()).ListBooks(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		printBookList("Books", list)
		return nil
	},
}

var booksShowCmd = &cobra.Command{
	Use:   "show [book_id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseBookID(args[0])
		if err != nil {
			return err
		}
		book, err := GetOptionalClient(cmd.Context()).GetBook(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get book %d: %w", id, err)
		}

		headColor.Println(book.Title)
		fmt.Printf("  by %s · %s · %s (%d reviews)\n", book.Author, book.Genre, stars(book.Rating), book.ReviewCount)
		if book.IsPremiumOnly {
			warnColor.Println("  premium only")
		}
		if book.Publisher != "" {
			fmt.Printf("  Publisher: %s\n", book.Publisher)
		}
		if book.PublishDate != nil {
			fmt.Printf("  Published: %s\n", *book.PublishDate)
		}
		if book.Description != "" {
			fmt.Println()
			fmt.Println(book.Description)
		}
		return nil
	},
}

var booksPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most read books",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := GetOptionalClient(cmd.Context()).PopularBooks(cmd.Context())
		if err != nil {
			return fmt.Errorf("popular books: %w", err)
		}
		printBookList("Popular", list)
		return nil
	},
}

var booksRecommendedCmd = &cobra.Command{
	Use:   "recommended",
	Short: "Show books picked for you",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd.Context())
		if err != nil {
			return err
		}
		list, err := c.RecommendedBooks(cmd.Context())
		if err != nil {
			return fmt.Errorf("recommended books: %w", err)
		}
		printBookList("Recommended for you", list)
		return nil
	},
}

func printBookList(title string, list *dto.BookListResponse) {
	if len(list.Items) == 0 {
		fmt.Println("No books found")
		return
	}
	headColor.Printf("%s (%d)\n", title, list.Total)
	for i, b := range list.Items {
		fmt.Printf("%d. %s (ID: %d)\n", i+1, b.Title, b.ID)
		dimColor.Printf("   %s · %s · %s", b.Author, b.Genre, stars(b.Rating))
		if b.IsPremiumOnly {
			warnColor.Print(" · premium")
		}
		fmt.Println()
	}
}

func parseBookID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}

func init() {
	booksCmd.AddCommand(booksListCmd, booksShowCmd, booksPopularCmd, booksRecommendedCmd)

	booksListCmd.Flags().StringP("category", "c", "", "Category slug, or \"all\"")
	booksListCmd.Flags().StringP("search", "s", "", "Words to look for in title, author or description")
	booksListCmd.Flags().String("sort", "", "rating, heat or publish_date, prefix with - for descending")
	booksListCmd.Flags().Bool("premium-only", false, "Only premium-only books (true) or only free books (false)")
}
