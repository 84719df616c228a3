package main

import (
	"fmt"
	"strconv"
	"strings"

	"library-catalog/library"

	"github.com/spf13/cobra"
)

// ------------------ Subcommands ------------------

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TITLE AUTHOR YEAR",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			b, err := store.Add(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("Added book ID %d.\n", b.ID)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var onlyAvailable bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, sorted by author and title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			books := store.List(onlyAvailable)
			if len(books) == 0 {
				fmt.Println("(No books found.)")
				return nil
			}
			printBooks(books)
			fmt.Printf("Total: %d\n", len(books))
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyAvailable, "available", false, "Only list books that are not lent out")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search titles and authors for a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			results, err := store.Search(args[0])
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Printf("No books found matching '%s'.\n", args[0])
				return nil
			}
			printBooks(results)
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a single book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := store.Get(id)
			if err != nil {
				return err
			}
			printBookDetails(b)
			return nil
		},
	}
}

func newUpdateCmd() *cobra.Command {
	var title, author, year string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a book; omitted fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := store.Update(id, title, author, year); err != nil {
				return err
			}
			fmt.Println("Updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&author, "author", "", "New author")
	cmd.Flags().StringVar(&year, "year", "", "New year")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(id); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

func newBorrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow ID NAME",
		Short: "Lend a book out to a borrower",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := store.Borrow(id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Borrowed '%s' to %s.\n", b.Title, b.Borrower)
			return nil
		},
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return ID",
		Short: "Take a lent-out book back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := store.Return(id)
			if err != nil {
				return err
			}
			fmt.Printf("Returned '%s'.\n", b.Title)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			printStats(store.Stats())
			return nil
		},
	}
}

// ------------------ Rendering ------------------

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", raw)
	}
	return id, nil
}

func printBooks(books []*library.Book) {
	fmt.Printf("%-5s %-30s %-25s %-6s %-25s\n", "ID", "Title", "Author", "Year", "Status")
	fmt.Println(strings.Repeat("-", 95))
	for _, b := range books {
		fmt.Printf("%-5d %-30s %-25s %-6s %-25s\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			b.Year,
			bookStatus(b))
	}
}

func printBookDetails(b *library.Book) {
	fmt.Printf("[%d] %s — %s (%s)\n", b.ID, b.Title, b.Author, b.Year)
	fmt.Printf("  Status:     %s\n", bookStatus(b))
	if b.BorrowedAt != "" {
		fmt.Printf("  Borrowed:   %s\n", b.BorrowedAt)
	}
	if b.ReturnedAt != "" {
		fmt.Printf("  Returned:   %s\n", b.ReturnedAt)
	}
	fmt.Printf("  Created:    %s\n", b.CreatedAt)
	fmt.Printf("  Updated:    %s\n", b.UpdatedAt)
}

func printStats(st library.Stats) {
	fmt.Println("Stats")
	fmt.Printf("  Total books : %d\n", st.Total)
	fmt.Printf("  Available   : %d\n", st.Available)
	fmt.Printf("  Borrowed    : %d\n", st.Borrowed)
}

func bookStatus(b *library.Book) string {
	if b.Available {
		return "AVAILABLE"
	}
	return "BORROWED by " + b.Borrower
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
