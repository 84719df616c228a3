// Command library-catalog manages a personal book catalog persisted in a
// single JSON file. Run without arguments for the interactive menu, or use
// the subcommands (add, list, search, borrow, ...) for scripted use.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"library-catalog/library"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultCatalogFile = "library.json"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "library-catalog: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "library-catalog",
		Short:         "Personal library catalog with borrow/return tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			runMenu(store)
			return nil
		},
	}

	root.PersistentFlags().StringP("file", "f", defaultCatalogFile,
		"Backing catalog file (or set LIBRARY_FILE)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newSearchCmd(),
		newShowCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newBorrowCmd(),
		newReturnCmd(),
		newStatsCmd(),
	)
	return root
}

func setupLogging(level string) error {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %q", level)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	})))
	return nil
}

// openStore resolves the backing file (flag wins over LIBRARY_FILE) and
// loads the catalog.
func openStore(cmd *cobra.Command) (*library.Store, error) {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") {
		if env := os.Getenv("LIBRARY_FILE"); env != "" {
			path = env
		}
	}
	store, err := library.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog loaded", "file", store.Path(), "books", store.Stats().Total)
	return store, nil
}

// ------------------ Interactive menu ------------------

func runMenu(store *library.Store) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Library Catalog")
	for {
		fmt.Println("\n=== Library Catalog ===")
		fmt.Println("1) Add book")
		fmt.Println("2) List all books")
		fmt.Println("3) List available books")
		fmt.Println("4) Search books")
		fmt.Println("5) Update a book")
		fmt.Println("6) Delete a book")
		fmt.Println("7) Borrow a book")
		fmt.Println("8) Return a book")
		fmt.Println("9) Stats")
		fmt.Println("0) Exit")
		fmt.Print("Choose: ")

		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			handleAdd(scanner, store)
		case "2":
			printBooks(store.List(false))
		case "3":
			printBooks(store.List(true))
		case "4":
			handleSearch(scanner, store)
		case "5":
			handleUpdate(scanner, store)
		case "6":
			handleDelete(scanner, store)
		case "7":
			handleBorrow(scanner, store)
		case "8":
			handleReturn(scanner, store)
		case "9":
			printStats(store.Stats())
		case "0":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid option.")
		}
	}
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func promptID(sc *bufio.Scanner) (int, bool) {
	raw, ok := prompt(sc, "Book ID: ")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Invalid book ID: %s\n", raw)
		return 0, false
	}
	return id, true
}

func handleAdd(sc *bufio.Scanner, store *library.Store) {
	title, ok := prompt(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Author: ")
	if !ok {
		return
	}
	year, ok := prompt(sc, "Year (e.g., 2022): ")
	if !ok {
		return
	}

	b, err := store.Add(title, author, year)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Added book ID %d.\n", b.ID)
}

func handleSearch(sc *bufio.Scanner, store *library.Store) {
	keyword, ok := prompt(sc, "Keyword (title/author): ")
	if !ok {
		return
	}
	results, err := store.Search(keyword)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	fmt.Printf("Results for '%s':\n", keyword)
	printBooks(results)
}

func handleUpdate(sc *bufio.Scanner, store *library.Store) {
	id, ok := promptID(sc)
	if !ok {
		return
	}
	b, err := store.Get(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Empty input keeps the current value.
	title, ok := prompt(sc, fmt.Sprintf("Title [%s]: ", b.Title))
	if !ok {
		return
	}
	author, ok := prompt(sc, fmt.Sprintf("Author [%s]: ", b.Author))
	if !ok {
		return
	}
	year, ok := prompt(sc, fmt.Sprintf("Year [%s]: ", b.Year))
	if !ok {
		return
	}

	if _, err := store.Update(id, title, author, year); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Updated.")
}

func handleDelete(sc *bufio.Scanner, store *library.Store) {
	id, ok := promptID(sc)
	if !ok {
		return
	}
	if err := store.Delete(id); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Deleted.")
}

func handleBorrow(sc *bufio.Scanner, store *library.Store) {
	id, ok := promptID(sc)
	if !ok {
		return
	}
	borrower, ok := prompt(sc, "Borrower name: ")
	if !ok {
		return
	}
	b, err := store.Borrow(id, borrower)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Borrowed '%s' to %s.\n", b.Title, b.Borrower)
}

func handleReturn(sc *bufio.Scanner, store *library.Store) {
	id, ok := promptID(sc)
	if !ok {
		return
	}
	b, err := store.Return(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Returned '%s'.\n", b.Title)
}
