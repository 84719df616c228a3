// Command import_books bulk-loads catalog entries from a CSV file.
//
// Each row is "title,author,year". Rows that fail validation are reported
// and skipped; the import continues with the remaining rows.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"library-catalog/library"
)

func main() {
	catalogPath := flag.String("file", "library.json", "Backing catalog file")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import_books [-file library.json] BOOKS.csv")
		os.Exit(2)
	}

	if err := run(*catalogPath, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "import_books: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath, csvPath string) error {
	store, err := library.Open(catalogPath)
	if err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("Importing books from %s...\n", csvPath)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 3

	successCount := 0
	errorCount := 0
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("row %d: ERROR - %v\n", line, err)
			errorCount++
			continue
		}

		title := strings.TrimSpace(row[0])
		author := strings.TrimSpace(row[1])
		year := strings.TrimSpace(row[2])

		fmt.Printf("Importing: %s by %s... ", title, author)
		b, err := store.Add(title, author, year)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %d)\n", b.ID)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCatalog:")
		fmt.Printf("%-3s %-50s %-30s\n", "ID", "Title", "Author")
		fmt.Println(strings.Repeat("-", 85))
		for _, b := range store.List(false) {
			fmt.Printf("%-3d %-50s %-30s\n", b.ID, truncateString(b.Title, 50), truncateString(b.Author, 30))
		}
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
