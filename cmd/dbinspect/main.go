// Command dbinspect dumps the contents of an am2vkdb rating database.
// It opens the database read-only and prints every key namespace, so it is
// safe to run against a live data directory.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/am2vkdb/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	var productRatings, authorRatings, productAuthors, settings, other int

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			var value string
			err := item.Value(func(val []byte) error {
				value = string(val)
				return nil
			})
			if err != nil {
				log.Printf("Error reading key %s: %v", key, err)
				continue
			}

			switch {
			case strings.HasPrefix(key, "author:"):
				authorRatings++
				fmt.Printf("author   %-40s %s\n", strings.TrimPrefix(key, "author:"), value)
			case strings.HasPrefix(key, "asin_author:"):
				productAuthors++
				fmt.Printf("resolved %-40s %s\n", strings.TrimPrefix(key, "asin_author:"), value)
			case key == "format_template" || key == "date_link_url":
				settings++
				fmt.Printf("setting  %-40s %s\n", key, value)
			case strings.Contains(key, ":"):
				// Unknown namespace, e.g. from a newer version.
				other++
				fmt.Printf("other    %-40s %s\n", key, value)
			default:
				productRatings++
				fmt.Printf("product  %-40s %s\n", key, value)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan database: %v", err)
	}

	fmt.Println()
	fmt.Printf("Product ratings:  %d\n", productRatings)
	fmt.Printf("Author ratings:   %d\n", authorRatings)
	fmt.Printf("Resolved authors: %d\n", productAuthors)
	fmt.Printf("Settings:         %d\n", settings)
	if other > 0 {
		fmt.Printf("Unknown keys:     %d\n", other)
	}
}
