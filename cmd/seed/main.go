// Package main provides a tool to seed the database with test rating data.
//
// This writes a handful of product and author ratings plus resolved author
// cache entries, so the UI and the dbinspect tool have something to show.
//
// Usage:
//
//	DATA_PATH=~/am2vkdb/data go run ./cmd/seed
//	DATA_PATH=~/am2vkdb/data go run ./cmd/seed --wipe-settings  # Reset stored settings
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kuwavkdb/am2vkdb/internal/domain"
	"github.com/kuwavkdb/am2vkdb/internal/service"
	"github.com/kuwavkdb/am2vkdb/internal/store"
)

var wipeSettings = flag.Bool("wipe-settings", false, "Reset format template and date link URL to defaults")

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/am2vkdb/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	s, err := store.New(dbPath, logger, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	products := []struct {
		id     string
		rating domain.Rating
		author string
	}{
		{"B0TEST0001", domain.RatingGood, "山田太郎"},
		{"B0TEST0002", domain.RatingBad, "鈴木花子"},
		{"B0TEST0003", domain.RatingGood, "Jane Smith"},
	}

	for _, p := range products {
		if err := s.SetProductRating(ctx, p.id, p.rating); err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.id, err)
		}
		if err := s.SetProductAuthor(ctx, p.id, p.author); err != nil {
			log.Fatalf("Failed to seed resolved author for %s: %v", p.id, err)
		}
		fmt.Printf("  product %s -> %s (author %s)\n", p.id, p.rating, p.author)
	}

	authors := []struct {
		name   string
		rating domain.Rating
	}{
		{"山田太郎", domain.RatingGood},
		{"鈴木花子", domain.RatingBad},
	}

	for _, a := range authors {
		if err := s.SetAuthorRating(ctx, a.name, a.rating); err != nil {
			log.Fatalf("Failed to seed author %s: %v", a.name, err)
		}
		fmt.Printf("  author  %s -> %s\n", a.name, a.rating)
	}

	if *wipeSettings {
		if err := s.SetFormatTemplate(ctx, service.DefaultFormatTemplate); err != nil {
			log.Fatalf("Failed to reset format template: %v", err)
		}
		if err := s.SetDateLinkURL(ctx, service.DefaultDateLinkURL); err != nil {
			log.Fatalf("Failed to reset date link URL: %v", err)
		}
		fmt.Println("  settings reset")
	}

	fmt.Println("Done.")
}
