package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/adapters/repository"
	"github.com/vncsmyrnk/awardvote/internal/catalog"
	"github.com/vncsmyrnk/awardvote/internal/config"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/services"
)

// Prints the current tally straight from the vote store, ignoring the results
// release time. Meant for organisers checking the count before the reveal.
func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}

	var driver, format string
	flag.StringVar(&driver, "store", string(cfg.StoreDriver), "Vote store driver")
	flag.StringVar(&format, "format", "table", "Output format (table or json)")
	flag.Parse()
	cfg.StoreDriver = config.StoreDriver(driver)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	categories, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	resultsService := services.NewResultsService(store, categories, cfg.ReleaseAt(), logger)
	results, err := resultsService.Results(ctx)
	if err != nil {
		log.Fatalf("Error summarizing votes: %v", err)
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := writeTable(os.Stdout, categories, results); err != nil {
		log.Fatal(err)
	}
}

func writeTable(out io.Writer, categories *catalog.Catalog, results []domain.CategoryResults) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNOMINEE\tVOTES\tPERCENT")
	for _, res := range results {
		categoryName := res.CategoryID
		category, known := categories.Category(res.CategoryID)
		if known {
			categoryName = category.Name
		}
		if res.Total == 0 {
			fmt.Fprintf(w, "%s\t-\t0\t-\n", categoryName)
			continue
		}
		for _, v := range res.Votes {
			nomineeName := v.NomineeID
			if nominee, ok := category.Nominee(v.NomineeID); known && ok {
				nomineeName = nominee.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d%%\n", categoryName, nomineeName, v.Count, v.Percentage)
		}
	}
	return w.Flush()
}
