package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/vncsmyrnk/awardvote/internal/adapters/repository"
	"github.com/vncsmyrnk/awardvote/internal/catalog"
	"github.com/vncsmyrnk/awardvote/internal/config"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/services"
)

// Fills the vote store with random ballots from fresh voter identities, for
// demos and for sizing the results scan.
func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}

	var (
		driver string
		voters int
		skip   float64
	)
	flag.StringVar(&driver, "store", string(cfg.StoreDriver), "Vote store driver")
	flag.IntVar(&voters, "voters", 100, "Number of voters to generate")
	flag.Float64Var(&skip, "skip", 0.1, "Probability that a voter skips a category")
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

	identities := services.NewIdentityService()
	votes := services.NewVoteService(store, logger)

	submitted := 0
	for i := 0; i < voters; i++ {
		identity, _ := identities.GetOrCreate("")
		ballot := randomBallot(categories.Categories(), skip)
		if len(ballot) == 0 {
			continue
		}
		if _, err := votes.Submit(ctx, identity, ballot); err != nil {
			log.Fatalf("Error submitting votes: %v", err)
		}
		submitted++
	}

	logger.Info("seeding completed", "voters", submitted, "store", cfg.StoreDriver)
}

func randomBallot(categories []domain.Category, skip float64) map[string]string {
	ballot := make(map[string]string, len(categories))
	for _, category := range categories {
		if rand.Float64() < skip {
			continue
		}
		ballot[category.ID] = category.Nominees[rand.Intn(len(category.Nominees))].ID
	}
	return ballot
}
