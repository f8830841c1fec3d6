package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/awardvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/awardvote/internal/config"
)

// Applies a single named migration, e.g. "create_votes.down", or every
// pending one with -all.
func main() {
	all := flag.Bool("all", false, "apply every pending up migration")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Parse()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	if *all {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied successfully.")
		return
	}

	if flag.NArg() < 1 {
		log.Fatal("a migration name is required.")
	}
	name, err := postgres.FindMigration(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	if err := postgres.ApplyMigration(ctx, db, name); err != nil {
		log.Fatalf("Failed to execute SQL file: %v", err)
	}

	fmt.Println("Migration file executed successfully.")
}
