package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/samirrijal/placemap/internal/pkg/config"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	_ = godotenv.Load()

	cfg, err := config.Load("placemap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		files, err := migrationFiles(".up.sql", false)
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		runMigrations(ctx, pool, files)
	case "down":
		files, err := migrationFiles(".down.sql", true)
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		runMigrations(ctx, pool, files)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// migrationFiles lists migrations with the given suffix in name order, or
// reverse name order for rollbacks.
func migrationFiles(suffix string, reverse bool) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*"+suffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, files []string) {
	if len(files) == 0 {
		log.Println("no migrations found")
		return
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}

		_, err = pool.Exec(ctx, string(data))
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}
