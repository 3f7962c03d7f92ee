package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/NKoziel/locum-tui/internal/engine"
	"github.com/NKoziel/locum-tui/internal/meddata"
	"github.com/NKoziel/locum-tui/internal/store"
	"github.com/NKoziel/locum-tui/internal/ui"
	"github.com/NKoziel/locum-tui/internal/util"
)

var (
	version      = "0.1.0"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	seedFlag := flag.String("seed", "", "Shift seed string (optional; random if omitted)")
	configPath := flag.String("config", "", "Path to a YAML config file")
	dsn := flag.String("dsn", "", "PostgreSQL DSN (optional; defaults to DATABASE_URL)")
	spec := flag.String("spec", "", "Ward: general_practice|cardiology|neurology|emergency_medicine")
	difficulty := flag.String("difficulty", "", "Difficulty: easy|medium|hard")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "locum [--seed seedstring] [--config path] [--dsn DSN] [--spec ward] [--difficulty level] | migrate up|down|version | version\n")
	}
	flag.Parse()

	cfg := util.LoadFromEnv()
	if *configPath != "" {
		loaded, err := util.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if *seedFlag != "" {
		cfg.SeedText = strings.TrimSpace(*seedFlag)
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *spec != "" {
		cfg.Specialization = *spec
	}
	if *difficulty != "" {
		cfg.Difficulty = *difficulty
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("locum", version)
			return
		case "migrate":
			runMigrate(args[1:], cfg.DSN)
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	if !engine.Specialization(cfg.Specialization).Validate() {
		log.Fatalf("unknown ward %q; use one of %v", cfg.Specialization, engine.ListSpecializations())
	}
	if !engine.Difficulty(cfg.Difficulty).Validate() {
		log.Fatalf("unknown difficulty %q; use one of %v", cfg.Difficulty, engine.ListDifficulties())
	}

	if cfg.SeedText == "" {
		generated, err := generateSeed()
		if err != nil {
			log.Fatalf("failed to generate seed: %v", err)
		}
		cfg.SeedText = generated
		fmt.Printf("New shift seed: %s\n", cfg.SeedText)
	}

	data, err := meddata.Load()
	if err != nil {
		log.Fatalf("clinical data: %v", err)
	}
	catalog, err := engine.NewCatalog(data)
	if err != nil {
		log.Fatalf("clinical data: %v", err)
	}

	ctx := context.Background()

	// The database is optional. Anything that keeps it from coming up turns
	// into a warning and an unrecorded shift, never a refusal to play.
	var db *store.DB
	if cfg.DSN == "" {
		log.Printf("no database configured; shifts will not be recorded")
	} else if opened, err := openStore(ctx, cfg); err != nil {
		log.Printf("database unavailable (%v); shifts will not be recorded", err)
	} else {
		db = opened
		defer db.Close()
	}

	if err := ui.Run(ctx, db, catalog, cfg, version); err != nil {
		log.Fatal(err)
	}
}

func runMigrate(args []string, dsn string) {
	if len(args) < 1 {
		log.Fatal("migrate requires 'up', 'down' or 'version'")
	}
	if dsn == "" {
		log.Fatal("migrate needs a DSN (--dsn or DATABASE_URL)")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	migrator, err := store.NewMigrator(dsn)
	if err != nil {
		log.Fatal(err)
	}
	switch args[0] {
	case "up":
		if err := migrator.Up(ctx); err != nil && err != store.ErrNoChange {
			log.Fatal(err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := migrator.Down(ctx); err != nil && err != store.ErrNoChange {
			log.Fatal(err)
		}
		fmt.Println("Migrations rolled back")
	case "version":
		v, dirty, err := migrator.Version(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if v == 0 && !dirty {
			fmt.Println("No migrations applied yet")
			return
		}
		fmt.Printf("Schema version %d (dirty=%v)\n", v, dirty)
	default:
		log.Fatal("unknown migrate action; use up|down|version")
	}
}

// openStore applies pending migrations and opens the connection pool.
func openStore(ctx context.Context, cfg util.Config) (*store.DB, error) {
	mig, err := store.NewMigrator(cfg.DSN)
	if err != nil {
		return nil, err
	}
	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mig.Up(migCtx); err != nil && err != store.ErrNoChange {
		return nil, err
	}
	return store.Open(ctx, cfg)
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
