package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"cinedesk/internal/config"
	"cinedesk/internal/domain/services"
	"cinedesk/internal/repository/postgres"
	"cinedesk/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the documents table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	clearData := flag.Bool("clear-data", false, "Delete the documents of -user (keep schema)")
	userID := flag.Int64("user", 1, "Owner id for seeded or cleared documents")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if *userID <= 0 {
		log.Fatalf("-user must be a positive id, got %d", *userID)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing documents of user %d (environment: %s, prefix: %s)", *userID, cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		n, err := clearUserData(ctx, pool, tables, *userID)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("✅ Deleted %d document(s)", n)
		return
	}

	// Seed through the service so titles are normalized like tool writes
	docRepo := postgres.NewDocumentRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	docService := service.NewDocumentService(docRepo, postgres.NewTransactionManager(pool, logger), logger)

	documents := getSeedDocuments(*userID)
	log.Printf("📝 Seeding %d documents for user %d...", len(documents), *userID)

	for i, req := range documents {
		doc, err := docService.CreateDocument(ctx, req)
		if err != nil {
			log.Printf("❌ Failed to create document '%s': %v", req.Title, err)
			continue
		}
		log.Printf("✅ Created document %d/%d: %s (ID: %d)", i+1, len(documents), doc.Title, doc.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates the documents table and its listing index if missing
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL,
			title VARCHAR(120) NOT NULL,
			content TEXT NOT NULL CHECK (btrim(content) <> ''),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	indexSQL := `CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_owner_recent ON ` +
		tables.Documents + `(owner_id, active, created_at DESC)`
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		return err
	}

	return nil
}

// dropAllTables drops the documents table
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+tables.Documents+" CASCADE"); err != nil {
		return err
	}
	log.Printf("  ✓ Dropped %s", tables.Documents)
	return nil
}

// clearUserData deletes every document owned by userID, active or not
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID int64) (int64, error) {
	tag, err := pool.Exec(ctx, "DELETE FROM "+tables.Documents+" WHERE owner_id = $1", userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func getSeedDocuments(userID int64) []*services.CreateDocumentRequest {
	return []*services.CreateDocumentRequest{
		{
			OwnerID: userID,
			Title:   "Watchlist",
			Content: "Movies to watch this month:\n- Inception (2010)\n- Arrival (2016)\n- Paprika (2006)",
		},
		{
			OwnerID: userID,
			Title:   "Budget Q3",
			Content: "Streaming subscriptions: 28.97\nCinema tickets: 45.00\nTotal budget for Q3 entertainment: 220.00",
		},
		{
			OwnerID: userID,
			Title:   "Review: Arrival",
			Content: "Arrival treats language as a way of seeing time. The nonlinear structure only clicks on a second viewing, " +
				"which is exactly the point. Strong score by Jóhann Jóhannsson.",
		},
		{
			OwnerID: userID,
			Title:   "Movie night ideas",
			Content: "Theme: heist films. Candidates: Heat, Ocean's Eleven, Inside Man. Snacks: popcorn and lemonade.",
		},
		{
			OwnerID: userID,
			Title:   "Notes on Paprika",
			Content: "Satoshi Kon, 2006. Dream-sharing device, the DC Mini, gets stolen. Often compared with Inception's premise.",
		},
	}
}
