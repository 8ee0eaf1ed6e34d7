package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"assistant-chat/config"
	"assistant-chat/pkg/database"
)

const usage = `
Assistant Chat - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Create the chats, messages and message_images tables
  down        Drop those tables (DANGEROUS)
  status      Show connection status and row counts
  truncate    Truncate all tables and reset chat ids (DANGEROUS)

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		log.Println("Running migrations UP...")
		if err := database.ApplyMigrations(ctx, db, database.DirectionUp); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
	case "down":
		log.Println("Rolling back migrations...")
		if err := database.ApplyMigrations(ctx, db, database.DirectionDown); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Rollback completed successfully")
	case "status":
		showStatus(ctx, db)
	case "truncate":
		log.Println("WARNING: This will TRUNCATE all tables!")
		if err := database.TruncateAllTables(ctx, db); err != nil {
			log.Fatalf("Truncate failed: %v", err)
		}
		log.Println("All tables truncated")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func showStatus(ctx context.Context, db *sql.DB) {
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range database.Tables {
		exists, err := database.TableExists(ctx, db, table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if !exists {
			log.Printf("Table %-16s does not exist", table)
			continue
		}
		count, err := database.TableCount(ctx, db, table)
		if err != nil {
			log.Printf("Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("Table %-16s exists (%d rows)", table, count)
	}
}
