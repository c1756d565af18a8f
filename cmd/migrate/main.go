package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/segyhp/reminder-engine/internal/config"
	"github.com/segyhp/reminder-engine/internal/database"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [steps] | status")
	os.Exit(2)
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch flag.Arg(0) {
	case "up":
		if err := database.MigrateUp(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			if steps, err = strconv.Atoi(flag.Arg(1)); err != nil || steps < 1 {
				log.Fatalf("Invalid step count %q", flag.Arg(1))
			}
		}
		if err := database.MigrateDown(db, steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Printf("Rolled back %d migration(s)", steps)
	case "status":
		status, err := database.Status(db)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		log.Printf("version=%d dirty=%t applied=%t", status.Version, status.Dirty, status.Applied)
	default:
		usage()
	}
}
