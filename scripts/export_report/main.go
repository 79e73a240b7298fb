package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mroshb/dice_game/internal/config"
	"github.com/mroshb/dice_game/internal/database"
	"github.com/mroshb/dice_game/internal/reports"
)

func main() {
	output := flag.String("out", "dice_report.xlsx", "path of the workbook to write")
	limit := flag.Int("limit", 1000, "maximum accounts and games to export")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		color.Red("failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		color.Red("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	file, err := os.Create(*output)
	if err != nil {
		color.Red("failed to create %s: %v", *output, err)
		os.Exit(1)
	}
	defer file.Close()

	color.Cyan("Exporting up to %d accounts and games...", *limit)
	if err := reports.WriteReport(ctx, reports.NewStore(db), *limit, file); err != nil {
		color.Red("export failed: %v", err)
		os.Exit(1)
	}

	color.Green("Report written to %s", *output)
}
