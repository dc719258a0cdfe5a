package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/electric-hospitality/catering-api/internal/config"
	"github.com/electric-hospitality/catering-api/internal/health"
	"github.com/electric-hospitality/catering-api/internal/submit"
)

// Probes the external services the order flow depends on and prints a
// report. With -email, the report is also sent to the order inbox; meant
// to run on a schedule.
func main() {
	sendEmail := flag.Bool("email", false, "Email the report to the order inbox")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()
	targets := health.Targets(cfg)
	if len(targets) == 0 {
		log.Fatal("No endpoints configured to check")
	}

	ctx := context.Background()
	checker := health.NewChecker(targets, cfg.HTTPTimeout)
	report := checker.Run(ctx)

	fmt.Print(report.Summary())

	if *sendEmail {
		subject := "Catering endpoints: all operational"
		if !report.Healthy {
			subject = "Catering endpoints: DEGRADED"
		}
		sender := submit.NewWeb3FormsSender(cfg.Web3FormsURL, cfg.Web3FormsKey, cfg.OrderEmailTo, cfg.HTTPTimeout)
		if err := sender.SendReport(ctx, subject, report.Summary()); err != nil {
			log.Fatalf("Failed to email report: %v", err)
		}
		log.Println("Report emailed")
	}

	if !report.Healthy {
		os.Exit(1)
	}
}
