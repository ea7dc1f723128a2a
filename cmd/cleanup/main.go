package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/database"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

var (
	dryRun       = flag.Bool("dry-run", true, "Report what would be cancelled without writing")
	pendingAge   = flag.Int("pending-age", 24, "Hours before a pending checkout attempt is considered abandoned")
	webhookAge   = flag.Int("webhook-age", 90, "Days of webhook audit rows to keep")
	cleanWebhook = flag.Bool("clean-webhooks", false, "Also prune old webhook audit rows")
)

// Wave checkout sessions expire after 30 minutes; a ledger row still pending
// a day later will never complete. Run from cron, e.g. hourly.
func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	subRepo := repository.NewSubscriptionRepository(db)
	cutoff := time.Now().Add(-time.Duration(*pendingAge) * time.Hour)

	if *dryRun {
		var count int64
		err := db.Model(&model.Subscription{}).
			Where("status = ? AND created_at < ?", model.SubscriptionStatusPending, cutoff).
			Count(&count).Error
		if err != nil {
			log.Fatalf("Failed to count stale pending subscriptions: %v", err)
		}
		log.Printf("Would cancel %d stale pending subscription(s) older than %s", count, cutoff.Format(time.RFC3339))
	} else {
		n, err := subRepo.CancelStalePending(cutoff)
		if err != nil {
			log.Fatalf("Failed to cancel stale pending subscriptions: %v", err)
		}
		log.Printf("Cancelled %d stale pending subscription(s)", n)
	}

	if *cleanWebhook {
		webhookCutoff := time.Now().AddDate(0, 0, -*webhookAge)
		if *dryRun {
			var count int64
			err := db.Model(&model.WebhookEvent{}).
				Where("created_at < ?", webhookCutoff).
				Count(&count).Error
			if err != nil {
				log.Fatalf("Failed to count old webhook events: %v", err)
			}
			log.Printf("Would delete %d webhook audit row(s) older than %d days", count, *webhookAge)
		} else {
			res := db.Where("created_at < ?", webhookCutoff).Delete(&model.WebhookEvent{})
			if res.Error != nil {
				log.Fatalf("Failed to delete old webhook events: %v", res.Error)
			}
			log.Printf("Deleted %d webhook audit row(s)", res.RowsAffected)
		}
	}

	log.Println("Cleanup complete")
}
