package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/teampulse/teampulse/internal/repositories"
	"github.com/teampulse/teampulse/internal/services"
	"github.com/teampulse/teampulse/pkg/config"
	"github.com/teampulse/teampulse/pkg/database"
	"github.com/teampulse/teampulse/pkg/logger"
)

func main() {
	batchSize := flag.Int("batch", 50, "maximum number of leads to push per run")
	maxAttempts := flag.Int("max-attempts", 3, "skip leads that already failed this many times")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init()

	if config.AppConfig.CRM.Endpoint == "" {
		logger.Fatalf("CRM_ENDPOINT is not configured")
	}

	if err := database.Init(); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	leadRepo := repositories.NewLeadRepository(database.DB)
	crmService := services.NewCRMService(config.AppConfig.CRM.Endpoint, config.AppConfig.CRM.APIKey)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	leads, err := leadRepo.GetPending(*batchSize)
	if err != nil {
		logger.Fatalf("Failed to load pending leads: %v", err)
	}

	if len(leads) == 0 {
		logger.Info("No pending leads to sync")
		return
	}

	var synced, failed, skipped int
	for _, lead := range leads {
		if lead.Attempts >= *maxAttempts {
			skipped++
			continue
		}

		if err := crmService.PushLead(ctx, lead); err != nil {
			lead.MarkFailed(err.Error())
			failed++
			logger.WithFields(logrus.Fields{
				"lead_id": lead.ID,
				"error":   err.Error(),
			}).Warnf("Failed to push lead")
		} else {
			lead.MarkSynced()
			synced++
		}

		if err := leadRepo.Update(lead); err != nil {
			logger.WithError(err).Errorf("Failed to update lead %s", lead.ID)
		}
	}

	logger.WithFields(logrus.Fields{
		"synced":  synced,
		"failed":  failed,
		"skipped": skipped,
	}).Info("Lead sync finished")
}
