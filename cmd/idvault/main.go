package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"idvault/internal/backends"
	"idvault/internal/pub"
	"idvault/internal/seed"
	"idvault/internal/stores"
	"idvault/internal/sweeper"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Info("The .env file not found.")
	}

	cfg, err := backends.ConfigFromEnv()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := backends.GatewayFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to build document gateway: %v", err)
	}

	configurations := stores.NewConfigurationStore(gw, cfg.ConfigurationTable, cfg.Tier)
	grants := stores.NewPersistedGrantStore(gw, cfg.GrantTable, cfg.Tier, cfg.GrantPartition)

	// Provisioning runs to completion before any store takes traffic;
	// failure here is fatal.
	if err := configurations.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to provision configuration collection: %v", err)
	}
	if err := grants.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to provision persisted grant collection: %v", err)
	}

	clientStore := stores.NewClientStore(configurations)
	if cache, ttl, err := backends.ConfigCacheFromEnv(ctx); err != nil {
		log.Fatalf("failed to build client cache: %v", err)
	} else if cache != nil {
		clientStore.WithCache(cache, ttl)
		log.Info("client configuration cache enabled")
	}
	resourceStore := stores.NewResourceStore(configurations)

	if cfg.SeedCatalogPath != "" {
		catalog, err := seed.Load(cfg.SeedCatalogPath)
		if err != nil {
			log.Fatalf("failed to load seed catalog: %v", err)
		}
		if err := seed.Apply(ctx, configurations, catalog); err != nil {
			log.WithError(err).Warn("seed reconciliation finished with errors")
		}

		// Read the catalog back through the model stores. This verifies the
		// full read path end to end and pre-warms the client cache.
		for _, c := range catalog.Clients {
			client, err := clientStore.FindClientByID(ctx, c.ClientID)
			if err != nil {
				log.WithError(err).Fatalf("startup check failed for client %s", c.ClientID)
			}
			if client == nil {
				log.Fatalf("startup check: seeded client %s is not readable", c.ClientID)
			}
		}
		resources, err := resourceStore.GetAllResources(ctx)
		if err != nil {
			log.Fatalf("startup check failed reading resources: %v", err)
		}
		log.WithFields(log.Fields{
			"clients":            len(catalog.Clients),
			"identity_resources": len(resources.IdentityResources),
			"api_resources":      len(resources.ApiResources),
		}).Info("configuration catalog reconciled")
	}

	sw := sweeper.New(grants, cfg.SweepInterval)
	if cfg.SNSTopicARN != "" {
		snsCli, err := backends.SNSClientFromEnv(ctx)
		if err != nil {
			log.Fatalf("failed to build SNS client: %v", err)
		}
		sw.WithPublisher(pub.NewSweepPublisher(snsCli, cfg.SNSTopicARN))
	}

	log.Info("idvault operational store ready")
	sw.Run(ctx)
}
