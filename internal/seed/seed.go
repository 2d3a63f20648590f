// Package seed reconciles a static YAML catalog of clients and resources
// into the configuration collection at startup. The reconciliation is
// idempotent and order-independent: each entry is looked up by id and
// inserted only when absent. Existing documents are never modified.
package seed

import (
	"context"
	"errors"
	"os"

	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

// Catalog is the on-disk seed file shape.
type Catalog struct {
	Clients           []types.Client           `yaml:"clients"`
	IdentityResources []types.IdentityResource `yaml:"identity_resources"`
	ApiResources      []types.ApiResource      `yaml:"api_resources"`
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, types.Err(types.ErrInvalidConfig, err, "parse seed catalog %s", path)
	}
	return &c, nil
}

// Apply reconciles the catalog into the store. Per-item failures are logged
// and joined into the returned error; one bad entry does not stop the rest.
func Apply(ctx context.Context, cfg ports.ConfigurationStore, catalog *Catalog) error {
	var errs []error

	for _, client := range catalog.Clients {
		entity, err := entities.ClientToEntity(client)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		existing, err := cfg.Clients(ctx, ports.ByID(client.ClientID))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(existing) > 0 {
			log.WithField("client_id", client.ClientID).Debug("client already seeded")
			continue
		}
		if err := cfg.AddDocument(ctx, entity); err != nil {
			errs = append(errs, types.Err(err, nil, "seed client %s", client.ClientID))
			continue
		}
		log.WithField("client_id", client.ClientID).Info("seeded client")
	}

	for _, res := range catalog.IdentityResources {
		entity, err := entities.IdentityResourceToEntity(res)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		existing, err := cfg.IdentityResources(ctx, ports.ByID(res.Name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(existing) > 0 {
			log.WithField("name", res.Name).Debug("identity resource already seeded")
			continue
		}
		if err := cfg.AddDocument(ctx, entity); err != nil {
			errs = append(errs, types.Err(err, nil, "seed identity resource %s", res.Name))
			continue
		}
		log.WithField("name", res.Name).Info("seeded identity resource")
	}

	for _, res := range catalog.ApiResources {
		entity, err := entities.ApiResourceToEntity(res)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		existing, err := cfg.ApiResources(ctx, ports.ByID(res.Name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(existing) > 0 {
			log.WithField("name", res.Name).Debug("api resource already seeded")
			continue
		}
		if err := cfg.AddDocument(ctx, entity); err != nil {
			errs = append(errs, types.Err(err, nil, "seed api resource %s", res.Name))
			continue
		}
		log.WithField("name", res.Name).Info("seeded api resource")
	}

	return errors.Join(errs...)
}
