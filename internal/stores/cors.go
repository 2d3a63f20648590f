package stores

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"idvault/internal/ports"
)

// CorsPolicy answers whether an origin is allowed by any registered client.
// Origins are compared case-insensitively.
type CorsPolicy struct {
	cfg ports.ConfigurationStore
}

func NewCorsPolicy(cfg ports.ConfigurationStore) *CorsPolicy {
	return &CorsPolicy{cfg: cfg}
}

func (p *CorsPolicy) IsOriginAllowed(ctx context.Context, origin string) (bool, error) {
	clients, err := p.cfg.Clients(ctx, ports.All())
	if err != nil {
		return false, err
	}
	for _, c := range clients {
		for _, o := range c.AllowedCorsOrigins {
			if strings.EqualFold(o.Origin, origin) {
				log.WithField("origin", origin).Debug("origin allowed")
				return true, nil
			}
		}
	}
	log.WithField("origin", origin).Debug("origin not allowed")
	return false, nil
}
