package stores

import (
	"context"

	log "github.com/sirupsen/logrus"

	"idvault/internal/entities"
	"idvault/internal/ports"
	"idvault/internal/types"
)

// ResourceStore resolves identity and API resource definitions for discovery
// and token issuance.
type ResourceStore struct {
	cfg ports.ConfigurationStore
}

func NewResourceStore(cfg ports.ConfigurationStore) *ResourceStore {
	return &ResourceStore{cfg: cfg}
}

// FindIdentityResourcesByScope returns the identity resources named by the
// requested scopes. Unknown names are simply absent from the result.
func (s *ResourceStore) FindIdentityResourcesByScope(ctx context.Context, scopeNames []string) ([]types.IdentityResource, error) {
	out := make([]types.IdentityResource, 0, len(scopeNames))
	for _, name := range scopeNames {
		found, err := s.cfg.IdentityResources(ctx, ports.ByID(name))
		if err != nil {
			return nil, err
		}
		for _, e := range found {
			out = append(out, entities.IdentityResourceToModel(e))
		}
	}
	log.Debugf("found %d of %d requested identity scopes", len(out), len(scopeNames))
	return out, nil
}

// FindApiResourcesByScope returns every API resource that defines at least
// one of the requested scopes. API scopes are embedded in their resource, so
// this walks the (small) API resource partition once and matches in memory.
func (s *ResourceStore) FindApiResourcesByScope(ctx context.Context, scopeNames []string) ([]types.ApiResource, error) {
	all, err := s.cfg.ApiResources(ctx, ports.All())
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(scopeNames))
	for _, n := range scopeNames {
		wanted[n] = true
	}
	var out []types.ApiResource
	for _, e := range all {
		for _, scope := range e.Scopes {
			if wanted[scope.Name] {
				out = append(out, entities.ApiResourceToModel(e))
				break
			}
		}
	}
	return out, nil
}

// FindApiResource returns the named API resource or nil when unknown.
func (s *ResourceStore) FindApiResource(ctx context.Context, name string) (*types.ApiResource, error) {
	found, err := s.cfg.ApiResources(ctx, ports.ByID(name))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		log.WithField("api_resource", name).Debug("api resource not found in database")
		return nil, nil
	}
	model := entities.ApiResourceToModel(found[0])
	return &model, nil
}

// GetAllResources returns every registered resource definition.
func (s *ResourceStore) GetAllResources(ctx context.Context) (*types.Resources, error) {
	identity, err := s.cfg.IdentityResources(ctx, ports.All())
	if err != nil {
		return nil, err
	}
	apis, err := s.cfg.ApiResources(ctx, ports.All())
	if err != nil {
		return nil, err
	}
	result := &types.Resources{
		IdentityResources: make([]types.IdentityResource, 0, len(identity)),
		ApiResources:      make([]types.ApiResource, 0, len(apis)),
	}
	for _, e := range identity {
		result.IdentityResources = append(result.IdentityResources, entities.IdentityResourceToModel(e))
	}
	for _, e := range apis {
		result.ApiResources = append(result.ApiResources, entities.ApiResourceToModel(e))
	}
	return result, nil
}
