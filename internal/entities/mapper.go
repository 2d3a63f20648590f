package entities

import (
	"time"

	"idvault/internal/types"
)

// TimeLayout is the fixed-width UTC timestamp format used for every stored
// instant. Fixed width keeps lexicographic order equal to chronological
// order, which the expiration range index depends on.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(TimeLayout, s) }

// ClientToEntity flattens a client model into its storage shape. The mapping
// is total: nil child collections become empty lists, never null.
func ClientToEntity(m types.Client) (Client, error) {
	if m.ClientID == "" {
		return Client{}, types.Err(types.ErrInvalidEntity, nil, "client_id is required")
	}
	e := Client{
		Header:                  Header{PK: KindClient, ID: m.ClientID, Kind: KindClient},
		ClientID:                m.ClientID,
		ClientName:              m.ClientName,
		AllowedGrantTypes:       make([]ClientGrantType, 0, len(m.AllowedGrantTypes)),
		RedirectURIs:            make([]ClientRedirectURI, 0, len(m.RedirectURIs)),
		PostLogoutRedirectURIs:  make([]ClientPostLogoutRedirectURI, 0, len(m.PostLogoutRedirectURIs)),
		AllowedScopes:           make([]ClientScope, 0, len(m.AllowedScopes)),
		ClientSecrets:           make([]ClientSecret, 0, len(m.ClientSecrets)),
		Claims:                  make([]ClientClaim, 0, len(m.Claims)),
		IdPRestrictions:         make([]ClientIdPRestriction, 0, len(m.IdPRestrictions)),
		AllowedCorsOrigins:      make([]ClientCorsOrigin, 0, len(m.AllowedCorsOrigins)),
		Properties:              make([]ClientProperty, 0, len(m.Properties)),
		RequireConsent:          m.RequireConsent,
		AllowOfflineAccess:      m.AllowOfflineAccess,
		AccessTokenLifetimeSecs: m.AccessTokenLifetimeSecs,
	}
	for _, gt := range m.AllowedGrantTypes {
		e.AllowedGrantTypes = append(e.AllowedGrantTypes, ClientGrantType{GrantType: gt})
	}
	for _, u := range m.RedirectURIs {
		e.RedirectURIs = append(e.RedirectURIs, ClientRedirectURI{RedirectURI: u})
	}
	for _, u := range m.PostLogoutRedirectURIs {
		e.PostLogoutRedirectURIs = append(e.PostLogoutRedirectURIs, ClientPostLogoutRedirectURI{PostLogoutRedirectURI: u})
	}
	for _, s := range m.AllowedScopes {
		e.AllowedScopes = append(e.AllowedScopes, ClientScope{Scope: s})
	}
	for _, s := range m.ClientSecrets {
		es := ClientSecret{Value: s.Value, Type: s.Type, Description: s.Description}
		if s.Expiration != nil {
			es.Expiration = formatTime(*s.Expiration)
		}
		e.ClientSecrets = append(e.ClientSecrets, es)
	}
	for _, c := range m.Claims {
		e.Claims = append(e.Claims, ClientClaim{Type: c.Type, Value: c.Value})
	}
	for _, p := range m.IdPRestrictions {
		e.IdPRestrictions = append(e.IdPRestrictions, ClientIdPRestriction{Provider: p})
	}
	for _, o := range m.AllowedCorsOrigins {
		e.AllowedCorsOrigins = append(e.AllowedCorsOrigins, ClientCorsOrigin{Origin: o})
	}
	for k, v := range m.Properties {
		e.Properties = append(e.Properties, ClientProperty{Key: k, Value: v})
	}
	return e, nil
}

// ClientToModel reconstructs the client model. Empty child lists come back as
// empty slices, never nil.
func ClientToModel(e Client) (types.Client, error) {
	m := types.Client{
		ClientID:                e.ClientID,
		ClientName:              e.ClientName,
		AllowedGrantTypes:       make([]string, 0, len(e.AllowedGrantTypes)),
		RedirectURIs:            make([]string, 0, len(e.RedirectURIs)),
		PostLogoutRedirectURIs:  make([]string, 0, len(e.PostLogoutRedirectURIs)),
		AllowedScopes:           make([]string, 0, len(e.AllowedScopes)),
		ClientSecrets:           make([]types.Secret, 0, len(e.ClientSecrets)),
		Claims:                  make([]types.Claim, 0, len(e.Claims)),
		IdPRestrictions:         make([]string, 0, len(e.IdPRestrictions)),
		AllowedCorsOrigins:      make([]string, 0, len(e.AllowedCorsOrigins)),
		Properties:              make(map[string]string, len(e.Properties)),
		RequireConsent:          e.RequireConsent,
		AllowOfflineAccess:      e.AllowOfflineAccess,
		AccessTokenLifetimeSecs: e.AccessTokenLifetimeSecs,
	}
	for _, gt := range e.AllowedGrantTypes {
		m.AllowedGrantTypes = append(m.AllowedGrantTypes, gt.GrantType)
	}
	for _, u := range e.RedirectURIs {
		m.RedirectURIs = append(m.RedirectURIs, u.RedirectURI)
	}
	for _, u := range e.PostLogoutRedirectURIs {
		m.PostLogoutRedirectURIs = append(m.PostLogoutRedirectURIs, u.PostLogoutRedirectURI)
	}
	for _, s := range e.AllowedScopes {
		m.AllowedScopes = append(m.AllowedScopes, s.Scope)
	}
	for _, s := range e.ClientSecrets {
		ms := types.Secret{Value: s.Value, Type: s.Type, Description: s.Description}
		if s.Expiration != "" {
			t, err := parseTime(s.Expiration)
			if err != nil {
				return types.Client{}, types.Err(types.ErrInvalidEntity, err,
					"client %s: bad secret expiration %q", e.ClientID, s.Expiration)
			}
			ms.Expiration = &t
		}
		m.ClientSecrets = append(m.ClientSecrets, ms)
	}
	for _, c := range e.Claims {
		m.Claims = append(m.Claims, types.Claim{Type: c.Type, Value: c.Value})
	}
	for _, p := range e.IdPRestrictions {
		m.IdPRestrictions = append(m.IdPRestrictions, p.Provider)
	}
	for _, o := range e.AllowedCorsOrigins {
		m.AllowedCorsOrigins = append(m.AllowedCorsOrigins, o.Origin)
	}
	for _, p := range e.Properties {
		m.Properties[p.Key] = p.Value
	}
	return m, nil
}

func IdentityResourceToEntity(m types.IdentityResource) (IdentityResource, error) {
	if m.Name == "" {
		return IdentityResource{}, types.Err(types.ErrInvalidEntity, nil, "identity resource name is required")
	}
	e := IdentityResource{
		Header:      Header{PK: KindIdentityResource, ID: m.Name, Kind: KindIdentityResource},
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Required:    m.Required,
		UserClaims:  make([]ResourceClaim, 0, len(m.UserClaims)),
	}
	for _, c := range m.UserClaims {
		e.UserClaims = append(e.UserClaims, ResourceClaim{Type: c})
	}
	return e, nil
}

func IdentityResourceToModel(e IdentityResource) types.IdentityResource {
	m := types.IdentityResource{
		Name:        e.Name,
		DisplayName: e.DisplayName,
		Required:    e.Required,
		UserClaims:  make([]string, 0, len(e.UserClaims)),
	}
	for _, c := range e.UserClaims {
		m.UserClaims = append(m.UserClaims, c.Type)
	}
	return m
}

func ApiResourceToEntity(m types.ApiResource) (ApiResource, error) {
	if m.Name == "" {
		return ApiResource{}, types.Err(types.ErrInvalidEntity, nil, "api resource name is required")
	}
	e := ApiResource{
		Header:      Header{PK: KindApiResource, ID: m.Name, Kind: KindApiResource},
		Name:        m.Name,
		DisplayName: m.DisplayName,
		UserClaims:  make([]ResourceClaim, 0, len(m.UserClaims)),
		Scopes:      make([]ApiScope, 0, len(m.Scopes)),
	}
	for _, c := range m.UserClaims {
		e.UserClaims = append(e.UserClaims, ResourceClaim{Type: c})
	}
	for _, s := range m.Scopes {
		es := ApiScope{Name: s.Name, DisplayName: s.DisplayName, UserClaims: make([]ResourceClaim, 0, len(s.UserClaims))}
		for _, c := range s.UserClaims {
			es.UserClaims = append(es.UserClaims, ResourceClaim{Type: c})
		}
		e.Scopes = append(e.Scopes, es)
	}
	return e, nil
}

func ApiResourceToModel(e ApiResource) types.ApiResource {
	m := types.ApiResource{
		Name:        e.Name,
		DisplayName: e.DisplayName,
		UserClaims:  make([]string, 0, len(e.UserClaims)),
		Scopes:      make([]types.Scope, 0, len(e.Scopes)),
	}
	for _, c := range e.UserClaims {
		m.UserClaims = append(m.UserClaims, c.Type)
	}
	for _, s := range e.Scopes {
		ms := types.Scope{Name: s.Name, DisplayName: s.DisplayName, UserClaims: make([]string, 0, len(s.UserClaims))}
		for _, c := range s.UserClaims {
			ms.UserClaims = append(ms.UserClaims, c.Type)
		}
		m.Scopes = append(m.Scopes, ms)
	}
	return m
}

// GrantToEntity maps a grant for storage. The partition strategy is a
// deployment-time constant; the selected attribute must be set or the
// document would be unroutable.
func GrantToEntity(m types.PersistedGrant, partition types.GrantPartition) (PersistedGrant, error) {
	if m.Key == "" {
		return PersistedGrant{}, types.Err(types.ErrInvalidEntity, nil, "grant key is required")
	}
	var pk string
	switch partition {
	case types.GrantPartitionSubject:
		pk = m.SubjectID
	default:
		pk = m.ClientID
	}
	if pk == "" {
		return PersistedGrant{}, types.Err(types.ErrInvalidEntity, nil,
			"grant %s has no %s id to partition by", m.Key, partition)
	}
	e := PersistedGrant{
		Header:       Header{PK: pk, ID: m.Key, Kind: KindPersistedGrant},
		Key:          m.Key,
		Type:         m.Type,
		SubjectID:    m.SubjectID,
		ClientID:     m.ClientID,
		CreationTime: formatTime(m.CreationTime),
		Data:         encodeGrantData(m.Data),
	}
	if m.Expiration != nil {
		e.Expiration = formatTime(*m.Expiration)
		e.GSI = grantGSIValue
	}
	return e, nil
}

func GrantToModel(e PersistedGrant) (types.PersistedGrant, error) {
	created, err := parseTime(e.CreationTime)
	if err != nil {
		return types.PersistedGrant{}, types.Err(types.ErrInvalidEntity, err,
			"grant %s: bad creation time %q", e.Key, e.CreationTime)
	}
	data, err := decodeGrantData(e.Data)
	if err != nil {
		return types.PersistedGrant{}, types.Err(types.ErrInvalidEntity, err,
			"grant %s: undecodable data", e.Key)
	}
	m := types.PersistedGrant{
		Key:          e.Key,
		Type:         e.Type,
		SubjectID:    e.SubjectID,
		ClientID:     e.ClientID,
		CreationTime: created,
		Data:         data,
	}
	if e.Expiration != "" {
		t, err := parseTime(e.Expiration)
		if err != nil {
			return types.PersistedGrant{}, types.Err(types.ErrInvalidEntity, err,
				"grant %s: bad expiration %q", e.Key, e.Expiration)
		}
		m.Expiration = &t
	}
	return m, nil
}
