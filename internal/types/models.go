package types

import "time"

// Grant types held in PersistedGrant.Type. The set is open; these are the
// values issued by the protocol layer today.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeReferenceToken    = "reference_token"
	GrantTypeUserConsent       = "user_consent"
)

// Client is the protocol-layer view of a registered OAuth2/OIDC client.
// The protocol layer only ever sees this shape; the flattened storage
// representation lives in internal/entities.
type Client struct {
	ClientID                string            `json:"client_id" yaml:"client_id"`
	ClientName              string            `json:"client_name" yaml:"client_name"`
	AllowedGrantTypes       []string          `json:"allowed_grant_types" yaml:"allowed_grant_types"`
	RedirectURIs            []string          `json:"redirect_uris" yaml:"redirect_uris"`
	PostLogoutRedirectURIs  []string          `json:"post_logout_redirect_uris" yaml:"post_logout_redirect_uris"`
	AllowedScopes           []string          `json:"allowed_scopes" yaml:"allowed_scopes"`
	ClientSecrets           []Secret          `json:"client_secrets" yaml:"client_secrets"`
	Claims                  []Claim           `json:"claims" yaml:"claims"`
	IdPRestrictions         []string          `json:"idp_restrictions" yaml:"idp_restrictions"`
	AllowedCorsOrigins      []string          `json:"allowed_cors_origins" yaml:"allowed_cors_origins"`
	Properties              map[string]string `json:"properties" yaml:"properties"`
	RequireConsent          bool              `json:"require_consent" yaml:"require_consent"`
	AllowOfflineAccess      bool              `json:"allow_offline_access" yaml:"allow_offline_access"`
	AccessTokenLifetimeSecs int               `json:"access_token_lifetime_secs" yaml:"access_token_lifetime_secs"`
}

// Secret is a client credential. Expiration is optional; a nil expiration
// means the secret never expires.
type Secret struct {
	Value       string     `json:"value" yaml:"value"`
	Type        string     `json:"type" yaml:"type"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Expiration  *time.Time `json:"expiration,omitempty" yaml:"expiration"`
}

type Claim struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// IdentityResource is a named bundle of user claim types (e.g. "openid",
// "profile").
type IdentityResource struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Required    bool     `json:"required" yaml:"required"`
	UserClaims  []string `json:"user_claims" yaml:"user_claims"`
}

// ApiResource is a protected API with its named scopes.
type ApiResource struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	UserClaims  []string `json:"user_claims" yaml:"user_claims"`
	Scopes      []Scope  `json:"scopes" yaml:"scopes"`
}

type Scope struct {
	Name        string   `json:"name" yaml:"name"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	UserClaims  []string `json:"user_claims" yaml:"user_claims"`
}

// Resources bundles every registered resource definition, as served by
// discovery.
type Resources struct {
	IdentityResources []IdentityResource `json:"identity_resources" yaml:"identity_resources"`
	ApiResources      []ApiResource      `json:"api_resources" yaml:"api_resources"`
}

// PersistedGrant is a server-held record of an issued authorization artifact
// (code, refresh token, consent) keyed by a globally unique string. Data is an
// opaque serialized payload owned by the protocol layer. A nil Expiration
// means the grant is never auto-expired.
type PersistedGrant struct {
	Key          string     `json:"key"`
	Type         string     `json:"type"`
	SubjectID    string     `json:"subject_id"`
	ClientID     string     `json:"client_id"`
	CreationTime time.Time  `json:"creation_time"`
	Expiration   *time.Time `json:"expiration,omitempty"`
	Data         string     `json:"data"`
}
