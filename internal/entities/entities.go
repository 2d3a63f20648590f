// Package entities holds the storage-normalized shapes written to the
// document store, plus the pure mapping between them and the domain models.
// Every plural domain field becomes an ordered list of flat child rows with
// no identity of their own, which keeps documents self-describing and
// queryable by nested-path filters without joins.
package entities

// Kind discriminator values stamped on every document in the shared
// configuration collection. Generic reads over the collection rely on the
// kind tag, never on document shape.
const (
	KindClient           = "client"
	KindIdentityResource = "identity_resource"
	KindApiResource      = "api_resource"
	KindPersistedGrant   = "persisted_grant"
)

// grantGSIValue is the constant hash value of the expiration range index.
// Every grant with a set expiration lands in the index under this value;
// grants without one omit the attribute and stay out of the index entirely.
const grantGSIValue = "grant"

// Header is the addressing block shared by every document: the partition
// routing value, the in-partition id and the kind tag.
type Header struct {
	PK   string `dynamodbav:"pk" json:"pk"`
	ID   string `dynamodbav:"id" json:"id"`
	Kind string `dynamodbav:"kind" json:"kind"`
}

func (h Header) DocumentID() string     { return h.ID }
func (h Header) PartitionValue() string { return h.PK }

type Client struct {
	Header
	ClientID                string                        `dynamodbav:"client_id" json:"client_id"`
	ClientName              string                        `dynamodbav:"client_name" json:"client_name"`
	AllowedGrantTypes       []ClientGrantType             `dynamodbav:"allowed_grant_types" json:"allowed_grant_types"`
	RedirectURIs            []ClientRedirectURI           `dynamodbav:"redirect_uris" json:"redirect_uris"`
	PostLogoutRedirectURIs  []ClientPostLogoutRedirectURI `dynamodbav:"post_logout_redirect_uris" json:"post_logout_redirect_uris"`
	AllowedScopes           []ClientScope                 `dynamodbav:"allowed_scopes" json:"allowed_scopes"`
	ClientSecrets           []ClientSecret                `dynamodbav:"client_secrets" json:"client_secrets"`
	Claims                  []ClientClaim                 `dynamodbav:"claims" json:"claims"`
	IdPRestrictions         []ClientIdPRestriction        `dynamodbav:"idp_restrictions" json:"idp_restrictions"`
	AllowedCorsOrigins      []ClientCorsOrigin            `dynamodbav:"allowed_cors_origins" json:"allowed_cors_origins"`
	Properties              []ClientProperty              `dynamodbav:"properties" json:"properties"`
	RequireConsent          bool                          `dynamodbav:"require_consent" json:"require_consent"`
	AllowOfflineAccess      bool                          `dynamodbav:"allow_offline_access" json:"allow_offline_access"`
	AccessTokenLifetimeSecs int                           `dynamodbav:"access_token_lifetime_secs" json:"access_token_lifetime_secs"`
}

type ClientGrantType struct {
	GrantType string `dynamodbav:"grant_type" json:"grant_type"`
}

type ClientRedirectURI struct {
	RedirectURI string `dynamodbav:"redirect_uri" json:"redirect_uri"`
}

type ClientPostLogoutRedirectURI struct {
	PostLogoutRedirectURI string `dynamodbav:"post_logout_redirect_uri" json:"post_logout_redirect_uri"`
}

type ClientScope struct {
	Scope string `dynamodbav:"scope" json:"scope"`
}

// ClientSecret keeps expiration as the same sortable timestamp string used
// for grants; empty means the secret never expires.
type ClientSecret struct {
	Value       string `dynamodbav:"value" json:"value"`
	Type        string `dynamodbav:"type" json:"type"`
	Description string `dynamodbav:"description" json:"description"`
	Expiration  string `dynamodbav:"expiration,omitempty" json:"expiration,omitempty"`
}

type ClientClaim struct {
	Type  string `dynamodbav:"type" json:"type"`
	Value string `dynamodbav:"value" json:"value"`
}

type ClientIdPRestriction struct {
	Provider string `dynamodbav:"provider" json:"provider"`
}

type ClientCorsOrigin struct {
	Origin string `dynamodbav:"origin" json:"origin"`
}

type ClientProperty struct {
	Key   string `dynamodbav:"key" json:"key"`
	Value string `dynamodbav:"value" json:"value"`
}

type IdentityResource struct {
	Header
	Name        string          `dynamodbav:"name" json:"name"`
	DisplayName string          `dynamodbav:"display_name" json:"display_name"`
	Required    bool            `dynamodbav:"required" json:"required"`
	UserClaims  []ResourceClaim `dynamodbav:"user_claims" json:"user_claims"`
}

type ResourceClaim struct {
	Type string `dynamodbav:"type" json:"type"`
}

type ApiResource struct {
	Header
	Name        string          `dynamodbav:"name" json:"name"`
	DisplayName string          `dynamodbav:"display_name" json:"display_name"`
	UserClaims  []ResourceClaim `dynamodbav:"user_claims" json:"user_claims"`
	Scopes      []ApiScope      `dynamodbav:"scopes" json:"scopes"`
}

type ApiScope struct {
	Name        string          `dynamodbav:"name" json:"name"`
	DisplayName string          `dynamodbav:"display_name" json:"display_name"`
	UserClaims  []ResourceClaim `dynamodbav:"user_claims" json:"user_claims"`
}

// PersistedGrant is partitioned by client or subject id depending on the
// deployment's partition strategy; Key doubles as the document id. GSI is
// only set alongside Expiration so never-expiring grants stay out of the
// expiration index.
type PersistedGrant struct {
	Header
	Key          string `dynamodbav:"key" json:"key"`
	Type         string `dynamodbav:"type" json:"type"`
	SubjectID    string `dynamodbav:"subject_id" json:"subject_id"`
	ClientID     string `dynamodbav:"client_id" json:"client_id"`
	CreationTime string `dynamodbav:"creation_time" json:"creation_time"`
	Expiration   string `dynamodbav:"expiration,omitempty" json:"expiration,omitempty"`
	GSI          string `dynamodbav:"gsi,omitempty" json:"gsi,omitempty"`
	Data         string `dynamodbav:"data" json:"data"`
}
