package types

import "time"

// GrantPartition selects which grant attribute routes documents to
// partitions. Chosen once per deployment; changing it requires re-creating
// the grants collection.
type GrantPartition string

const (
	GrantPartitionClient  GrantPartition = "client"
	GrantPartitionSubject GrantPartition = "subject"
)

// ThroughputTier names a provisioned-capacity level for a collection. The
// tier table is static and resolved once at provisioning time.
type ThroughputTier string

const (
	TierGlobal   ThroughputTier = "Global"
	TierStandard ThroughputTier = "Standard"
	TierMinimal  ThroughputTier = "Minimal"
)

const (
	DefaultConfigurationTable = "idvault_configurations"
	DefaultGrantTable         = "idvault_persisted_grants"
	DefaultSweepInterval      = 5 * time.Minute
	MinSweepInterval          = 10 * time.Second
)

// Config is the immutable per-process configuration. Everything here is
// supplied once at construction; there is no runtime reconfiguration.
type Config struct {
	ConfigurationTable string         `json:"configuration_table"`
	GrantTable         string         `json:"grant_table"`
	Tier               ThroughputTier `json:"tier"`
	GrantPartition     GrantPartition `json:"grant_partition"`
	SweepInterval      time.Duration  `json:"sweep_interval"`
	SeedCatalogPath    string         `json:"seed_catalog_path"`
	SNSTopicARN        string         `json:"sns_topic_arn"`
}

func (c Config) Validate() error {
	if c.ConfigurationTable == "" {
		return Err(ErrInvalidConfig, nil, "configuration table name is required")
	}
	if c.GrantTable == "" {
		return Err(ErrInvalidConfig, nil, "grant table name is required")
	}
	if c.ConfigurationTable == c.GrantTable {
		return Err(ErrInvalidConfig, nil, "configuration and grant tables must differ")
	}
	switch c.GrantPartition {
	case GrantPartitionClient, GrantPartitionSubject:
	default:
		return Err(ErrInvalidConfig, nil, "grant_partition must be %q or %q, got %q",
			GrantPartitionClient, GrantPartitionSubject, c.GrantPartition)
	}
	if c.SweepInterval < MinSweepInterval {
		return Err(ErrInvalidConfig, nil, "sweep interval must be at least %s", MinSweepInterval)
	}
	return nil
}

// DefaultConfig returns a Config with the stock table names, the Global
// throughput tier and client-id grant partitioning.
func DefaultConfig() Config {
	return Config{
		ConfigurationTable: DefaultConfigurationTable,
		GrantTable:         DefaultGrantTable,
		Tier:               TierGlobal,
		GrantPartition:     GrantPartitionClient,
		SweepInterval:      DefaultSweepInterval,
	}
}
