// Package backends wires concrete store implementations from environment
// variables. All configuration is read once at construction; nothing here is
// re-tunable at runtime.
package backends

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"

	"idvault/internal/backends/ddb"
	redisbackend "idvault/internal/backends/redis"
	"idvault/internal/types"
)

const (
	DDBEndpointKey      = "DDB_ENDPOINT"
	ConfigurationTable  = "DDB_CONFIGURATION_TABLE"
	GrantTable          = "DDB_GRANT_TABLE"
	ThroughputTierKey   = "THROUGHPUT_TIER"
	GrantPartitionKey   = "GRANT_PARTITION"
	SweepIntervalKey    = "SWEEP_INTERVAL_SECONDS"
	SeedCatalogKey      = "SEED_CATALOG"
	SNSTopicKey         = "SNS_TOPIC_ARN"
	SNSEndpointKey      = "SNS_ENDPOINT"
	RedisHost           = "REDIS_HOST"
	RedisPort           = "REDIS_PORT"
	RedisUser           = "REDIS_USER"
	RedisPass           = "REDIS_PASS"
	RedisDBNum          = "REDIS_DB_NUM"
	ClientCacheTTLKey   = "CLIENT_CACHE_TTL_SECONDS"
)

// ConfigFromEnv assembles the immutable process configuration.
func ConfigFromEnv() (types.Config, error) {
	cfg := types.DefaultConfig()
	cfg.ConfigurationTable = getenv(ConfigurationTable, cfg.ConfigurationTable)
	cfg.GrantTable = getenv(GrantTable, cfg.GrantTable)
	cfg.Tier = types.ThroughputTier(getenv(ThroughputTierKey, string(cfg.Tier)))
	cfg.GrantPartition = types.GrantPartition(getenv(GrantPartitionKey, string(cfg.GrantPartition)))
	cfg.SeedCatalogPath = os.Getenv(SeedCatalogKey)
	cfg.SNSTopicARN = os.Getenv(SNSTopicKey)

	if raw := os.Getenv(SweepIntervalKey); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return types.Config{}, types.Err(types.ErrInvalidConfig, err, "invalid %s", SweepIntervalKey)
		}
		cfg.SweepInterval = time.Duration(secs) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// GatewayFromEnv constructs the DynamoDB-backed document gateway. A
// DDB_ENDPOINT override points at a local emulator with static credentials;
// otherwise the default AWS credential chain applies.
func GatewayFromEnv(ctx context.Context) (*ddb.Gateway, error) {
	var endpoint *string
	if e := os.Getenv(DDBEndpointKey); e != "" {
		endpoint = aws.String(e)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	cli := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
			o.Region = getenv("AWS_REGION", "us-east-1")
			o.Credentials = credentials.NewStaticCredentialsProvider(
				getenv("AWS_ACCESS_KEY_ID", "x"),
				getenv("AWS_SECRET_ACCESS_KEY", "x"),
				"",
			)
		}
	})
	return ddb.NewGateway(cli), nil
}

// SNSClientFromEnv constructs the SNS client used for sweep events, or nil
// when no topic is configured.
func SNSClientFromEnv(ctx context.Context) (*sns.Client, error) {
	if os.Getenv(SNSTopicKey) == "" {
		return nil, nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	var endpoint *string
	if e := os.Getenv(SNSEndpointKey); e != "" {
		endpoint = aws.String(e)
	}
	cli := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})
	return cli, nil
}

// ConfigCacheFromEnv constructs the optional redis client cache. Returns
// (nil, 0, nil) when REDIS_HOST is unset.
func ConfigCacheFromEnv(ctx context.Context) (*redisbackend.ConfigCache, time.Duration, error) {
	host := os.Getenv(RedisHost)
	if host == "" {
		return nil, 0, nil
	}
	port := getenv(RedisPort, "6379")
	dbNum, err := strconv.Atoi(getenv(RedisDBNum, "0"))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid redis DB number: %w", err)
	}
	ttlSecs, err := strconv.Atoi(getenv(ClientCacheTTLKey, "300"))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid client cache TTL: %w", err)
	}

	cli := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Username: os.Getenv(RedisUser),
		Password: os.Getenv(RedisPass),
		DB:       dbNum,
	})
	if _, err := cli.Ping(ctx).Result(); err != nil {
		return nil, 0, fmt.Errorf("failed to ping redis: %w", err)
	}
	return redisbackend.NewConfigCache(cli), time.Duration(ttlSecs) * time.Second, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
