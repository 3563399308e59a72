package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/weiawesome/social-search/internal/domain"
	pkgconfig "github.com/weiawesome/social-search/pkg/config"
	"github.com/weiawesome/social-search/pkg/database"
	"github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/pubsub"
	"github.com/weiawesome/social-search/pkg/storage"
)

// Profile backends.
const (
	ProfileBackendDatabase      = "database"
	ProfileBackendElasticsearch = "elasticsearch"
)

type Config struct {
	Server        ServerConfig
	Database      database.Config
	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Search        SearchConfig
	Auth          AuthConfig
	PubSub        pubsub.Config `mapstructure:"pubsub"`
	Media         MediaConfig
	Log           log.Config
}

type ServerConfig struct {
	Host string
	Port int
}

type ElasticsearchConfig struct {
	Addresses     []string `mapstructure:"addresses"`
	Username      string   `mapstructure:"username"`
	Password      string   `mapstructure:"password"`
	IndexProfiles string   `mapstructure:"index_profiles"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SearchConfig struct {
	Limits             domain.Limits `mapstructure:"limits"`
	MatchedAuthorLimit int           `mapstructure:"matched_author_limit"`
	ProfileBackend     string        `mapstructure:"profile_backend"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	Leeway    time.Duration `mapstructure:"leeway"`
}

type MediaConfig struct {
	// Driver is "s3", "local" or "none".
	Driver    string              `mapstructure:"driver"`
	URLExpiry time.Duration       `mapstructure:"url_expiry"`
	S3        storage.S3Config    `mapstructure:"s3"`
	Local     storage.LocalConfig `mapstructure:"local"`
}

func Load() (*Config, error) {
	cfg, _, err := load()
	return cfg, err
}

// LoadAndWatch loads the configuration and calls onChange with the
// re-read configuration whenever the config file changes. Invalid edits
// are logged and skipped.
func LoadAndWatch(onChange func(*Config)) (*Config, error) {
	cfg, v, err := load()
	if err != nil {
		return nil, err
	}

	pkgconfig.Watch(v, func(e fsnotify.Event) {
		l := log.L()
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			l.Warn().Err(err).Str("file", e.Name).Msg("ignoring invalid config change")
			return
		}
		l.Info().Str("file", e.Name).Msg("config reloaded")
		onChange(&next)
	})

	return cfg, nil
}

func load() (*Config, *viper.Viper, error) {
	v, err := pkgconfig.Load("config", "./config")
	if err != nil {
		return nil, nil, err
	}

	defaults := domain.DefaultLimits()
	ps := pubsub.DefaultConfig()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8094)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "social")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5)
	v.SetDefault("database.slow_query", "200ms")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index_profiles", "cdc-public-profiles")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.prefix", "search")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("search.limits.people", defaults.People)
	v.SetDefault("search.limits.posts", defaults.Posts)
	v.SetDefault("search.limits.teams", defaults.Teams)
	v.SetDefault("search.limits.live", defaults.Live)
	v.SetDefault("search.limits.music", defaults.Music)
	v.SetDefault("search.limits.videos", defaults.Videos)
	v.SetDefault("search.limits.comments", defaults.Comments)
	v.SetDefault("search.matched_author_limit", 20)
	v.SetDefault("search.profile_backend", ProfileBackendDatabase)
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.leeway", "30s")
	v.SetDefault("pubsub.driver", ps.Driver)
	v.SetDefault("pubsub.redis.address", ps.Redis.Address)
	v.SetDefault("pubsub.redis.pool_size", ps.Redis.PoolSize)
	v.SetDefault("pubsub.redis.read_timeout", ps.Redis.ReadTimeout)
	v.SetDefault("pubsub.redis.write_timeout", ps.Redis.WriteTimeout)
	v.SetDefault("pubsub.kafka.brokers", ps.Kafka.Brokers)
	v.SetDefault("pubsub.kafka.group_id", ps.Kafka.GroupID)
	v.SetDefault("pubsub.kafka.partitions", ps.Kafka.Partitions)
	v.SetDefault("media.driver", "none")
	v.SetDefault("media.url_expiry", "1h")
	v.SetDefault("media.s3.region", "us-east-1")
	v.SetDefault("media.local.url_prefix", "/media")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.service_name", "search-service")

	// Bind environment variables
	if err := pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                  "PORT",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.dbname":              "DB_NAME",
		"database.sslmode":             "DB_SSLMODE",
		"database.auto_migrate":        "DB_AUTO_MIGRATE",
		"elasticsearch.addresses":      "ES_ADDRESSES",
		"elasticsearch.username":       "ES_USERNAME",
		"elasticsearch.password":       "ES_PASSWORD",
		"elasticsearch.index_profiles": "ES_INDEX_PROFILES",
		"redis.address":                "REDIS_ADDRESS",
		"redis.password":               "REDIS_PASSWORD",
		"cache.enabled":                "CACHE_ENABLED",
		"search.profile_backend":       "SEARCH_PROFILE_BACKEND",
		"search.matched_author_limit":  "SEARCH_MATCHED_AUTHOR_LIMIT",
		"auth.jwt_secret":              "JWT_SECRET",
		"auth.issuer":                  "JWT_ISSUER",
		"pubsub.driver":                "PUBSUB_DRIVER",
		"pubsub.redis.address":         "REDIS_ADDRESS",
		"pubsub.kafka.brokers":         "KAFKA_BROKERS",
		"media.driver":                 "MEDIA_DRIVER",
		"media.s3.endpoint":            "MEDIA_S3_ENDPOINT",
		"media.s3.bucket":              "MEDIA_S3_BUCKET",
		"media.s3.region":              "MEDIA_S3_REGION",
		"media.s3.access_key_id":       "MEDIA_S3_ACCESS_KEY",
		"media.s3.secret_access_key":   "MEDIA_S3_SECRET_KEY",
		"media.s3.public_url":          "MEDIA_S3_PUBLIC_URL",
		"log.level":                    "LOG_LEVEL",
	}); err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}
