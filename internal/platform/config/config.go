package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	OwnerAddress  string
	AdminToken    string
	JWTSigningKey string
	TokenTTL      time.Duration

	Pinata   Pinata
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
}

// Pinata configures the external pinning service. Empty keys select the
// in-memory store, which is what the test and demo environments run on.
type Pinata struct {
	APIURL     string
	GatewayURL string
	APIKey     string
	SecretKey  string
}

// Postgres configures the ledger database. An empty URL selects the
// in-memory ledger store.
type Postgres struct {
	URL string
}

// Redis configures the metadata blob cache. An empty URL disables caching.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit event sink. Empty brokers keep audit events on
// the in-memory store only.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// TokenTTL is the default lifetime of issuer bearer tokens.
var TokenTTL = 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SKILLPASS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	environment := os.Getenv("SKILLPASS_ENV")
	if environment == "" {
		environment = "development"
	}

	tokenTTL := TokenTTL
	if ttlStr := os.Getenv("TOKEN_TTL"); ttlStr != "" {
		if duration, err := time.ParseDuration(ttlStr); err == nil {
			tokenTTL = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	pinataAPIURL := os.Getenv("PINATA_API_URL")
	if pinataAPIURL == "" {
		pinataAPIURL = "https://api.pinata.cloud"
	}
	pinataGatewayURL := os.Getenv("PINATA_GATEWAY_URL")
	if pinataGatewayURL == "" {
		pinataGatewayURL = "https://gateway.pinata.cloud"
	}

	var brokers []string
	if brokersStr := os.Getenv("KAFKA_BROKERS"); brokersStr != "" {
		for _, b := range strings.Split(brokersStr, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	auditTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "skillpass.audit"
	}

	return Server{
		Addr:          addr,
		Environment:   environment,
		OwnerAddress:  os.Getenv("OWNER_ADDRESS"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
		Pinata: Pinata{
			APIURL:     pinataAPIURL,
			GatewayURL: pinataGatewayURL,
			APIKey:     os.Getenv("PINATA_API_KEY"),
			SecretKey:  os.Getenv("PINATA_SECRET_API_KEY"),
		},
		Postgres: Postgres{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers:    brokers,
			AuditTopic: auditTopic,
		},
	}
}
