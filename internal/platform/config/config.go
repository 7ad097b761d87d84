package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Driver string // memory, sqlite, pgx, postgres
	DSN    string
}

type CatalogConfig struct {
	BaseURL   string
	PageLimit int
	// Zero leaves the transport default in place.
	Timeout time.Duration
}

type ListingConfig struct {
	SearchDebounce time.Duration
}

type NotificationConfig struct {
	CheckoutDelay time.Duration
	DispatchSpec  string
}

type SessionConfig struct {
	Secret     string
	AppKeyHash string
	TTL        time.Duration
}

// Enabled reports whether mutating routes require a session token.
func (c SessionConfig) Enabled() bool {
	return c.Secret != ""
}

func LoadServerConfig(defaultPort string) ServerConfig {
	return ServerConfig{Port: ":" + GetEnv("SERVER_PORT", defaultPort)}
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver: GetEnv("STORAGE_DRIVER", "sqlite"),
		DSN:    GetEnv("STORAGE_DSN", "dummyshop.db"),
	}
}

func LoadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		BaseURL:   GetEnv("CATALOG_BASE_URL", "https://dummyjson.com/products"),
		PageLimit: GetEnvAsInt("CATALOG_PAGE_LIMIT", 30),
		Timeout:   time.Duration(GetEnvAsInt("CATALOG_TIMEOUT_SECONDS", 0)) * time.Second,
	}
}

func LoadListingConfig() ListingConfig {
	return ListingConfig{
		SearchDebounce: time.Duration(GetEnvAsInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
	}
}

func LoadNotificationConfig() NotificationConfig {
	return NotificationConfig{
		CheckoutDelay: time.Duration(GetEnvAsInt("CHECKOUT_NOTIFY_DELAY_SECONDS", 5)) * time.Second,
		DispatchSpec:  GetEnv("NOTIFY_DISPATCH_SPEC", "*/1 * * * * *"),
	}
}

func LoadSessionConfig() SessionConfig {
	return SessionConfig{
		Secret:     GetEnv("SESSION_SECRET", ""),
		AppKeyHash: GetEnv("SESSION_APP_KEY_HASH", ""),
		TTL:        time.Duration(GetEnvAsInt("SESSION_TTL_HOURS", 72)) * time.Hour,
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
