package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries all runtime settings for the observer, the live poller and the
// HTTP surface. It is built once in main and passed explicitly to the components
// that need it, so nothing else reads ambient environment state.
type Config struct {
	// Regions to process each heartbeat pass, e.g. ["TZ", "ZM"].
	Regions []string
	// SessionKeys maps a region to its telematics API session key. A region
	// without a key is a configuration error surfaced per pass, not a crash.
	SessionKeys map[string]string

	TelematicsURL string
	// ProviderUTCOffset is the fixed offset (hours) of provider timestamps,
	// which arrive without timezone information.
	ProviderUTCOffset int

	// CronSecret guards the heartbeat trigger endpoint when set.
	CronSecret string

	FetchTimeout     time.Duration
	LivePollInterval time.Duration
	// LeaseTTL bounds how long a heartbeat pass may hold a region lease.
	LeaseTTL time.Duration

	ListenAddr string
}

// Load reads .env (if present) and assembles the Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	regions := strings.Split(getEnv("REGIONS", "TZ,ZM"), ",")
	for i := range regions {
		regions[i] = strings.TrimSpace(regions[i])
	}

	keys := make(map[string]string, len(regions))
	for _, region := range regions {
		if key := os.Getenv("TELEMATICS_SESSION_KEY_" + region); key != "" {
			keys[region] = key
		}
	}

	return &Config{
		Regions:           regions,
		SessionKeys:       keys,
		TelematicsURL:     getEnv("TELEMATICS_API_URL", "https://api.navixy.com/v2"),
		ProviderUTCOffset: getEnvInt("TELEMATICS_UTC_OFFSET", 3),
		CronSecret:        os.Getenv("CRON_SECRET"),
		FetchTimeout:      time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
		LivePollInterval:  time.Duration(getEnvInt("LIVE_POLL_SECONDS", 5)) * time.Second,
		LeaseTTL:          time.Duration(getEnvInt("LEASE_TTL_SECONDS", 120)) * time.Second,
		ListenAddr:        getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
	}
}

// SessionKey returns the telematics session key for a region, or "" when the
// region is not configured.
func (c *Config) SessionKey(region string) string {
	return c.SessionKeys[region]
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
