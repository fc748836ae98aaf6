package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the runtime knobs of the coordination core. Connection
// strings for Postgres/Redis stay with the infrastructure constructors that
// read DB_URL/REDIS_URL directly; this struct only holds behavior tuning.
type Config struct {
	Port string
	Env  string

	// Offline queue bound. 0 keeps the historical unbounded behavior.
	OfflineQueueMaxDepth int
	// "drop-oldest" or "reject-new"; applies only when MaxDepth > 0.
	OfflineQueuePolicy string

	// TTL for cached counterpart lookups during joinRoom.
	UserCacheTTL time.Duration

	// Per-socket inbound frame rate limit.
	FramesPerSecond float64
	FrameBurst      int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads configuration from the environment with workable defaults.
func Load() Config {
	return Config{
		Port:                 getenv("APP_PORT", "8080"),
		Env:                  getenv("APP_ENV", "dev"),
		OfflineQueueMaxDepth: getint("OFFLINE_QUEUE_MAX_DEPTH", 0),
		OfflineQueuePolicy:   getenv("OFFLINE_QUEUE_POLICY", "drop-oldest"),
		UserCacheTTL:         time.Duration(getint("USER_CACHE_TTL_SECONDS", 300)) * time.Second,
		FramesPerSecond:      float64(getint("WS_FRAMES_PER_SECOND", 25)),
		FrameBurst:           getint("WS_FRAME_BURST", 50),
	}
}
