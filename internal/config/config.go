package config

import (
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Name string
		Env  string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		// Path is the SQLite database file. The directory must exist.
		Path string
	}

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}

	Serial struct {
		// Enabled selects the real serial link; when false every frame is
		// logged by the dry-run transport instead.
		Enabled bool
		Device  string
	}

	Display struct {
		TickInterval       time.Duration
		TransitionDuration time.Duration
		TimeSyncInterval   time.Duration
		IdleText           string
	}

	Scheduler struct {
		EmergencyThreshold   int
		MinRepeatInterval    time.Duration
		MinDisplayDuration   time.Duration
		MaxDisplayDuration   time.Duration
		BaseDisplayDuration  time.Duration
		ScrollCharsPerSecond int
		JitterAmplitude      float64
		// Seed makes scheduling reproducible when non-zero. Zero seeds the
		// scheduler from the clock.
		Seed int64
	}

	Maintenance struct {
		ExpirySweepInterval time.Duration
		PurgeInterval       time.Duration
	}

	Ephemeral struct {
		MaxTTL time.Duration
	}

	Notify struct {
		// WebhookURL receives operational events (emergency shown, display
		// paused, store degraded). Empty disables notifications.
		WebhookURL string
		Timeout    time.Duration
		MaxRetries int
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "b48-display-controller")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Path = getEnv("DB_PATH", "data/messages.db")

	// Redis
	cfg.Redis.Enabled = getBool("REDIS_ENABLED", true)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Serial link
	cfg.Serial.Enabled = getBool("SERIAL_ENABLED", false)
	cfg.Serial.Device = getEnv("SERIAL_DEVICE", "/dev/ttyS0")

	// Display loop
	cfg.Display.TickInterval = getDuration("DISPLAY_TICK_INTERVAL", 250*time.Millisecond)
	cfg.Display.TransitionDuration = getDuration("DISPLAY_TRANSITION_DURATION", 4*time.Second)
	cfg.Display.TimeSyncInterval = getDuration("DISPLAY_TIME_SYNC_INTERVAL", 10*time.Second)
	cfg.Display.IdleText = getEnv("DISPLAY_IDLE_TEXT", "--.-")

	// Scheduler
	cfg.Scheduler.EmergencyThreshold = getInt("SCHEDULER_EMERGENCY_THRESHOLD", 95)
	cfg.Scheduler.MinRepeatInterval = getDuration("SCHEDULER_MIN_REPEAT_INTERVAL", 5*time.Minute)
	cfg.Scheduler.MinDisplayDuration = getDuration("SCHEDULER_MIN_DISPLAY_DURATION", 5*time.Second)
	cfg.Scheduler.MaxDisplayDuration = getDuration("SCHEDULER_MAX_DISPLAY_DURATION", 20*time.Second)
	cfg.Scheduler.BaseDisplayDuration = getDuration("SCHEDULER_BASE_DISPLAY_DURATION", 5*time.Second)
	cfg.Scheduler.ScrollCharsPerSecond = getInt("SCHEDULER_SCROLL_CHARS_PER_SECOND", 5)
	cfg.Scheduler.JitterAmplitude = getFloat("SCHEDULER_JITTER_AMPLITUDE", 0)
	cfg.Scheduler.Seed = int64(getInt("SCHEDULER_SEED", 0))

	// Maintenance sweeps
	cfg.Maintenance.ExpirySweepInterval = getDuration("MAINTENANCE_EXPIRY_INTERVAL", time.Minute)
	cfg.Maintenance.PurgeInterval = getDuration("MAINTENANCE_PURGE_INTERVAL", 24*time.Hour)

	// Ephemeral messages
	cfg.Ephemeral.MaxTTL = getDuration("EPHEMERAL_MAX_TTL", time.Hour)

	// Notifications
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")
	cfg.Notify.Timeout = getDuration("NOTIFY_TIMEOUT", 5*time.Second)
	cfg.Notify.MaxRetries = getInt("NOTIFY_MAX_RETRIES", 2)

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return isTruthy(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Addr is the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.API.Host + ":" + c.API.Port
}
