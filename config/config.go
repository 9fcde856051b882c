package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// JobCategories is the fixed category set. Ads reference categories by value,
// keyboards and the wizard reference them by index.
var JobCategories = []string{
	"💼 Ofis ishi",
	"🏗 Qurilish",
	"🍽 Restoran/Kafe",
	"🚗 Haydovchi",
	"🏥 Tibbiyot",
	"💻 IT",
	"📚 Ta'lim",
	"🔧 Xizmat",
	"🛍 Savdo",
	"🏭 Ishlab chiqarish",
	"🎨 Ijodiy",
	"📞 Call-center",
}

type Config struct {
	BotToken     string `env:"BOT_TOKEN,required"`
	ChannelID    string `env:"CHANNEL_ID,required"` // "@fargona_jobs" or "-100..."
	DatabaseURL  string `env:"DATABASE_URL,required"`
	SuperAdminID int64  `env:"SUPER_ADMIN_ID,required"`

	MaxDailyAds  int `env:"MAX_DAILY_ADS" envDefault:"3"`
	AdExpiryDays int `env:"AD_EXPIRY_DAYS" envDefault:"7"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	BroadcastPace   time.Duration `env:"BROADCAST_PACE" envDefault:"50ms"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"24h"`

	// Wizard sessions expire after this much idle time. With REDIS_ADDR set
	// the sessions survive restarts, otherwise they live in process memory.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	RedisAddr  string        `env:"REDIS_ADDR"`

	LogChannelID int64 `env:"LOG_CHANNEL_ID"`
	Debug        bool  `env:"DEBUG" envDefault:"false"`
}

func Load() (*Config, error) {
	// .env is optional, in production the variables are set directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AdRetention converts the configured expiry days into a duration.
func (c *Config) AdRetention() time.Duration {
	return time.Duration(c.AdExpiryDays) * 24 * time.Hour
}
