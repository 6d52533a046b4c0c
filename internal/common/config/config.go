package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// InsecureSecretPlaceholder is what the shared secret falls back to when the
// environment does not provide one. The server logs a warning at startup when
// it is still in effect.
const InsecureSecretPlaceholder = "change-me"

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port         int    `env:"PORT" envDefault:"8080"`
		Origin       string `env:"ORIGIN" envDefault:"*"`
		SharedSecret string `env:"API_SHARED_SECRET" envDefault:"change-me"`
	}

	Telegram struct {
		AppID   int    `env:"TELEGRAM_APP_ID,required"`
		AppHash string `env:"TELEGRAM_APP_HASH,required"`

		// Long-lived string session of the escrow account (Telethon format).
		EscrowSession string `env:"ESCROW_SESSION,required"`

		// Two-factor password of the escrow account, needed for the creator
		// handoff proof. Transfers fail with AUTH_PROOF_ERROR when unset.
		EscrowPassword string `env:"ESCROW_2FA_PASSWORD"`

		ConnectRetries   int `env:"TELEGRAM_CONNECT_RETRIES" envDefault:"3"`
		RetryIntervalSec int `env:"TELEGRAM_RETRY_INTERVAL_SEC" envDefault:"2"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Transfer struct {
		// Admins are listed in a single page of this size. Channels with more
		// admins than this get a truncation warning in the logs.
		AdminPageLimit int `env:"ADMIN_PAGE_LIMIT" envDefault:"200"`

		// Number of per-admin revocation failures tolerated before the run is
		// aborted ahead of the irreversible handoff. 0 means any partial
		// result is acceptable.
		RevokeFailureLimit int `env:"REVOKE_FAILURE_LIMIT" envDefault:"0"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env is optional; in production the variables are set directly
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
