package config

import (
	"github.com/caarlos0/env/v11"
)

// envConfig lists the settings that may come from the environment. Secrets
// are kept out of the config file this way.
type envConfig struct {
	StoreToken   string `env:"FOCUS_STORE_TOKEN"`
	StoreDSN     string `env:"FOCUS_STORE_DSN"`
	StoreURL     string `env:"FOCUS_STORE_URL"`
	StoreBackend string `env:"FOCUS_STORE_BACKEND"`
	JWTSecret    string `env:"FOCUS_JWT_SECRET"`
	ServerAddr   string `env:"FOCUS_ADDR"`
	Mail         MailConfig
}

// WithEnvConfig returns an Option that applies environment variables.
// Unset variables leave the current values alone.
func WithEnvConfig() Option {
	return func(c *Config) error {
		var e envConfig

		if err := env.Parse(&e); err != nil {
			return errParseEnv.Wrap(err)
		}

		c.Mail = e.Mail

		setIfNotEmpty(&c.Store.Token, e.StoreToken)
		setIfNotEmpty(&c.Store.DSN, e.StoreDSN)
		setIfNotEmpty(&c.Store.URL, e.StoreURL)
		setIfNotEmpty((*string)(&c.Store.Backend), e.StoreBackend)
		setIfNotEmpty(&c.Server.JWTSecret, e.JWTSecret)
		setIfNotEmpty(&c.Server.Addr, e.ServerAddr)

		return nil
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
