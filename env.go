package gladia

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envOptions struct {
	APIKey           string        `env:"GLADIA_API_KEY,required,notEmpty"`
	BaseURL          string        `env:"GLADIA_BASE_URL" envDefault:"https://api.gladia.io"`
	Region           string        `env:"GLADIA_REGION" envDefault:"us-west"`
	HandshakeTimeout time.Duration `env:"GLADIA_HANDSHAKE_TIMEOUT" envDefault:"5s"`
}

// LoadEnvOptions reads ClientOptions from GLADIA_API_KEY (required),
// GLADIA_BASE_URL, GLADIA_REGION and GLADIA_HANDSHAKE_TIMEOUT.
func LoadEnvOptions() (ClientOptions, error) {
	var raw envOptions
	if err := env.Parse(&raw); err != nil {
		return ClientOptions{}, NewErrorWithCause(ErrorStatusInvalidConfig, "environment variables are invalid or missing", err)
	}
	region := Region(raw.Region)
	if region != RegionUSWest && region != RegionEUWest {
		return ClientOptions{}, NewError(ErrorStatusInvalidConfig, "GLADIA_REGION must be us-west or eu-west, got "+raw.Region)
	}
	return ClientOptions{
		APIKey:           raw.APIKey,
		BaseURL:          raw.BaseURL,
		Region:           region,
		HandshakeTimeout: raw.HandshakeTimeout,
	}, nil
}

// NewClientFromEnv is NewClient(LoadEnvOptions()).
func NewClientFromEnv() (*Client, error) {
	options, err := LoadEnvOptions()
	if err != nil {
		return nil, err
	}
	return NewClient(options), nil
}
