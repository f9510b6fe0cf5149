package pinning

import "time"

// Config aggregates adapter and orchestrator settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Pinata     PinataConfig
	Lighthouse LighthouseConfig

	// FallbackTimeout bounds the wait on the secondary provider.
	FallbackTimeout time.Duration `env:"PINNING_FALLBACK_TIMEOUT" envDefault:"3s"`
}
