package configs

import "time"

// Scheduler configures the background sweeps that drive campaign and payment
// transitions.
type Scheduler struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`
	// LifecycleInterval is how often expired campaigns are moved into the
	// grace period and evaluated.
	LifecycleInterval time.Duration `env:"LIFECYCLE_INTERVAL" envDefault:"1m"`
	// PaymentInterval is how often pending and failed payment intents are
	// submitted again and exhausted ones escalated.
	PaymentInterval time.Duration `env:"PAYMENT_INTERVAL" envDefault:"5m"`
}
