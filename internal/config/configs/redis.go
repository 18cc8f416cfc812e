package configs

import "time"

// Redis configures the distributed lock that keeps several scheduler
// instances from running the same sweep at once. With Enabled false the
// scheduler runs without a lock and must be deployed as a single instance.
type Redis struct {
	Enabled  bool          `env:"ENABLED" envDefault:"false"`
	Addr     string        `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	LockTTL  time.Duration `env:"LOCK_TTL" envDefault:"2m"`
}
