package configs

// Lifecycle configures the campaign state machine.
type Lifecycle struct {
	// GracePeriodDays is added to a campaign's end date when it enters the
	// grace period. Pledges committed before the grace period ends still
	// count toward evaluation.
	GracePeriodDays int `env:"GRACE_PERIOD_DAYS" envDefault:"3"`
}
