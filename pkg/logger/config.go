package logger

// Config is the environment-driven logger configuration.
type Config struct {
	App    string `env:"APP_NAME" envDefault:"pricingkit"`
	Env    string `env:"APP_ENV" envDefault:"development"`
	Level  string `env:"LOG_LEVEL"`  // Overrides the environment default when set
	Format Format `env:"LOG_FORMAT"` // Overrides the environment default when set
}
