package logging

// Config controls how component loggers are built.
type Config struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// PINIT_LOG_LEVEL overrides it.
	Level string `mapstructure:"level"`

	// ReportCaller adds file:line to each entry. PINIT_LOG_CALLER=true enables it.
	ReportCaller bool `mapstructure:"report_caller"`

	// Format is "text" (default) or "json".
	Format string `mapstructure:"format"`

	// File enables the daily log file under Dir.
	File bool   `mapstructure:"file"`
	Dir  string `mapstructure:"dir"`

	// Stderr is "auto" (default), "always" or "never".
	Stderr string `mapstructure:"stderr"`
}
