package di

// Config holds container settings loaded with the service configuration.
type Config struct {
	Name            string `yaml:"name" mapstructure:"name"`
	ValidateOnStart bool   `yaml:"validate_on_start" mapstructure:"validate_on_start"`
}

// ApplyDefaults applies default values to the container configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "root"
	}
}
