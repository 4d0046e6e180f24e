// Package config loads service configuration.
//
// LoadConfig reads config.yml with Viper, loads a .env file with godotenv and
// lets environment variables override any key by its dotted path:
//
//	var cfg MyConfig
//	err := config.LoadConfig("orders", &cfg, config.WithEnvPrefix("ORDERS"))
//	// ORDERS_CONTAINER_VALIDATE_ON_START=true sets cfg.Container.ValidateOnStart
//
// ServiceConfig is the base every service embeds. Besides the logging
// section it carries the root container settings and the telemetry section.
package config
