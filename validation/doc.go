// Package validation validates configuration and request input.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their mapstructure path:
//
//	type Config struct {
//	    Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors:
//
//	v := validation.New()
//	v.Required("name", name).OneOf("environment", env, envs)
//	err := v.Err()
package validation
