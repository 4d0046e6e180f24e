// Package logger provides structured logging for scopekit using zerolog.
//
// The container reports registrations, scope lifecycle and teardown
// failures through this package. Applications configure it once with
// Init and may hand a dedicated instance to a container with
// di.WithLogger.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Info("scope created", logger.Fields("container_id", id))
package logger
