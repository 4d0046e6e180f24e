package di

import (
	"github.com/kbukum/scopekit/errors"
	"github.com/kbukum/scopekit/logger"
)

// Validate resolves every registration of this container (not its
// parents) and reports all failures in one VALIDATION_FAILED error.
// Successful resolutions populate Singleton and Scoped caches exactly as a
// normal resolve would; validation is not a dry run.
func (c *Container) Validate() error {
	c.mu.RLock()
	if c.disposed {
		c.mu.RUnlock()
		return errors.Disposed(c.subject())
	}
	entries := c.registry.all()
	c.mu.RUnlock()

	var failures []errors.Failure
	for _, e := range entries {
		if err := c.validateEntry(e); err != nil {
			failures = append(failures, errors.NewFailure(typeName(e.typ), e.key.String(), err))
		}
	}

	if len(failures) > 0 {
		c.log.Warn("Container validation failed", logger.Fields(
			logger.FieldCount, len(entries),
			"failures", len(failures),
		))
		return errors.ValidationFailed(failures)
	}

	c.log.Debug("Container validated", logger.Fields(logger.FieldCount, len(entries)))
	return nil
}

func (c *Container) validateEntry(e *registration) error {
	res := c.begin()
	defer res.end()
	_, err := res.resolve(e.typ, e.key)
	return err
}
