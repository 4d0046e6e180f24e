package ginscope

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scopekit/di"
	"github.com/kbukum/scopekit/errors"
	"github.com/kbukum/scopekit/logger"
)

// ContextKey is the gin context key holding the request scope.
const ContextKey = "scopekit.scope"

// ErrNoScope is returned when a handler runs without Middleware.
var ErrNoScope = stderrors.New("no dependency scope in request context")

// Option configures Middleware.
type Option func(*options)

type options struct {
	logger        *logger.Logger
	echoRequestID bool
}

// WithLogger logs scope lifecycle events through l.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithoutRequestIDHeader stops the middleware from writing X-Request-Id on
// the response.
func WithoutRequestIDHeader() Option {
	return func(o *options) {
		o.echoRequestID = false
	}
}

// Middleware opens a child scope of root for every request. The request's
// *gin.Context and RequestID are registered in the scope, so Scoped
// factories can depend on them. The scope is disposed after the handler
// chain returns, including when a handler panics. If the scope cannot be
// created, typically because root is disposed, the request is aborted
// with 503.
func Middleware(root *di.Container, opts ...Option) gin.HandlerFunc {
	o := &options{
		logger:        logger.Get("ginscope"),
		echoRequestID: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	return func(c *gin.Context) {
		id := requestID(c)
		if o.echoRequestID {
			c.Header(HeaderRequestID, id.String())
		}

		scope, err := root.CreateScope()
		if err != nil {
			o.logger.Warn("Request scope unavailable", logger.Fields(
				logger.FieldRequestID, id.String(),
				logger.FieldError, err.Error(),
			))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorBody(err))
			return
		}

		start := time.Now()
		defer func() {
			scope.Dispose()
			o.logger.Debug("Request scope disposed", logger.Fields(
				logger.FieldRequestID, id.String(),
				logger.FieldContainerID, scope.ID(),
				logger.FieldDuration, time.Since(start).Milliseconds(),
			))
		}()

		sc := scope.Container()
		if err := di.RegisterInstance(sc, c); err != nil {
			abortInternal(c, o.logger, id, err)
			return
		}
		if err := di.RegisterInstance(sc, id); err != nil {
			abortInternal(c, o.logger, id, err)
			return
		}

		c.Set(ContextKey, scope)
		c.Next()
	}
}

func abortInternal(c *gin.Context, log *logger.Logger, id RequestID, err error) {
	log.Error("Request scope setup failed", logger.Fields(
		logger.FieldRequestID, id.String(),
		logger.FieldError, err.Error(),
	))
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(err))
}

// errorBody renders container failures in the AppError response shape.
func errorBody(err error) any {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.ToResponse()
	}
	return errors.ErrorResponse{Error: errors.ErrorBody{
		Code:    errors.ErrCodeResolutionFailed,
		Message: err.Error(),
	}}
}

// ScopeFrom returns the request scope stored by Middleware.
func ScopeFrom(c *gin.Context) (*di.Scope, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	scope, ok := v.(*di.Scope)
	return scope, ok
}

// Resolve resolves T from the request scope.
func Resolve[T any](c *gin.Context) (T, error) {
	var zero T
	scope, ok := ScopeFrom(c)
	if !ok {
		return zero, ErrNoScope
	}
	return di.Resolve[T](scope)
}

// ResolveKeyed resolves the registration of T under key from the request scope.
func ResolveKeyed[T any](c *gin.Context, key string) (T, error) {
	var zero T
	scope, ok := ScopeFrom(c)
	if !ok {
		return zero, ErrNoScope
	}
	return di.ResolveKeyed[T](scope, key)
}
