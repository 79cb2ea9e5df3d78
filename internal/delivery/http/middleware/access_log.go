package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// AccessLogMiddleware writes one line per request. Requests to skipped paths
// (health checks, scrapes) still get a request id but are not logged.
type AccessLogMiddleware struct {
	logger *log.Logger
	skip   map[string]struct{}
}

func NewAccessLogMiddleware(logger *log.Logger, skipPaths ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, skip: skip}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()
		if _, ok := m.skip[c.Path()]; ok {
			return err
		}

		dur := time.Since(start)
		status := c.Response().StatusCode()

		ip := c.IP()
		host := c.Hostname()
		method := c.Method()
		path := c.OriginalURL()

		ua := c.Get("User-Agent")
		admin, _ := c.Locals(CtxAdminSubjectKey).(string)

		m.logger.Printf(
			"HTTP access | rid=%s ip=%s host=%s method=%s path=%s status=%d latency=%s resp_bytes=%d admin=%q ua=%q",
			rid, ip, host, method, path, status, dur, len(c.Response().Body()), admin, ua,
		)

		return err
	}
}
