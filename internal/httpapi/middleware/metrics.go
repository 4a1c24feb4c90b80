package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surajislam/Hean/pkg/telemetry"
)

// Metrics records per-request latency on the app histogram, labelled by
// route template (not raw path, to keep cardinality bounded), method and
// status.
func Metrics(m *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
			telemetry.AttrRoute.String(route),
			telemetry.AttrMethod.String(c.Request.Method),
			telemetry.AttrStatus.String(strconv.Itoa(c.Writer.Status())),
		)
	}
}
