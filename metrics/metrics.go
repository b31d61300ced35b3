package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CheckOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_checkouts_total",
		Help: "Successful item check-outs.",
	})
	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_checkins_total",
		Help: "Successful item check-ins.",
	})
	ForcedTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_forced_transitions_total",
		Help: "Administrative forced status changes.",
	})
	TransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "custody_transition_conflicts_total",
		Help: "Check-out/check-in attempts rejected by state preconditions.",
	})
)

// Handler wraps the default registry for gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
