package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iota-uz/section-editor/pkg/application"
)

const DefaultPath = "/debug/prometheus"

// PrometheusController exposes the default registry, which holds the
// session counters and remote call latencies.
type PrometheusController struct {
	path    string
	handler http.Handler
}

func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	handler := promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		}),
	)
	return &PrometheusController{path: path, handler: handler}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, c.handler).Methods(http.MethodGet)
}
