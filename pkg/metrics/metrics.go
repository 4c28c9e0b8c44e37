// Package metrics exposes the Prometheus registry used by the duckids packages.
// Metrics are defined where they are recorded (client, fanout); this package
// only documents them and exports them at the end of a run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics are registered
// via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads from the same registry.
var Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes every registered metric to path in the text exposition
// format, for pickup by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - banner_requests_total{route, status} (Counter): requests by route ("roster", "duckid") and HTTP status
//   - banner_request_duration_seconds{route} (Histogram): request duration by route
//   - banner_errors_total{kind} (Counter): errors by kind (configuration, network, status, deserialization)
//
// Fan-out Metrics (pkg/fanout):
//   - banner_fanout_width (Gauge): IDs dispatched by the last fan-out
//   - banner_resolutions_total{result} (Counter): resolutions by result ("ok", "error")
