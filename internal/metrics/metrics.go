package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	Ticks            atomic.Int64
	AlertsDerived    atomic.Int64
	WriteFailures    atomic.Int64
	WebsocketClients atomic.Int64
	WebsocketPushes  atomic.Int64
)

func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "droneops_ticks_total %d\n", Ticks.Load())
	fmt.Fprintf(w, "droneops_alerts_derived_total %d\n", AlertsDerived.Load())
	fmt.Fprintf(w, "droneops_write_failures_total %d\n", WriteFailures.Load())
	fmt.Fprintf(w, "droneops_websocket_clients %d\n", WebsocketClients.Load())
	fmt.Fprintf(w, "droneops_websocket_pushes_total %d\n", WebsocketPushes.Load())
}
