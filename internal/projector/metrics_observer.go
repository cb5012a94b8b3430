package projector

import (
	"github.com/nivenhub/timelinecore/internal/eventlog"
	"github.com/nivenhub/timelinecore/internal/shared/metrics"
)

// PrometheusObserver reports projection activity to the process's default
// Prometheus registry. It never alters projection outcomes; it only
// records them.
type PrometheusObserver struct{}

func (PrometheusObserver) ObserveProjected(e eventlog.Event) {
	metrics.RecordEventProjected(string(e.Kind))
}

func (PrometheusObserver) ObserveFanout(authorId string, followerCount int) {
	metrics.RecordFanout(followerCount)
}

func (PrometheusObserver) ObserveCelebritySkip(authorId string) {
	metrics.RecordCelebritySkip()
}

var _ Observer = PrometheusObserver{}
