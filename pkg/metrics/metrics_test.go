package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current value of a single counter or gauge.
func value(c prometheus.Collector) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var m dto.Metric
	if err := (<-ch).Write(&m); err != nil {
		panic(err)
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then collectors are registered under the syncsix namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.engineRuns.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "syncsix_engine_runs_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the names and labels follow the options", func() {
				manager.playersScored.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_unit_players_scored_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			_ = NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording engine metrics", func() {
			before := value(globalManager.engineRuns)
			RecordEngineRun(1.5)
			RecordClockFallback()
			RecordPlayerScored(25)
			RecordPlayersRanked(3)
			RecordRuleHit("JERSEY_DATE_MATCH")

			Convey("Then the counters move", func() {
				So(value(globalManager.engineRuns), ShouldEqual, before+1)
				So(value(globalManager.ruleHits.WithLabelValues("JERSEY_DATE_MATCH")), ShouldBeGreaterThanOrEqualTo, 1.0)
				So(value(globalManager.playersRanked), ShouldBeGreaterThanOrEqualTo, 3.0)
			})
		})

		Convey("When recording upstream and cache metrics", func() {
			RecordUpstreamRequest("games", "200", 12)
			RecordCacheHit("memory")
			RecordCacheMiss("memory")

			Convey("Then the labelled series exist", func() {
				So(value(globalManager.upstreamRequests.WithLabelValues("games", "200")), ShouldBeGreaterThanOrEqualTo, 1.0)
				So(value(globalManager.cacheLookups.WithLabelValues("memory", "hit")), ShouldBeGreaterThanOrEqualTo, 1.0)
				So(value(globalManager.cacheLookups.WithLabelValues("memory", "miss")), ShouldBeGreaterThanOrEqualTo, 1.0)
			})
		})

		Convey("When updating gauges", func() {
			UpdateQueueSize(7)
			UpdateQueueCapacity(64)
			UpdateWorkerCount(4)
			UpdateSystemGoroutineCount(12)
			UpdateSystemMemoryUsage(1024)

			Convey("Then gauges hold the last value", func() {
				So(value(globalManager.queueSize), ShouldEqual, 7.0)
				So(value(globalManager.queueCapacity), ShouldEqual, 64.0)
				So(value(globalManager.workerCount), ShouldEqual, 4.0)
				So(value(globalManager.systemMemoryUsage), ShouldEqual, 1024.0)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("games", "GET", "200")
				RecordHTTPRequestDuration("games", "GET", "200", 3)
				RecordErrorByComponent("apisports", "upstream")
				RecordErrorByEndpoint("games", "GET", "server_error")
				RecordQueueEnqueueError()
				RecordWorkerJob(2)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("Then GetRegistry exposes the custom registry", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := value(globalManager.playersScored)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordPlayerScored(10)
			}()
		}
		wg.Wait()

		So(value(globalManager.playersScored), ShouldEqual, before+50)
	})
}
