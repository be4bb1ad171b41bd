/*
Package observability turns interview lifecycle events into Prometheus
metrics and structured log lines.

Both are exposed as domain.LifecycleHooks so they can be merged and handed to
the interview engine:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	engine := interview.NewEngine(interview.WithLifecycleHooks(hooks))
*/
package observability
