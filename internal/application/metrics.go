package application

import "expvar"

// Counters published on /debug/vars.
var metrics = expvar.NewMap("users")

const (
	metricRegistered     = "registered"
	metricRejected       = "registration_rejected"
	metricUpdated        = "updated"
	metricDeleted        = "deleted"
	metricActivated      = "activated"
	metricSideEffectFail = "side_effect_failures"
)
