package metrics

import (
	"context"
)

// RecordEvent records a custom event with a name and set of key-value pairs,
// and counts it under the Events/<eventName> custom metric so event rates can
// be charted without querying events.
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	nr, ok := fromContext(ctx)
	if !ok {
		return
	}

	nr.RecordCustomEvent(eventName, kvPairs)
	nr.RecordCustomMetric("Events/"+eventName, 1)
}
