package metrics

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// TraceMethodCall traces a method call with a given struct/package and method
// names. Calls made within an existing transaction become a segment of it.
// Otherwise, when the context carries an application, the call is traced as
// its own transaction. Without either, the returned tracer is nil and safe to
// use.
func TraceMethodCall(ctx context.Context, structOrPackageName, methodName string) *MethodTracer {
	name := fmt.Sprintf("%s %s", structOrPackageName, methodName)

	if txn := newrelic.FromContext(ctx); txn != nil {
		return &MethodTracer{
			txn: txn,
			seg: txn.StartSegment(name),
		}
	}

	if nr, ok := fromContext(ctx); ok {
		return &MethodTracer{
			txn:     nr.StartTransaction(name),
			ownsTxn: true,
		}
	}

	return nil
}

// MethodTracer collects analytics for a given method call
type MethodTracer struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment

	// ownsTxn is set when the tracer started txn, rather than a segment of it
	ownsTxn bool
}

// AddAttribute adds a key-value pair metadata to the method trace
func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil {
		return
	}

	if t.ownsTxn {
		t.txn.AddAttribute(key, value)
		return
	}
	t.seg.AddAttribute(key, value)
}

// AddAttributes adds a set of key-value pair metadata to the method trace
func (t *MethodTracer) AddAttributes(attributes map[string]interface{}) {
	for key, value := range attributes {
		t.AddAttribute(key, value)
	}
}

// OnError observes an error within a method trace
func (t *MethodTracer) OnError(err error) {
	if t == nil || err == nil {
		return
	}

	t.txn.NoticeError(err)
}

// End completes the trace for the method call
func (t *MethodTracer) End() {
	if t == nil {
		return
	}

	if t.ownsTxn {
		t.txn.End()
		return
	}
	t.seg.End()
}
