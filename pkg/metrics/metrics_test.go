package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoApplication(t *testing.T) {
	ctx := NewContext(context.Background(), nil)

	_, ok := fromContext(ctx)
	assert.False(t, ok)

	// Recording without an application is a no-op
	RecordCount(ctx, "count", 1)
	RecordValue(ctx, "value", 1.5)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

	tracer := TraceMethodCall(ctx, "metrics", "TestNoApplication")
	assert.Nil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.OnError(nil)
	tracer.End()
}

func newDisabledApplication(t *testing.T) *newrelic.Application {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("abc-test"),
		newrelic.ConfigLicense("0123456789012345678901234567890123456789"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.Shutdown(time.Second) })
	return app
}

func TestTraceMethodCall_OwnsTransaction(t *testing.T) {
	app := newDisabledApplication(t)
	ctx := NewContext(context.Background(), app)

	nr, ok := fromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, app, nr)

	tracer := TraceMethodCall(ctx, "metrics", "TestTraceMethodCall_OwnsTransaction")
	require.NotNil(t, tracer)
	assert.True(t, tracer.ownsTxn)

	tracer.AddAttributes(map[string]interface{}{"key": "value"})
	tracer.OnError(errors.New("test"))
	tracer.End()

	RecordValue(ctx, "value", 1.5)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
}

func TestTraceMethodCall_ExistingTransaction(t *testing.T) {
	app := newDisabledApplication(t)
	txn := app.StartTransaction("test")
	defer txn.End()

	ctx := newrelic.NewContext(NewContext(context.Background(), app), txn)

	tracer := TraceMethodCall(ctx, "metrics", "TestTraceMethodCall_ExistingTransaction")
	require.NotNil(t, tracer)
	assert.False(t, tracer.ownsTxn)

	tracer.AddAttribute("key", "value")
	tracer.OnError(nil)
	tracer.End()
}

func TestNewRelicMessage(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Message = "created market"
	assert.Equal(t, "created market", newRelicMessage(entry))

	entry = entry.WithFields(logrus.Fields{
		"market":        "abc",
		logrus.ErrorKey: errors.New("failure"),
	})
	entry.Message = "order rejected"
	assert.Equal(t, `message="order rejected", error="failure", data={"market":"abc"}`, newRelicMessage(entry))
}

func TestCustomNewRelicLogFormatter(t *testing.T) {
	formatter := NewCustomNewRelicLogFormatter(newDisabledApplication(t), &logrus.JSONFormatter{})

	entry := logrus.NewEntry(logrus.New()).WithField("market", "abc")
	entry.Message = "created market"
	entry.Level = logrus.InfoLevel

	formatted, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(formatted), `"msg":"created market"`)
	assert.True(t, strings.HasSuffix(string(formatted), "\n"))
}
