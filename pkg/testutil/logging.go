package testutil

import (
	"flag"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func init() {
	logrus.SetLevel(logrus.TraceLevel)
}

func verbose() bool {
	f := flag.Lookup("test.v")
	return f != nil && f.Value.String() == "true"
}

// DisableLogging silences the standard logger, unless tests run verbosely,
// until the returned reset func is called
func DisableLogging() (reset func()) {
	originalLogOutput := logrus.StandardLogger().Out
	if !verbose() {
		logrus.StandardLogger().Out = io.Discard
	}
	return func() {
		logrus.StandardLogger().Out = originalLogOutput
	}
}

// CaptureLogging records entries written to the standard logger for the rest
// of the test
func CaptureLogging(t *testing.T) *test.Hook {
	hook := test.NewLocal(logrus.StandardLogger())
	reset := DisableLogging()
	t.Cleanup(func() {
		reset()
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})
	return hook
}
