package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		"WARNING": LogLevelWarn,
		"":        LogLevelInfo,
		"bogus":   LogLevelInfo,
		"debug":   LogLevelDebug,
		" TRACE ": LogLevelTrace,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn)

	logger.Info("hidden %d", 1)
	logger.Debug("hidden %d", 2)
	assert.Empty(t, buf.String())

	logger.Warn("visible %s", "warning")
	assert.Contains(t, buf.String(), "visible warning")

	buf.Reset()
	logger.With("request_id", "abc").Error("failed pair %s", "x vs. y")
	assert.Contains(t, buf.String(), "failed pair x vs. y")
	assert.Contains(t, buf.String(), "request_id")
}

func TestTraceRequiresTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, LogLevelDebug).Trace("not shown")
	assert.Empty(t, buf.String())

	NewLoggerTo(&buf, LogLevelTrace).Trace("shown")
	assert.Contains(t, buf.String(), "[trace] shown")
}
