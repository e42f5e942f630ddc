package tracing

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The adapter must satisfy the SDK's logger interface so it can be passed
// to xray.SetLogger.
var _ xraylog.Logger = (*xrayLoggerAdapter)(nil)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func TestLoggerAdapterLevels(t *testing.T) {
	tests := []struct {
		name  string
		level xraylog.LogLevel
		want  string
	}{
		{"debug", xraylog.LogLevelDebug, "debug"},
		{"info", xraylog.LogLevelInfo, "info"},
		{"warn", xraylog.LogLevelWarn, "warning"},
		{"error", xraylog.LogLevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := setupTestLogger()
			adapter := &xrayLoggerAdapter{logger: log}

			adapter.Log(tt.level, bytes.NewBufferString("trace message"))

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.want, entry["level"])
			assert.Equal(t, "trace message", entry["msg"])
		})
	}
}

func TestInitializeDisabledIsNoOp(t *testing.T) {
	log, buf := setupTestLogger()

	err := Initialize(Config{ServiceName: "puckcast", Enabled: false}, log)

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
