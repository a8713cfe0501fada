package testutil

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logrus.TraceLevel, logLevel(""))
	assert.Equal(t, logrus.WarnLevel, logLevel("warn"))
	assert.Equal(t, logrus.TraceLevel, logLevel("loud"))
}

func TestIsVerbose(t *testing.T) {
	assert.True(t, isVerbose([]string{"pkg.test", "-test.v=true"}))
	assert.True(t, isVerbose([]string{"pkg.test", "-test.v"}))
	assert.False(t, isVerbose([]string{"pkg.test", "-test.run=TestX"}))
}

func TestDisableLogging(t *testing.T) {
	logger := logrus.StandardLogger()
	original := logger.Out
	defer logger.SetOutput(original)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	reset := DisableLogging()
	logrus.Error("hidden")
	assert.Zero(t, buf.Len())

	reset()
	logrus.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}
