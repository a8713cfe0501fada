package testutil

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevelEnvName overrides the logrus level used by verbose test runs.
const LogLevelEnvName = "TEST_LOG_LEVEL"

// Test binaries that import this package only print logs when run with -v.
func init() {
	logger := logrus.StandardLogger()
	logger.SetLevel(logLevel(os.Getenv(LogLevelEnvName)))

	if !isVerbose(os.Args) {
		logger.SetOutput(io.Discard)
	}
}

func isVerbose(args []string) bool {
	for _, arg := range args {
		if arg == "-test.v=true" || arg == "-test.v" {
			return true
		}
	}
	return false
}

func logLevel(s string) logrus.Level {
	if s == "" {
		return logrus.TraceLevel
	}

	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.TraceLevel
	}
	return level
}

// DisableLogging discards logrus output until reset is called.
func DisableLogging() (reset func()) {
	logger := logrus.StandardLogger()
	original := logger.Out
	logger.SetOutput(io.Discard)
	return func() {
		logger.SetOutput(original)
	}
}
