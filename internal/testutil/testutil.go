package testutil

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dhis2/d2-data-apis/log"
)

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

// ObservedLogger returns a logger that records entries at debug level and above.
func ObservedLogger() (log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return log.NewZapLogger(zap.New(core)), logs
}

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}
