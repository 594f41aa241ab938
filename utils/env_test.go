package utils

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"

	"go.viam.com/ikopt/logging"
)

func TestGetenvInt(t *testing.T) {
	const name = "IKOPT_TEST_GETENV_INT"
	logger, logs := logging.NewObservedTestLogger(t)

	test.That(t, GetenvInt(name, 7, logger), test.ShouldEqual, 7)

	t.Setenv(name, "12")
	test.That(t, GetenvInt(name, 7, logger), test.ShouldEqual, 12)
	test.That(t, logs.Len(), test.ShouldEqual, 0)

	t.Setenv(name, "twelve")
	test.That(t, GetenvInt(name, 7, logger), test.ShouldEqual, 7)
	test.That(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), test.ShouldEqual, 1)
}
