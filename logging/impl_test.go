package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func newBufferLogger(name string, level Level) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &impl{name, NewAtomicLevelAt(level), true, []Appender{NewWriterAppender(buf)}}
	return logger, buf
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newBufferLogger("ik", INFO)

	logger.Info("converged")
	line, err := buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts := strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, len(parts), test.ShouldEqual, 5)
	test.That(t, len(parts[0]), test.ShouldEqual, len(DefaultTimeFormatStr))
	test.That(t, parts[1], test.ShouldEqual, "INFO")
	test.That(t, parts[2], test.ShouldEqual, "ik")
	test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	test.That(t, parts[4], test.ShouldEqual, "converged")

	logger.Warnw("iteration", "cost", 1.5, "status", "running")
	line, err = buf.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)
	parts = strings.Split(strings.TrimSuffix(line, "\n"), "\t")
	test.That(t, parts[1], test.ShouldEqual, "WARN")
	test.That(t, parts[len(parts)-1], test.ShouldEqual, `{"cost":1.5,"status":"running"}`)
}

func TestCallerIsLogSite(t *testing.T) {
	logger, buf := newBufferLogger("ik", DEBUG)
	sub := logger.Sublogger("nlp")
	ctx := EnableDebugMode(context.Background(), "")
	for _, log := range []func(){
		func() { logger.Debug("a") },
		func() { logger.Infof("%s", "b") },
		func() { logger.Warnw("c", "k", 1) },
		func() { logger.Errorf("d") },
		func() { sub.Error("e") },
		func() { sub.CDebugw(ctx, "f", "k", 2) },
	} {
		buf.Reset()
		log()
		parts := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
		test.That(t, len(parts), test.ShouldBeGreaterThanOrEqualTo, 5)
		test.That(t, parts[3], test.ShouldStartWith, "logging/impl_test.go:")
	}
}

func TestLevels(t *testing.T) {
	logger, buf := newBufferLogger("", WARN)
	logger.Debug("no")
	logger.Infof("no %d", 1)
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.Errorf("yes %d", 1)
	test.That(t, buf.String(), test.ShouldContainSubstring, "yes 1")

	buf.Reset()
	logger.SetLevel(DEBUG)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)
	logger.Debugf("now %s", "visible")
	test.That(t, buf.String(), test.ShouldContainSubstring, "now visible")
}

func TestContextDebug(t *testing.T) {
	logger, buf := newBufferLogger("", INFO)
	ctx := context.Background()
	logger.CDebugf(ctx, "hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	ctx = EnableDebugMode(ctx, "")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, len(GetName(ctx)), test.ShouldEqual, 6)
	logger.CDebugw(ctx, "shown", "iteration", 3)
	test.That(t, buf.String(), test.ShouldContainSubstring, "shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, `"iteration":3`)
}

func TestSublogger(t *testing.T) {
	logger, buf := newBufferLogger("ik", INFO)
	sub := logger.Sublogger("nlopt")
	sub.Info("hello")
	test.That(t, buf.String(), test.ShouldContainSubstring, "ik.nlopt")

	// sublogger levels are independent of the parent
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
}

func TestUnpairedKey(t *testing.T) {
	logger, obs := NewObservedTestLogger(t)
	logger.Infow("msg", "dangling")
	entries := obs.All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].Level, test.ShouldEqual, zapcore.InfoLevel)
	test.That(t, entries[0].ContextMap()["dangling"], test.ShouldEqual, errUnpairedKey.Error())
}

func TestLevelStrings(t *testing.T) {
	for _, level := range []Level{DEBUG, INFO, WARN, ERROR} {
		parsed, err := LevelFromString(strings.ToUpper(level.String()))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, level)

		data, err := level.MarshalJSON()
		test.That(t, err, test.ShouldBeNil)
		var roundTrip Level
		test.That(t, roundTrip.UnmarshalJSON(data), test.ShouldBeNil)
		test.That(t, roundTrip, test.ShouldEqual, level)
	}
	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGlobal(t *testing.T) {
	orig := Global()
	defer ReplaceGlobal(orig)

	logger := NewTestLogger(t)
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}

func TestAsZap(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)

	sugared := logger.AsZap()
	sugared.Warnw("kept", "iteration", 3)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("kept").All()[0].ContextMap()["iteration"], test.ShouldEqual, int64(3))
}

func TestBlankLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewBlankLogger("blank")
	logger.Info("nowhere")
	logger.AddAppender(NewWriterAppender(buf))
	logger.Debug("somewhere")
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "nowhere")
	test.That(t, buf.String(), test.ShouldContainSubstring, "somewhere")
	test.That(t, logger.Sync(), test.ShouldBeNil)
}
