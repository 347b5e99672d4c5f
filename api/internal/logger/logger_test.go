package logger

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	Convey("Known levels", t, func() {
		for in, want := range map[string]zapcore.Level{
			"":        zapcore.InfoLevel,
			"DEBUG":   zapcore.DebugLevel,
			"warning": zapcore.WarnLevel,
			" error ": zapcore.ErrorLevel,
		} {
			lvl, err := ParseLevel(in)
			So(err, ShouldBeNil)
			So(lvl, ShouldEqual, want)
		}
	})

	Convey("Unknown level", t, func() {
		_, err := ParseLevel("loud")
		So(err, ShouldNotBeNil)
	})
}

func TestNew(t *testing.T) {
	Convey("Debug mode without a level logs debug", t, func() {
		l, err := New(true, "")
		So(err, ShouldBeNil)
		So(l.Desugar().Core().Enabled(zapcore.DebugLevel), ShouldBeTrue)
	})

	Convey("Production respects the level", t, func() {
		l, err := New(false, "warn")
		So(err, ShouldBeNil)
		So(l.Desugar().Core().Enabled(zapcore.InfoLevel), ShouldBeFalse)
		So(l.Desugar().Core().Enabled(zapcore.WarnLevel), ShouldBeTrue)
	})

	Convey("A bad level fails", t, func() {
		_, err := New(false, "loud")
		So(err, ShouldNotBeNil)
	})
}
