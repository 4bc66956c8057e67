package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/quantcoach/tempo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(&buf), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)

		Convey("When logging with fields", func() {
			logger.Get().Info(context.Background(), "selection made",
				logger.String("competency", "leadership"),
				logger.Float64("score", 83.5),
			)

			Convey("Then the record carries the message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "selection made")
				So(out, ShouldContainSubstring, "competency=leadership")
				So(out, ShouldContainSubstring, "score=83.5")
			})
		})

		Convey("When the level filters out debug", func() {
			So(logger.SetLevelString("warn"), ShouldBeNil)
			logger.Get().Debug(context.Background(), "window contents")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "window contents")
			})
		})

		Convey("When using a named logger", func() {
			So(logger.SetLevelString("info"), ShouldBeNil)
			logger.Named("coverage").Info(context.Background(), "snapshot taken",
				logger.Int("gaps", 3),
			)

			Convey("Then the group name scopes the fields", func() {
				So(buf.String(), ShouldContainSubstring, "coverage.gaps=3")
			})
		})
	})

	Convey("Given level parsing", t, func() {
		Convey("Then known names parse and unknown names error", func() {
			So(logger.SetLevelString("WARNING"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})

	Convey("Given the no-op logger", t, func() {
		Convey("Then it accepts records without side effects", func() {
			nop := logger.Nop()
			So(func() {
				nop.Named("x").Error(context.Background(), "dropped", logger.Error(nil))
			}, ShouldNotPanic)
		})
	})
}
