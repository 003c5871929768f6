package stats_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/pionscan/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAverage(t *testing.T) {
	Convey("Given totals and denominators", t, func() {
		So(stats.Average(1, 1), ShouldEqual, 1.0)
		So(stats.Average(3, 4), ShouldEqual, 0.75)

		Convey("When the denominator is zero", func() {
			So(stats.IsUndefined(stats.Average(0, 0)), ShouldBeTrue)
			So(stats.IsUndefined(stats.Average(5, 0)), ShouldBeTrue)
		})
	})
}

func TestUncertainties(t *testing.T) {
	Convey("Given Poisson counts", t, func() {
		So(stats.AverageUncertainty(16, 4), ShouldEqual, 1.0)
		So(stats.IsUndefined(stats.AverageUncertainty(16, 0)), ShouldBeTrue)
		So(stats.RawPoissonUncertainty(16), ShouldEqual, 4.0)
		So(stats.RawPoissonUncertainty(0), ShouldEqual, 0.0)

		Convey("When combining independent uncertainties", func() {
			So(stats.CombinedUncertainty(3, 4), ShouldAlmostEqual, 5.0, 1e-12)
			So(stats.CombinedUncertainty(math.Sqrt(1), math.Sqrt(1)), ShouldAlmostEqual, 1.4142, 1e-4)
		})
	})
}

func TestSignificance(t *testing.T) {
	Convey("Given a non-zero combined uncertainty", t, func() {
		So(stats.Significance(0, 1.4142, stats.ZeroAsUndefined), ShouldEqual, 0.0)
		So(stats.Significance(10, 2, stats.ZeroAsZero), ShouldEqual, 5.0)
	})

	Convey("Given a zero combined uncertainty", t, func() {
		Convey("Then each policy picks its sentinel", func() {
			So(stats.Significance(3, 0, stats.ZeroAsZero), ShouldEqual, 0.0)
			So(math.IsInf(stats.Significance(3, 0, stats.ZeroAsInfinity), 1), ShouldBeTrue)
			So(stats.IsUndefined(stats.Significance(3, 0, stats.ZeroAsUndefined)), ShouldBeTrue)
		})
	})

	Convey("Given an undefined combined uncertainty", t, func() {
		So(stats.IsUndefined(stats.Significance(1, math.NaN(), stats.ZeroAsZero)), ShouldBeTrue)
	})
}

func TestExceedsThreshold(t *testing.T) {
	Convey("Given values around a threshold", t, func() {
		So(stats.ExceedsThreshold(3.01, 3), ShouldBeTrue)
		So(stats.ExceedsThreshold(3, 3), ShouldBeFalse)
		So(stats.ExceedsThreshold(math.NaN(), 0), ShouldBeFalse)
		So(stats.ExceedsThreshold(math.Inf(1), 3), ShouldBeTrue)
	})
}

func TestDifference(t *testing.T) {
	Convey("Given two totals", t, func() {
		So(stats.Difference(3, 5), ShouldEqual, 2.0)
		So(stats.Difference(5, 3), ShouldEqual, 2.0)
	})
}

func TestParseZeroPolicy(t *testing.T) {
	Convey("Given policy names", t, func() {
		for name, want := range map[string]stats.ZeroPolicy{
			"":          stats.ZeroAsUndefined,
			"undefined": stats.ZeroAsUndefined,
			"zero":      stats.ZeroAsZero,
			"infinity":  stats.ZeroAsInfinity,
		} {
			got, err := stats.ParseZeroPolicy(name)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
		_, err := stats.ParseZeroPolicy("nan")
		So(errors.Is(err, stats.ErrUnknownOption), ShouldBeTrue)
		So(stats.ZeroAsInfinity.String(), ShouldEqual, "infinity")
	})
}
