package model_test

import (
	"testing"

	model "github.com/okian/pionscan/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestBatchCounts(t *testing.T) {
	convey.Convey("Given batch counts", t, func() {
		convey.Convey("When both classes are zero", func() {
			convey.So(model.BatchCounts{}.Empty(), convey.ShouldBeTrue)
		})

		convey.Convey("When only one class was seen", func() {
			convey.So(model.BatchCounts{Negative: 1}.Empty(), convey.ShouldBeFalse)
			convey.So(model.BatchCounts{Positive: 1}.Empty(), convey.ShouldBeFalse)
		})
	})
}

func TestRunSummary_BatchTotals(t *testing.T) {
	convey.Convey("Given a run summary with sealed batches", t, func() {
		s := model.RunSummary{
			TotalPositive: 7,
			TotalNegative: 5,
			Batches: []model.BatchCounts{
				{Positive: 3, Negative: 2},
				{Positive: 4, Negative: 3},
			},
		}

		convey.Convey("Then the batch sums match the totals", func() {
			totals := s.BatchTotals()
			convey.So(totals.Positive, convey.ShouldEqual, s.TotalPositive)
			convey.So(totals.Negative, convey.ShouldEqual, s.TotalNegative)
		})

		convey.Convey("When there are no batches", func() {
			empty := model.RunSummary{}

			convey.Convey("Then the totals are zero", func() {
				convey.So(empty.BatchTotals(), convey.ShouldResemble, model.BatchCounts{})
			})
		})
	})
}
