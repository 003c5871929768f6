package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/pionscan/internal/adapters/repository"
	"github.com/okian/pionscan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStore(repository.WithExpectedFiles(4))

		Convey("When outcomes arrive out of order", func() {
			So(s.PutResult(ctx, 2, model.FileResult{Path: "c"}), ShouldBeNil)
			So(s.PutFailure(ctx, 1, model.FileFailure{Path: "b", Err: errors.New("missing")}), ShouldBeNil)
			So(s.PutResult(ctx, 0, model.FileResult{Path: "a"}), ShouldBeNil)

			Convey("Then the snapshot follows input order", func() {
				results, failures := s.Snapshot(ctx)
				So(len(results), ShouldEqual, 2)
				So(results[0].Path, ShouldEqual, "a")
				So(results[1].Path, ShouldEqual, "c")
				So(len(failures), ShouldEqual, 1)
				So(failures[0].Path, ShouldEqual, "b")
				So(s.Count(ctx), ShouldEqual, 3)
			})
		})

		Convey("When an index is recorded twice", func() {
			So(s.PutResult(ctx, 0, model.FileResult{Path: "a"}), ShouldBeNil)
			err := s.PutFailure(ctx, 0, model.FileFailure{Path: "a"})
			So(errors.Is(err, repository.ErrDuplicateIndex), ShouldBeTrue)
		})

		Convey("When the index is negative", func() {
			err := s.PutResult(ctx, -1, model.FileResult{Path: "a"})
			So(errors.Is(err, repository.ErrInvalidIndex), ShouldBeTrue)
		})

		Convey("When written concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = s.PutResult(ctx, i, model.FileResult{Path: fmt.Sprintf("f%d", i)})
				}(i)
			}
			wg.Wait()

			Convey("Then nothing is lost", func() {
				results, failures := s.Snapshot(ctx)
				So(len(results), ShouldEqual, 50)
				So(failures, ShouldBeEmpty)
				So(results[49].Path, ShouldEqual, "f49")
			})
		})
	})
}
