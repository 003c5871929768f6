package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/okian/pionscan/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should be empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording paths", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the path is new", func() {
				So(d.SeenAndRecord(ctx, "data/set0.txt"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same file is spelled differently", func() {
				d.SeenAndRecord(ctx, "data/set0.txt")

				Convey("Then the cleaned path matches", func() {
					So(d.SeenAndRecord(ctx, "./data/../data/set0.txt"), ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When a custom normalizer is set", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithNormalizer(strings.ToLower))
			d.SeenAndRecord(ctx, "SET0.TXT")

			Convey("Then keys are compared through it", func() {
				So(d.SeenAndRecord(ctx, "set0.txt"), ShouldBeTrue)
			})
		})

		Convey("When recording concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					d.SeenAndRecord(ctx, fmt.Sprintf("f%d", i%5))
				}(i)
			}
			wg.Wait()

			Convey("Then each distinct key is counted once", func() {
				So(d.Size(), ShouldEqual, 5)
			})
		})
	})
}

func TestPaths(t *testing.T) {
	Convey("Given an input list with repeats", t, func() {
		in := []string{"a.txt", "b.txt", "./a.txt", "c.txt", "b.txt"}

		Convey("When split", func() {
			unique, dups := dedupe.Paths(context.Background(), dedupe.NewInMemoryDeduper(), in)

			Convey("Then first occurrences keep their order", func() {
				So(unique, ShouldResemble, []string{"a.txt", "b.txt", "c.txt"})
				So(dups, ShouldResemble, []string{"./a.txt", "b.txt"})
			})
		})
	})
}
