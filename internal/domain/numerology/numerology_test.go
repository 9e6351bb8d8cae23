package numerology_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/syncsix/internal/domain/numerology"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGematria(t *testing.T) {
	Convey("Given the gematria reducer", t, func() {
		Convey("When the input is empty", func() {
			So(numerology.Gematria(""), ShouldEqual, 0)
		})

		Convey("When the input is a single letter", func() {
			So(numerology.Gematria("a"), ShouldEqual, 1)
			So(numerology.Gematria("i"), ShouldEqual, 9)
			So(numerology.Gematria("j"), ShouldEqual, 1)
			So(numerology.Gematria("r"), ShouldEqual, 9)
			So(numerology.Gematria("s"), ShouldEqual, 1)
			So(numerology.Gematria("Z"), ShouldEqual, 8)
		})

		Convey("When case differs", func() {
			So(numerology.Gematria("Jj"), ShouldEqual, 2)
			So(numerology.Gematria("TOM BRADY"), ShouldEqual, numerology.Gematria("tom brady"))
		})

		Convey("When non-letters are present they are ignored", func() {
			So(numerology.Gematria("a1b"), ShouldEqual, numerology.Gematria("ab"))
			So(numerology.Gematria("O'Neil-Jr."), ShouldEqual, numerology.Gematria("oneiljr"))
			So(numerology.Gematria("12 34 !?"), ShouldEqual, 0)
		})

		Convey("When reducing a full name", func() {
			// tom = 2+6+4, brady = 2+9+1+4+7
			So(numerology.Gematria("Tom Brady"), ShouldEqual, 35)
		})
	})
}

func TestSyncSix(t *testing.T) {
	Convey("Given a calendar date", t, func() {
		Convey("When it is 2025-10-26", func() {
			d := time.Date(2025, time.October, 26, 10, 0, 0, 0, time.UTC)
			fp := numerology.SyncSix(d)

			Convey("Then the fingerprint matches the plain sums", func() {
				So(fp, ShouldResemble, numerology.Fingerprint{2061, 61, 36, 2035, 2051, 26})
				So(fp.Day(), ShouldEqual, 26)
				So(fp.Slice(), ShouldResemble, []int{2061, 61, 36, 2035, 2051, 26})
			})
		})

		Convey("When the date carries its own offset", func() {
			loc := time.FixedZone("EST", -5*3600)
			d := time.Date(2025, time.October, 26, 23, 30, 0, 0, loc)

			Convey("Then the civil fields of that offset are used", func() {
				So(numerology.SyncSix(d).Day(), ShouldEqual, 26)
				So(numerology.SyncSix(d.UTC()).Day(), ShouldEqual, 27)
			})
		})

		Convey("Then index 5 is the day of month for every day of a year", func() {
			start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			for d := start; d.Year() == 2024; d = d.AddDate(0, 0, 1) {
				fp := numerology.SyncSix(d)
				So(fp[numerology.RawDay], ShouldEqual, d.Day())
				So(fp[numerology.LifePath], ShouldEqual, int(d.Month())+d.Day())
			}
		})
	})
}

func TestFingerprintQueries(t *testing.T) {
	Convey("Given a fingerprint", t, func() {
		fp := numerology.Fingerprint{2061, 61, 36, 2035, 2051, 26}
		n := 26

		So(fp.Contains(61), ShouldBeTrue)
		So(fp.Contains(12), ShouldBeFalse)
		So(fp.ContainsPtr(&n), ShouldBeTrue)
		So(fp.ContainsPtr(nil), ShouldBeFalse)
		So(fp.AnyPrime(), ShouldBeTrue) // 61

		Convey("When no value is prime", func() {
			So(numerology.Fingerprint{4, 6, 8, 9, 10, 12}.AnyPrime(), ShouldBeFalse)
		})
	})
}

func TestIsPrime(t *testing.T) {
	Convey("Given the primality test", t, func() {
		So(numerology.IsPrime(2), ShouldBeTrue)
		So(numerology.IsPrime(1), ShouldBeFalse)
		So(numerology.IsPrime(0), ShouldBeFalse)
		So(numerology.IsPrime(-7), ShouldBeFalse)
		So(numerology.IsPrime(9), ShouldBeFalse)
		So(numerology.IsPrime(17), ShouldBeTrue)
		So(numerology.IsPrime(25), ShouldBeFalse)
		So(numerology.IsPrime(97), ShouldBeTrue)

		Convey("When the value is near the top of the int range", func() {
			So(numerology.IsPrime(2147483647), ShouldBeTrue)
			So(numerology.IsPrime(math.MaxInt64), ShouldBeFalse)
			So(numerology.IsPrime(math.MaxInt64-1), ShouldBeFalse)
		})

		Convey("When the value is optional", func() {
			p := 13
			So(numerology.IsPrimePtr(&p), ShouldBeTrue)
			So(numerology.IsPrimePtr(nil), ShouldBeFalse)
		})
	})
}
