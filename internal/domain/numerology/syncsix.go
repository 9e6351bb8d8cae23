package numerology

import "time"

// FingerprintLen is the number of values in a date fingerprint.
const FingerprintLen = 6

// Fingerprint indices.
const (
	FullComponent    = iota // month + day + year
	PartialReduction        // month + day + two-digit year
	LifePath                // month + day
	SimplifiedComp          // month + year
	SimplifiedRoot          // day + year
	RawDay                  // day of month
)

// Fingerprint is the "sync six" of a calendar date.
type Fingerprint [FingerprintLen]int

// SyncSix derives the fingerprint from the civil fields of t in its own
// location. The sums are plain integer sums; nothing is digit-reduced.
func SyncSix(t time.Time) Fingerprint {
	y, mo, d := t.Date()
	m := int(mo)
	return Fingerprint{
		m + d + y,
		m + d + y%100,
		m + d,
		m + y,
		d + y,
		d,
	}
}

// Day returns the day-of-month entry.
func (f Fingerprint) Day() int { return f[RawDay] }

// Contains reports whether n is one of the fingerprint values.
func (f Fingerprint) Contains(n int) bool {
	for _, v := range f {
		if v == n {
			return true
		}
	}
	return false
}

// ContainsPtr is Contains for optional values; nil is never contained.
func (f Fingerprint) ContainsPtr(n *int) bool {
	return n != nil && f.Contains(*n)
}

// AnyPrime reports whether at least one value is prime.
func (f Fingerprint) AnyPrime() bool {
	for _, v := range f {
		if IsPrime(v) {
			return true
		}
	}
	return false
}

// Slice returns the values as a new slice.
func (f Fingerprint) Slice() []int {
	out := make([]int, FingerprintLen)
	copy(out, f[:])
	return out
}
