// Package filter derives display subsets from already loaded lists.
// Nothing in here mutates its input.
package filter

import (
	"math"
	"strings"

	"github.com/trezcool/hackadmin/core"
)

// Search returns the items for which at least one of the fields contains term,
// case-insensitively. Order is preserved. An empty (or blank) term returns a copy of items.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	term = core.CleanString(term, true /* lower */)
	if term == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Where returns the items matching keep, order preserved.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Bucket is a score category of the ranking page.
type Bucket string

const (
	Excellent Bucket = "excellent"
	Bon       Bucket = "bon"
	Moyen     Bucket = "moyen"
	Faible    Bucket = "faible"
)

// Buckets lists every bucket, best first.
var Buckets = []Bucket{Excellent, Bon, Moyen, Faible}

const (
	bonRatio   = 0.7
	moyenRatio = 0.5
)

func ParseBucket(s string) (Bucket, bool) {
	b := Bucket(core.CleanString(s, true /* lower */))
	for _, known := range Buckets {
		if b == known {
			return b, true
		}
	}
	return "", false
}

// Classify puts a score in its bucket. Thresholds are floor(total*ratio);
// there is no bucket when total is not positive.
func Classify(score, total float64) (Bucket, bool) {
	if total <= 0 {
		return "", false
	}
	switch {
	case score >= total:
		return Excellent, true
	case score >= math.Floor(total*bonRatio):
		return Bon, true
	case score >= math.Floor(total*moyenRatio):
		return Moyen, true
	default:
		return Faible, true
	}
}

// Scored is implemented by ranking entries.
type Scored interface {
	GetScore() float64
	GetTotalPossible() float64
}

// BucketOption is a selectable bucket of a ranking list.
type BucketOption struct {
	Bucket  Bucket
	Enabled bool
	Count   int
}

// BucketOptions flags every bucket as selectable only when at least one entry
// has a positive total.
func BucketOptions[T Scored](entries []T) []BucketOption {
	enabled := bucketsApplicable(entries)
	counts := make(map[Bucket]int, len(Buckets))
	for _, e := range entries {
		if b, ok := Classify(e.GetScore(), e.GetTotalPossible()); ok {
			counts[b]++
		}
	}
	opts := make([]BucketOption, 0, len(Buckets))
	for _, b := range Buckets {
		opts = append(opts, BucketOption{Bucket: b, Enabled: enabled, Count: counts[b]})
	}
	return opts
}

// ByBucket keeps the entries of bucket b. When buckets are not applicable to
// the list (no positive total), the list is returned unfiltered.
func ByBucket[T Scored](entries []T, b Bucket) []T {
	if !bucketsApplicable(entries) {
		out := make([]T, len(entries))
		copy(out, entries)
		return out
	}
	return Where(entries, func(e T) bool {
		got, ok := Classify(e.GetScore(), e.GetTotalPossible())
		return ok && got == b
	})
}

func bucketsApplicable[T Scored](entries []T) bool {
	for _, e := range entries {
		if e.GetTotalPossible() > 0 {
			return true
		}
	}
	return false
}

// Ranked is an entry with its display rank.
type Ranked[T any] struct {
	Rank  int `json:"rank" yaml:"rank"`
	Entry T   `json:"entry" yaml:"entry"`
}

// GetScore forwards to the entry, so ranked lists can be bucketed. Entries that
// are not Scored have no score.
func (r Ranked[T]) GetScore() float64 {
	if sc, ok := any(r.Entry).(Scored); ok {
		return sc.GetScore()
	}
	return 0
}

func (r Ranked[T]) GetTotalPossible() float64 {
	if sc, ok := any(r.Entry).(Scored); ok {
		return sc.GetTotalPossible()
	}
	return 0
}

// Rank assigns rank = position + 1. Entries are expected sorted by the server;
// equal scores get distinct consecutive ranks.
func Rank[T any](entries []T) []Ranked[T] {
	out := make([]Ranked[T], 0, len(entries))
	for i, e := range entries {
		out = append(out, Ranked[T]{Rank: i + 1, Entry: e})
	}
	return out
}
