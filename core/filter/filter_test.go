package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id, titre, description string
}

func fields(it item) []string { return []string{it.titre, it.description} }

type entry struct {
	name         string
	score, total float64
}

func (e entry) GetScore() float64         { return e.score }
func (e entry) GetTotalPossible() float64 { return e.total }

func TestSearch(t *testing.T) {
	items := []item{
		{id: "a", titre: "Atelier Flutter", description: "mobile"},
		{id: "b", titre: "Conférence", description: "Intro au Machine Learning"},
		{id: "c", titre: "Pause", description: ""},
		{id: "d", titre: "atelier Go", description: "backend"},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{name: "empty term", term: "", wantIDs: []string{"a", "b", "c", "d"}},
		{name: "blank term", term: "   ", wantIDs: []string{"a", "b", "c", "d"}},
		{name: "upper case", term: "ATELIER", wantIDs: []string{"a", "d"}},
		{name: "description match", term: "machine", wantIDs: []string{"b"}},
		{name: "or semantics", term: "back", wantIDs: []string{"d"}},
		{name: "title or description substring", term: "en", wantIDs: []string{"b", "d"}},
		{name: "no match", term: "lol", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(items, tt.term, fields)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.id)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSearch_pure(t *testing.T) {
	items := []item{{id: "a", titre: "Atelier"}, {id: "b", titre: "Pause"}}
	orig := append([]item(nil), items...)

	first := Search(items, "atelier", fields)
	second := Search(items, "atelier", fields)
	assert.Equal(t, first, second)
	assert.Equal(t, orig, items)

	all := Search(items, "", fields)
	all[0].titre = "changed"
	assert.Equal(t, "Atelier", items[0].titre, "empty search must return a copy")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		score, total float64
		want         Bucket
		wantOk       bool
	}{
		{name: "full score", score: 10, total: 10, want: Excellent, wantOk: true},
		{name: "above total", score: 12, total: 10, want: Excellent, wantOk: true},
		{name: "70 percent", score: 7, total: 10, want: Bon, wantOk: true},
		{name: "floor threshold bon", score: 9, total: 13, want: Bon, wantOk: true}, // floor(9.1) = 9
		{name: "50 percent", score: 5, total: 10, want: Moyen, wantOk: true},
		{name: "just below 50", score: 4, total: 10, want: Faible, wantOk: true},
		{name: "zero score", score: 0, total: 10, want: Faible, wantOk: true},
		{name: "zero total", score: 3, total: 0, wantOk: false},
		{name: "negative total", score: 3, total: -1, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.score, tt.total)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByBucket(t *testing.T) {
	t.Run("zero totals disable buckets", func(t *testing.T) {
		entries := []entry{{"a", 3, 0}, {"b", 0, 0}}
		for _, opt := range BucketOptions(entries) {
			assert.False(t, opt.Enabled, opt.Bucket)
		}
		for _, b := range Buckets {
			assert.Equal(t, entries, ByBucket(entries, b))
		}
	})

	t.Run("exactly one bucket per entry", func(t *testing.T) {
		entries := []entry{{"top", 10, 10}, {"good", 7, 10}, {"avg", 5, 10}, {"low", 1, 10}}
		assert.Equal(t, []entry{{"top", 10, 10}}, ByBucket(entries, Excellent))
		assert.Equal(t, []entry{{"good", 7, 10}}, ByBucket(entries, Bon))
		assert.Equal(t, []entry{{"avg", 5, 10}}, ByBucket(entries, Moyen))
		assert.Equal(t, []entry{{"low", 1, 10}}, ByBucket(entries, Faible))

		for _, opt := range BucketOptions(entries) {
			assert.True(t, opt.Enabled)
			assert.Equal(t, 1, opt.Count, opt.Bucket)
		}
	})
}

func TestParseBucket(t *testing.T) {
	b, ok := ParseBucket(" BON ")
	assert.True(t, ok)
	assert.Equal(t, Bon, b)

	_, ok = ParseBucket("parfait")
	assert.False(t, ok)
}

func TestRank(t *testing.T) {
	entries := []entry{{"a", 9, 10}, {"b", 9, 10}, {"c", 4, 10}}
	ranked := Rank(entries)
	assert.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, entries[i], r.Entry)
	}
}

func TestByBucket_ranked(t *testing.T) {
	ranked := Rank([]entry{{"top", 10, 10}, {"good", 7, 10}, {"low", 1, 10}})

	got := ByBucket(ranked, Bon)
	assert.Equal(t, []Ranked[entry]{{Rank: 2, Entry: entry{"good", 7, 10}}}, got, "ranks are kept")

	opts := BucketOptions(ranked)
	assert.True(t, opts[0].Enabled)
	assert.Equal(t, 1, opts[0].Count)

	plain := Rank([]string{"a", "b"})
	assert.Equal(t, plain, ByBucket(plain, Excellent), "entries without scores are never bucketed")
}
