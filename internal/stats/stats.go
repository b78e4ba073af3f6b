// Package stats computes the bucketed distributions shown on the chart
// page. Everything works on a team list already in memory; no queries.
package stats

import (
	"fmt"
	"sort"

	"cfsedit/internal/store"
	"cfsedit/internal/types"
)

// Bucket is one bar of a distribution.
type Bucket struct {
	Label string
	Count int
}

// wealthBounds are the upper bounds of the wealth buckets; the last bucket
// is open-ended.
var wealthBounds = []int64{1000, 5000, 10000, 50000}

var wealthLabels = []string{
	"0-1000", "1001-5000", "5001-10000", "10001-50000", "50001+",
}

// supporterBounds mirror wealthBounds for supporter counts.
var supporterBounds = []int64{10000, 50000, 100000, 500000}

var supporterLabels = []string{
	"0-10k", "10k-50k", "50k-100k", "100k-500k", "500k+",
}

func distribute(teams []types.Team, bounds []int64, labels []string, value func(types.Team) int64) []Bucket {
	buckets := make([]Bucket, len(labels))
	for i, l := range labels {
		buckets[i].Label = l
	}
	for _, t := range teams {
		v := value(t)
		i := sort.Search(len(bounds), func(i int) bool { return v <= bounds[i] })
		buckets[i].Count++
	}
	return buckets
}

// WealthDistribution buckets teams by wealth.
func WealthDistribution(teams []types.Team) []Bucket {
	return distribute(teams, wealthBounds, wealthLabels,
		func(t types.Team) int64 { return t.Wealth })
}

// SupporterDistribution buckets teams by supporter count.
func SupporterDistribution(teams []types.Team) []Bucket {
	return distribute(teams, supporterBounds, supporterLabels,
		func(t types.Team) int64 { return t.SupporterCount })
}

// ByLocation counts teams per location, largest first. Ties break on the
// label so output is stable.
func ByLocation(teams []types.Team) []Bucket {
	return countBy(teams, func(t types.Team) string { return t.Location })
}

// ByLeague counts teams per league, resolving identifiers through names.
func ByLeague(teams []types.Team, names map[int64]string) []Bucket {
	return countBy(teams, func(t types.Team) string {
		return store.LeagueName(names, t.LeagueID)
	})
}

// FoundingDecades counts teams per founding decade, oldest first.
func FoundingDecades(teams []types.Team) []Bucket {
	counts := make(map[int64]int)
	for _, t := range teams {
		counts[t.FoundYear/10*10]++
	}
	decades := make([]int64, 0, len(counts))
	for d := range counts {
		decades = append(decades, d)
	}
	sort.Slice(decades, func(i, j int) bool { return decades[i] < decades[j] })

	buckets := make([]Bucket, 0, len(decades))
	for _, d := range decades {
		buckets = append(buckets, Bucket{
			Label: fmt.Sprintf("%ds", d),
			Count: counts[d],
		})
	}
	return buckets
}

func countBy(teams []types.Team, key func(types.Team) string) []Bucket {
	counts := make(map[string]int)
	for _, t := range teams {
		counts[key(t)]++
	}
	buckets := make([]Bucket, 0, len(counts))
	for label, n := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

// Total sums the counts across the buckets.
func Total(buckets []Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

// Percent returns a bucket's share of the total, rounded to the nearest
// whole percent. Zero total gives zero.
func Percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return (count*100 + total/2) / total
}

// Max returns the largest count in the buckets, for scaling bars.
func Max(buckets []Bucket) int {
	max := 0
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	return max
}
