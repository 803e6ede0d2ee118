package domain

import (
	"math/rand"
	"sort"
)

// SampleAccidents draws a uniform sample of min(n, len(accidents)) records
// without replacement using a seeded PRNG. Selected records are returned in
// their original input order, so repeated runs over the same input emit
// byte-identical sample files.
func SampleAccidents(accidents []Accident, n int, seed int64) []Accident {
	if n <= 0 {
		return []Accident{}
	}
	if n >= len(accidents) {
		out := make([]Accident, len(accidents))
		copy(out, accidents)
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(len(accidents))[:n]
	sort.Ints(indices)

	out := make([]Accident, 0, n)
	for _, i := range indices {
		out = append(out, accidents[i])
	}
	return out
}
