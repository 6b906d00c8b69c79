package util

import "github.com/sahilm/fuzzy"

// Match is a fuzzy hit against a list of document names.
type Match struct {
	Index int    // position in the searched slice
	Name  string // the matched name
	Score int
}

// FindNames returns up to n names matching query, best first. An empty query
// returns every name in its original order. n <= 0 means no limit.
func FindNames(query string, names []string, n int) []Match {
	var out []Match
	if query == "" {
		out = make([]Match, len(names))
		for i, name := range names {
			out[i] = Match{Index: i, Name: name}
		}
	} else {
		found := fuzzy.Find(query, names)
		out = make([]Match, len(found))
		for i, f := range found {
			out[i] = Match{Index: f.Index, Name: f.Str, Score: f.Score}
		}
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
