// internal/match/match.go
//
// Filename-based pairing of real paintings with their AI imitations.
// Responsibilities:
//   - Normalize filenames into comparable titles (extension, dashes, case).
//   - Score name similarity with a Levenshtein-derived ratio in [0,1].
//   - Propose 1:1 real/fake pairings above a confidence threshold.
//   - Classify and deduplicate raw upload batches for the import flow.
//
// Notes:
//   - Matching inspects names only; image content is never read.
//   - Everything here is pure: no I/O, no globals, safe for concurrent use.
//   - An empty result is a valid outcome, never an error.
package match

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity a candidate must exceed to be
// accepted as a pair. Source filenames share title substrings but differ in
// numbering and suffixes; 0.6 rejects unrelated short names while tolerating
// that noise.
const DefaultThreshold = 0.6

// NamedItem is one image reference from an external storage listing.
type NamedItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pair is a proposed (real, fake) match with a similarity confidence.
type Pair struct {
	Real       NamedItem `json:"real"`
	Fake       NamedItem `json:"fake"`
	Confidence float64   `json:"confidence"`
}

// MatchPairs proposes best-effort 1:1 pairings between real items and
// candidate fakes, using normalized filename similarity.
//
// Policy:
//   - Real items are considered in input order.
//   - For each, the unconsumed candidate with the strictly highest
//     similarity above threshold wins; ties keep the earliest candidate.
//   - Both sides of an accepted pair are consumed; unmatched items are
//     simply absent from the output.
//
// The result is sorted by descending confidence and is deterministic for
// identical inputs.
func MatchPairs(realItems, candidateItems []NamedItem, threshold float64) []Pair {
	if len(realItems) == 0 || len(candidateItems) == 0 {
		return nil
	}

	used := make([]bool, len(candidateItems))
	normalized := make([]string, len(candidateItems))
	for i, c := range candidateItems {
		normalized[i] = Normalize(c.Name)
	}

	pairs := make([]Pair, 0, len(realItems))
	for _, r := range realItems {
		rn := Normalize(r.Name)
		bestIdx := -1
		bestScore := threshold
		for i := range candidateItems {
			if used[i] {
				continue
			}
			if s := Similarity(rn, normalized[i]); s > bestScore {
				bestIdx, bestScore = i, s
			}
		}
		if bestIdx < 0 {
			continue
		}
		used[bestIdx] = true
		pairs = append(pairs, Pair{Real: r, Fake: candidateItems[bestIdx], Confidence: bestScore})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Confidence > pairs[j].Confidence })
	return pairs
}

// Similarity scores how close two strings are as
// (maxLen - levenshtein) / maxLen, clamped to [0,1].
// Two empty strings are a perfect match by definition.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	s := float64(longest-levenshtein(a, b)) / float64(longest)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// levenshtein computes edit distance over runes with a two-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j-1]+cost, curr[j-1]+1, prev[j]+1)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Normalize reduces a filename to its comparable form: extension stripped,
// dashes/underscores become spaces, whitespace collapsed, lowercased.
func Normalize(name string) string {
	name = stripExtension(name)
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// stripExtension removes a trailing ".ext" segment, if any.
func stripExtension(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// categoryWords are import-bucket markers that carry no title information.
var categoryWords = map[string]struct{}{
	"ai": {}, "generated": {}, "fake": {}, "real": {}, "original": {},
}

// ExtractTitle turns a filename into a display title: normalized, category
// markers dropped, words capitalized. "starry-night_AI.jpg" -> "Starry Night".
func ExtractTitle(name string) string {
	words := strings.Fields(Normalize(name))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := categoryWords[w]; skip {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}

// Category classifies an uploaded filename for the import flow.
type Category string

const (
	CategoryReal    Category = "real"
	CategoryAI      Category = "ai"
	CategoryUnknown Category = "unknown"
)

// aiMarkers / realMarkers are checked as substrings of the lowercased
// filename; AI markers win when both appear.
var (
	aiMarkers   = []string{"ai", "generated", "fake", "synthetic", "artificial"}
	realMarkers = []string{"real", "original", "authentic", "vangogh"}
)

// Categorize guesses whether a filename holds a real painting or an AI
// imitation, based on common naming markers.
func Categorize(filename string) Category {
	name := strings.ToLower(filename)
	for _, m := range aiMarkers {
		if strings.Contains(name, m) {
			return CategoryAI
		}
	}
	for _, m := range realMarkers {
		if strings.Contains(name, m) {
			return CategoryReal
		}
	}
	return CategoryUnknown
}

// FindDuplicates returns every name that repeats an earlier entry, in input
// order, one report per repeated occurrence.
func FindDuplicates(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var dups []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			dups = append(dups, n)
			continue
		}
		seen[n] = struct{}{}
	}
	return dups
}
