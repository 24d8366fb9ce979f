package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"extension stripped", "starry-night.jpg", "starry night"},
		{"underscores and case", "Starry_Night_AI.jpg", "starry night ai"},
		{"collapsed whitespace", "the  potato___eaters.png", "the potato eaters"},
		{"no extension", "sunflowers", "sunflowers"},
		{"dotfile keeps name", ".hidden", ".hidden"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "starry night", "starry night", 1},
		{"both empty", "", "", 1},
		{"one empty", "abc", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"single edit", "abcd", "abce", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	for _, s := range []string{"", "a", "starry night", "wheatfield with crows 07"} {
		if got := Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"starry night", "starry night ai"},
		{"sunflowers", "irises"},
		{"", "olive trees"},
	}
	for _, p := range pairs {
		if Similarity(p[0], p[1]) != Similarity(p[1], p[0]) {
			t.Errorf("Similarity not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestMatchPairsStarryNight(t *testing.T) {
	pairs := MatchPairs(
		[]NamedItem{{Name: "starry-night.jpg"}},
		[]NamedItem{{Name: "Starry_Night_AI.jpg"}},
		DefaultThreshold,
	)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Confidence < 0.6 {
		t.Errorf("confidence = %v, want >= 0.6", pairs[0].Confidence)
	}
}

func TestMatchPairsConsumesEachItemOnce(t *testing.T) {
	realItems := []NamedItem{
		{Name: "starry-night.jpg"},
		{Name: "starry-night-2.jpg"},
		{Name: "sunflowers.jpg"},
	}
	candidates := []NamedItem{
		{Name: "starry-night-ai.jpg"},
		{Name: "sunflowers-ai.jpg"},
	}

	pairs := MatchPairs(realItems, candidates, DefaultThreshold)

	seen := map[string]int{}
	for _, p := range pairs {
		seen[p.Real.Name]++
		seen[p.Fake.Name]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("item %q used %d times, want at most once", name, n)
		}
	}
}

func TestMatchPairsEmptyInputs(t *testing.T) {
	items := []NamedItem{{Name: "starry-night.jpg"}}
	if got := MatchPairs(nil, items, DefaultThreshold); len(got) != 0 {
		t.Errorf("empty real set: got %d pairs, want 0", len(got))
	}
	if got := MatchPairs(items, nil, DefaultThreshold); len(got) != 0 {
		t.Errorf("empty candidate set: got %d pairs, want 0", len(got))
	}
}

func TestMatchPairsDeterministic(t *testing.T) {
	realItems := []NamedItem{
		{Name: "wheatfield-with-crows.jpg"},
		{Name: "the-potato-eaters.jpg"},
		{Name: "irises.jpg"},
	}
	candidates := []NamedItem{
		{Name: "irises_ai.jpg"},
		{Name: "wheatfield_with_crows_ai.jpg"},
		{Name: "potato-eaters-ai.jpg"},
	}

	first := MatchPairs(realItems, candidates, DefaultThreshold)
	for i := 0; i < 5; i++ {
		if again := MatchPairs(realItems, candidates, DefaultThreshold); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestMatchPairsThresholdMonotonic(t *testing.T) {
	realItems := []NamedItem{
		{Name: "starry-night.jpg"},
		{Name: "sunflowers.jpg"},
		{Name: "bedroom-in-arles.jpg"},
	}
	candidates := []NamedItem{
		{Name: "starry-night-ai.jpg"},
		{Name: "sunflower_ai.jpg"},
		{Name: "olive-trees-ai.jpg"},
	}

	prev := len(MatchPairs(realItems, candidates, 0))
	for _, th := range []float64{0.2, 0.4, 0.6, 0.8, 0.95} {
		n := len(MatchPairs(realItems, candidates, th))
		if n > prev {
			t.Errorf("threshold %v produced %d pairs, more than %d at lower threshold", th, n, prev)
		}
		prev = n
	}
}

func TestMatchPairsSortedByConfidence(t *testing.T) {
	realItems := []NamedItem{
		{Name: "bedroom-in-arles.jpg"},
		{Name: "starry-night.jpg"},
	}
	candidates := []NamedItem{
		{Name: "bedroom_arles_ai.jpg"},
		{Name: "starry-night-ai.jpg"},
	}

	pairs := MatchPairs(realItems, candidates, DefaultThreshold)
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Confidence > pairs[i-1].Confidence {
			t.Errorf("pairs not sorted by descending confidence at index %d", i)
		}
	}
}

func TestMatchPairsTieKeepsFirstCandidate(t *testing.T) {
	pairs := MatchPairs(
		[]NamedItem{{Name: "sunflowers.jpg"}},
		[]NamedItem{{Name: "sunflowers-a.jpg"}, {Name: "sunflowers-b.jpg"}},
		DefaultThreshold,
	)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].Fake.Name != "sunflowers-a.jpg" {
		t.Errorf("tie resolved to %q, want first candidate", pairs[0].Fake.Name)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"starry-night_AI.jpg", "Starry Night"},
		{"the_potato_eaters.png", "The Potato Eaters"},
		{"real-sunflowers.jpg", "Sunflowers"},
		{"generated wheatfield.jpg", "Wheatfield"},
	}
	for _, tt := range tests {
		if got := ExtractTitle(tt.in); got != tt.want {
			t.Errorf("ExtractTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"starry-night-AI.jpg", CategoryAI},
		{"generated-sunflowers.png", CategoryAI},
		{"vangogh-irises.jpg", CategoryReal},
		{"original_bedroom.jpg", CategoryReal},
		{"untitled-07.jpg", CategoryUnknown},
	}
	for _, tt := range tests {
		if got := Categorize(tt.in); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindDuplicates(t *testing.T) {
	dups := FindDuplicates([]string{"a.jpg", "b.jpg", "a.jpg", "c.jpg", "b.jpg", "a.jpg"})
	want := []string{"a.jpg", "b.jpg", "a.jpg"}
	if !reflect.DeepEqual(dups, want) {
		t.Errorf("FindDuplicates = %v, want %v", dups, want)
	}
	if got := FindDuplicates(nil); got != nil {
		t.Errorf("FindDuplicates(nil) = %v, want nil", got)
	}
}
