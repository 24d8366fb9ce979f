// internal/game/questions.go
//
// Question deck assembly: turns matched image pairs into a shuffled,
// difficulty-mixed question sequence. All randomness flows through Rand.

package game

import (
	"github.com/google/uuid"

	"github.com/sophie-zhou/Vangogh-game/internal/match"
)

// Tier couples a difficulty bucket with the pairs available for it.
type Tier struct {
	Difficulty Difficulty
	Pairs      []match.Pair
}

// deckShares is the fraction of a requested deck drawn from each tier when
// playing across all difficulties.
var deckShares = map[Difficulty]float64{
	SuperEasy: 0.2,
	Easy:      0.3,
	Medium:    0.3,
	Hard:      0.2,
}

// BuildQuestions assembles a question deck of roughly count questions from
// the given tiers. With multiple tiers each contributes its share of the
// deck; a single tier fills the whole count. Pairs are drawn without
// replacement, the real image lands on a uniformly random side, and the
// finished deck is shuffled. Tiers with too few pairs contribute what they
// have.
func BuildQuestions(tiers []Tier, count int, rng Rand) []Question {
	if count <= 0 || rng == nil {
		return nil
	}

	var deck []Question
	for _, t := range tiers {
		n := count
		if len(tiers) > 1 {
			n = int(float64(count) * deckShares[t.Difficulty])
		}
		avail := append([]match.Pair(nil), t.Pairs...)
		for i := 0; i < n && len(avail) > 0; i++ {
			j := int(rng.Float64() * float64(len(avail)))
			if j >= len(avail) {
				j = len(avail) - 1
			}
			deck = append(deck, questionFromPair(avail[j], t.Difficulty, rng))
			avail = append(avail[:j], avail[j+1:]...)
		}
	}

	shuffle(deck, rng)
	return deck
}

// questionFromPair builds one game-ready question. The left/right slot is
// fixed here and never changes afterward.
func questionFromPair(p match.Pair, d Difficulty, rng Rand) Question {
	return Question{
		ID:         uuid.NewString(),
		RealImage:  p.Real.URL,
		FakeImage:  p.Fake.URL,
		Difficulty: d,
		Points:     d.BasePoints(),
		Title:      match.ExtractTitle(p.Real.Name),
		RealIsLeft: rng.Float64() < 0.5,
	}
}

// shuffle is a Fisher-Yates pass driven by rng.
func shuffle(qs []Question, rng Rand) {
	for i := len(qs) - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		qs[i], qs[j] = qs[j], qs[i]
	}
}
