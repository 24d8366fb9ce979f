// internal/game/types.go
//
// Core type definitions for the quiz engine.
// Defines:
//   - Difficulty: question tier with its base point value.
//   - Choice: which side of the pair the player picked.
//   - Question: one real-vs-fake comparison, game ready.
//   - Answer / Result: per-question and end-of-game outcomes.

package game

import "time"

// Difficulty is the tier a question was drawn from.
type Difficulty string

const (
	SuperEasy Difficulty = "Super Easy"
	Easy      Difficulty = "Easy"
	Medium    Difficulty = "Medium"
	Hard      Difficulty = "Hard"
)

// BasePoints returns the points a correct answer is worth before any
// streak bonus.
func (d Difficulty) BasePoints() int {
	switch d {
	case SuperEasy:
		return 5
	case Easy:
		return 10
	case Medium:
		return 15
	case Hard:
		return 20
	}
	return 10
}

// Choice identifies the image slot the player selected.
type Choice string

const (
	ChoiceLeft  Choice = "left"
	ChoiceRight Choice = "right"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusOver   Status = "over"
)

// Question is a single real-vs-fake comparison. RealIsLeft is decided once
// at creation time and never mutated; it must not be sent to clients.
type Question struct {
	ID         string     `json:"id"`
	RealImage  string     `json:"realImage"`
	FakeImage  string     `json:"fakeImage"`
	Difficulty Difficulty `json:"difficulty"`
	Points     int        `json:"points"`
	Title      string     `json:"title"`
	RealIsLeft bool       `json:"-"`
}

// Answer is the immediate outcome of one submitted answer.
type Answer struct {
	Correct      bool `json:"correct"`
	PointsEarned int  `json:"pointsEarned"`
}

// Result is the terminal summary of a finished session.
type Result struct {
	FinalScore     int       `json:"finalScore"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Accuracy       float64   `json:"accuracy"`
	CompletedAt    time.Time `json:"completedAt"`
}
