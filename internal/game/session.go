// internal/game/session.go
//
// State machine for a single quiz play-through.
// Responsibilities:
//   - Sequence questions with a per-question countdown.
//   - Apply answer/timeout transitions: score, streak, lives.
//   - Terminate into an immutable Result when lives or questions run out.
//
// Notes:
//   - One logical actor drives a session; there is no internal locking.
//   - Exactly one of SubmitAnswer/OnTimeout succeeds per question; the
//     session then waits in a result-display phase until Advance.
//   - The clock is injected so timeout rules are testable; the core never
//     runs timers itself.
package game

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput reports malformed construction arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState reports a transition attempted outside its valid state,
	// such as answering a finished session or double-answering a question.
	ErrInvalidState = errors.New("invalid state")
)

const (
	// DefaultLives is the number of misses a player survives.
	DefaultLives = 3
	// DefaultQuestionSeconds is the per-question countdown.
	DefaultQuestionSeconds = 30
	// streakBonus is the extra points per consecutive correct answer.
	streakBonus = 5
)

// Clock supplies the current time; nil means time.Now.
type Clock func() time.Time

// Session tracks one play-through. Create with New; mutate only through
// SubmitAnswer, OnTimeout, and Advance.
type Session struct {
	ID string

	questions     []Question
	current       int
	score         int
	lives         int
	streak        int
	bestStreak    int
	correctCount  int
	answeredCount int
	status        Status

	// awaiting is the per-question transition guard: true while the current
	// question still accepts exactly one of SubmitAnswer/OnTimeout.
	awaiting    bool
	deadline    time.Time
	perQuestion time.Duration
	clock       Clock

	result *Result
}

// New constructs an active session over questions and arms the countdown
// for the first one. Fails with ErrInvalidInput on an empty question list
// or non-positive livesMax/perQuestionSeconds.
func New(questions []Question, livesMax, perQuestionSeconds int, clock Clock) (*Session, error) {
	if len(questions) == 0 || livesMax <= 0 || perQuestionSeconds <= 0 {
		return nil, ErrInvalidInput
	}
	if clock == nil {
		clock = time.Now
	}
	s := &Session{
		ID:          uuid.NewString(),
		questions:   questions,
		lives:       livesMax,
		status:      StatusActive,
		perQuestion: time.Duration(perQuestionSeconds) * time.Second,
		clock:       clock,
	}
	s.arm()
	return s, nil
}

// SubmitAnswer applies the player's choice to the current question.
// Correct answers earn base points plus the streak bonus computed from the
// streak value before the increment. A wrong answer costs a life and resets
// the streak. Valid only while the session is active and the current
// question has not already been answered or timed out.
func (s *Session) SubmitAnswer(choice Choice) (Answer, error) {
	if s.status != StatusActive || !s.awaiting {
		return Answer{}, ErrInvalidState
	}
	q := s.questions[s.current]
	correct := (choice == ChoiceLeft) == q.RealIsLeft

	s.awaiting = false
	s.answeredCount++

	var earned int
	if correct {
		earned = q.Points + s.streak*streakBonus
		s.score += earned
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
		s.correctCount++
	} else {
		s.lives--
		s.streak = 0
	}

	if s.lives == 0 {
		s.finish()
	}
	return Answer{Correct: correct, PointsEarned: earned}, nil
}

// OnTimeout records that the countdown for the current question expired
// with no answer. It counts as a wrong answer worth zero points. A timer
// firing before the armed deadline, after an answer was already taken, or
// against a finished session gets ErrInvalidState and changes nothing.
func (s *Session) OnTimeout() error {
	if s.status != StatusActive || !s.awaiting {
		return ErrInvalidState
	}
	if s.clock().Before(s.deadline) {
		return ErrInvalidState
	}

	s.awaiting = false
	s.answeredCount++
	s.lives--
	s.streak = 0

	if s.lives == 0 {
		s.finish()
	}
	return nil
}

// Advance leaves the result-display phase: the next question is armed, or
// the session ends when none remain. Valid only after a successful
// SubmitAnswer/OnTimeout that did not already end the session.
func (s *Session) Advance() error {
	if s.status != StatusActive || s.awaiting {
		return ErrInvalidState
	}
	if s.current+1 >= len(s.questions) {
		s.finish()
		return nil
	}
	s.current++
	s.arm()
	return nil
}

// arm readies the current question for exactly one transition.
func (s *Session) arm() {
	s.awaiting = true
	s.deadline = s.clock().Add(s.perQuestion)
}

// finish transitions to Over and snapshots the result exactly once.
func (s *Session) finish() {
	s.status = StatusOver
	s.awaiting = false

	accuracy := 0.0
	if s.answeredCount > 0 {
		accuracy = math.Round(float64(s.correctCount)/float64(s.answeredCount)*100*100) / 100
	}
	s.result = &Result{
		FinalScore:     s.score,
		TotalQuestions: s.answeredCount,
		CorrectAnswers: s.correctCount,
		Accuracy:       accuracy,
		CompletedAt:    s.clock(),
	}
}

// Result returns the terminal summary; ErrInvalidState until the session
// is over.
func (s *Session) Result() (Result, error) {
	if s.status != StatusOver || s.result == nil {
		return Result{}, ErrInvalidState
	}
	return *s.result, nil
}

// Status reports the session lifecycle state.
func (s *Session) Status() Status { return s.status }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Streak returns the current run of consecutive correct answers.
func (s *Session) Streak() int { return s.streak }

// BestStreak returns the longest streak reached in this session.
func (s *Session) BestStreak() int { return s.bestStreak }

// CurrentIndex returns the zero-based index of the current question.
func (s *Session) CurrentIndex() int { return s.current }

// CurrentQuestion returns the question in play; ok is false once the
// session is over.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.status != StatusActive {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// Questions returns a copy of the full question sequence.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Deadline returns when the current question times out.
func (s *Session) Deadline() time.Time { return s.deadline }
