// internal/httpserver/routes_game.go
//
// HTTP routes for the quiz game flow.
// Exposes endpoints under /game plus the public leaderboard:
//   - POST /game/start    → build a question deck and open a session
//   - POST /game/answer   → submit left/right for the current question
//   - POST /game/timeout  → report the countdown expiring
//   - POST /game/next     → advance to the next question
//   - GET  /game/result   → fetch the final summary of a finished game
//   - GET  /leaderboard   → top results (all/daily/weekly/monthly, per difficulty)
//
// Sessions are held in the in-memory store for active play and persisted
// to the DB when the game finishes. Which side shows the genuine painting
// is decided server-side and never sent to the client.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/sophie-zhou/Vangogh-game/internal/gallery"
	"github.com/sophie-zhou/Vangogh-game/internal/game"
	"github.com/sophie-zhou/Vangogh-game/internal/match"
	"github.com/sophie-zhou/Vangogh-game/internal/results"
	"github.com/sophie-zhou/Vangogh-game/internal/store"
)

// gameServer wraps dependencies for /game endpoints.
type gameServer struct {
	srv  *Server
	meta map[string]gameMeta // per-session request metadata keyed by session ID
	mu   sync.Mutex          // serializes session transitions; also guards meta
}

// gameMeta records what /game/start was asked for, needed again at persist time.
type gameMeta struct {
	difficulty string
	persisted  bool
}

// mountGame registers the /game routes and the public leaderboard.
func (s *Server) mountGame(r chi.Router) {
	gs := &gameServer{srv: s, meta: make(map[string]gameMeta)}
	r.Route("/game", func(r chi.Router) {
		r.Post("/start", gs.handleStart)
		r.Post("/answer", gs.handleAnswer)
		r.Post("/timeout", gs.handleTimeout)
		r.Post("/next", gs.handleNext)
		r.Get("/result", gs.handleResult)
	})
	r.Get("/leaderboard", gs.handleLeaderboard)
}

// ------------------------------- start -------------------------------------

type startReq struct {
	Difficulty string `json:"difficulty"` // "", "Super Easy", "Easy", "Medium", "Hard"
	Questions  int    `json:"questions"`  // 0 → default 10
}

// questionView is the client-safe projection of a question: two image URLs
// in presentation order, with no hint of which one is genuine.
type questionView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Points     int    `json:"points"`
	LeftImage  string `json:"leftImage"`
	RightImage string `json:"rightImage"`
}

func viewOf(q game.Question) questionView {
	v := questionView{
		ID:         q.ID,
		Title:      q.Title,
		Difficulty: string(q.Difficulty),
		Points:     q.Points,
	}
	if q.RealIsLeft {
		v.LeftImage, v.RightImage = q.RealImage, q.FakeImage
	} else {
		v.LeftImage, v.RightImage = q.FakeImage, q.RealImage
	}
	return v
}

// handleStart builds a question deck from the gallery and opens a session.
// With no difficulty the deck mixes all tiers; with one, only that tier is drawn.
func (gs *gameServer) handleStart(w http.ResponseWriter, r *http.Request) {
	var body startReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	count := body.Questions
	if count <= 0 {
		count = 10
	}
	if count > 50 {
		http.Error(w, `{"error":"too many questions"}`, http.StatusBadRequest)
		return
	}

	tiers, err := buildTiers(body.Difficulty)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	questions := game.BuildQuestions(tiers, count, gs.srv.rng)
	if len(questions) == 0 {
		http.Error(w, `{"error":"no playable pairs"}`, http.StatusInternalServerError)
		return
	}

	sess, err := game.New(questions, game.DefaultLives, game.DefaultQuestionSeconds, nil)
	if err != nil {
		http.Error(w, `{"error":"session_failed"}`, http.StatusInternalServerError)
		return
	}
	if err := gs.srv.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
		return
	}
	gs.mu.Lock()
	gs.meta[sess.ID] = gameMeta{difficulty: body.Difficulty}
	gs.mu.Unlock()

	// Guests get an anon cookie so a finished game can later be claimed.
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me == nil {
		gs.srv.ensureAnonID(w, r)
	}

	q, _ := sess.CurrentQuestion()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"sessionId":      sess.ID,
		"totalQuestions": len(questions),
		"lives":          sess.Lives(),
		"secondsPerQ":    game.DefaultQuestionSeconds,
		"question":       viewOf(q),
	})
}

// buildTiers pairs gallery listings into playable tiers via filename matching.
// An empty difficulty yields the full mix.
func buildTiers(difficulty string) ([]game.Tier, error) {
	real := gallery.Real()
	wanted := []game.Difficulty{game.SuperEasy, game.Easy, game.Medium, game.Hard}
	if difficulty != "" {
		d := game.Difficulty(difficulty)
		switch d {
		case game.SuperEasy, game.Easy, game.Medium, game.Hard:
		default:
			return nil, errors.New("unknown difficulty")
		}
		wanted = []game.Difficulty{d}
	}
	var tiers []game.Tier
	for _, d := range wanted {
		pairs := match.MatchPairs(real, gallery.ForDifficulty(d), match.DefaultThreshold)
		if len(pairs) == 0 {
			continue
		}
		tiers = append(tiers, game.Tier{Difficulty: d, Pairs: pairs})
	}
	if len(tiers) == 0 {
		return nil, errors.New("no playable pairs")
	}
	return tiers, nil
}

// ------------------------------ answer/timeout -----------------------------

type answerReq struct {
	SessionID string `json:"sessionId"`
	Choice    string `json:"choice"` // "left" | "right"
}

// handleAnswer scores the current question, returning the outcome and whether
// the chosen side actually held the genuine painting.
func (gs *gameServer) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var body answerReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	choice := game.Choice(body.Choice)
	if choice != game.ChoiceLeft && choice != game.ChoiceRight {
		http.Error(w, `{"error":"choice must be left or right"}`, http.StatusBadRequest)
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	sess, ok := gs.loadSession(w, r, body.SessionID)
	if !ok {
		return
	}
	ans, err := sess.SubmitAnswer(choice)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	_ = gs.srv.store.Save(r.Context(), sess)
	gs.maybePersist(r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"correct":      ans.Correct,
		"pointsEarned": ans.PointsEarned,
		"score":        sess.Score(),
		"lives":        sess.Lives(),
		"streak":       sess.Streak(),
		"gameOver":     sess.Status() == game.StatusOver,
	})
}

type timeoutReq struct {
	SessionID string `json:"sessionId"`
}

// handleTimeout reports the countdown expiring; scored as a miss.
func (gs *gameServer) handleTimeout(w http.ResponseWriter, r *http.Request) {
	var body timeoutReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	sess, ok := gs.loadSession(w, r, body.SessionID)
	if !ok {
		return
	}
	if err := sess.OnTimeout(); err != nil {
		writeGameErr(w, err)
		return
	}
	_ = gs.srv.store.Save(r.Context(), sess)
	gs.maybePersist(r, sess)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"correct":      false,
		"pointsEarned": 0,
		"score":        sess.Score(),
		"lives":        sess.Lives(),
		"streak":       sess.Streak(),
		"gameOver":     sess.Status() == game.StatusOver,
	})
}

// handleNext advances past the result display to the following question.
func (gs *gameServer) handleNext(w http.ResponseWriter, r *http.Request) {
	var body timeoutReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()
	sess, ok := gs.loadSession(w, r, body.SessionID)
	if !ok {
		return
	}
	if err := sess.Advance(); err != nil {
		writeGameErr(w, err)
		return
	}
	_ = gs.srv.store.Save(r.Context(), sess)
	gs.maybePersist(r, sess)
	if sess.Status() == game.StatusOver {
		_ = json.NewEncoder(w).Encode(map[string]any{"gameOver": true})
		return
	}
	q, _ := sess.CurrentQuestion()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"gameOver":      false,
		"questionIndex": sess.CurrentIndex(),
		"question":      viewOf(q),
	})
}

// ------------------------------- result ------------------------------------

// handleResult returns the final summary; the session is dropped afterwards.
func (gs *gameServer) handleResult(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	gs.mu.Lock()
	defer gs.mu.Unlock()
	sess, ok := gs.loadSession(w, r, id)
	if !ok {
		return
	}
	res, err := sess.Result()
	if err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"finalScore":     res.FinalScore,
		"totalQuestions": res.TotalQuestions,
		"correctAnswers": res.CorrectAnswers,
		"accuracy":       res.Accuracy,
		"bestStreak":     sess.BestStreak(),
		"completedAt":    res.CompletedAt,
	})
	// Game is done and delivered; free the session.
	gs.srv.store.Delete(r.Context(), sess.ID)
	delete(gs.meta, sess.ID)
}

// ----------------------------- persistence ---------------------------------

// maybePersist writes the result to the DB exactly once when a game finishes.
// Best-effort: failures are logged, the player still gets their summary.
// Callers hold gs.mu.
func (gs *gameServer) maybePersist(r *http.Request, sess *game.Session) {
	if sess.Status() != game.StatusOver {
		return
	}
	m := gs.meta[sess.ID]
	if m.persisted {
		return
	}
	m.persisted = true
	gs.meta[sess.ID] = m

	res, err := sess.Result()
	if err != nil {
		return
	}
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	rec := results.Result{
		ID:             sess.ID,
		Difficulty:     m.difficulty,
		FinalScore:     res.FinalScore,
		TotalQuestions: res.TotalQuestions,
		CorrectAnswers: res.CorrectAnswers,
		Accuracy:       res.Accuracy,
		CompletedAt:    res.CompletedAt,
	}
	if me != nil {
		rec.UserID = me.ID
	} else if c, err := r.Cookie(anonCookieName); err == nil {
		rec.AnonymousID = c.Value
	}

	ctx := context.Background() // persistence outlives the request
	if err := gs.srv.results.Insert(ctx, rec); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("persist game result")
		return
	}
	if me != nil {
		tx, err := gs.srv.db.BeginTx(ctx, nil)
		if err != nil {
			log.Warn().Err(err).Msg("begin stats tx")
			return
		}
		if err := gs.srv.bumpStats(tx, me.ID, res, sess.BestStreak()); err != nil {
			_ = tx.Rollback()
			log.Warn().Err(err).Str("user", me.ID).Msg("update user stats")
			return
		}
		if err := tx.Commit(); err != nil {
			log.Warn().Err(err).Msg("commit stats tx")
		}
	}
}

// ----------------------------- leaderboard ---------------------------------

// handleLeaderboard returns top finished games for a time frame and optional
// difficulty filter. Query params: timeFrame=all|daily|weekly|monthly
// (frame accepted as an alias), difficulty=<tier>, limit=<n> (default 20,
// max 100).
func (gs *gameServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	frame := r.URL.Query().Get("timeFrame")
	if frame == "" {
		frame = r.URL.Query().Get("frame")
	}
	if frame == "" {
		frame = results.FrameAll
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	rows, err := gs.srv.results.Leaderboard(r.Context(), frame, r.URL.Query().Get("difficulty"), limit)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard query")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []results.LeaderboardRow{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"frame":   frame,
		"entries": rows,
	})
}

// ------------------------------- helpers -----------------------------------

// loadSession fetches a session by ID, writing the error response on failure.
func (gs *gameServer) loadSession(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	if id == "" {
		http.Error(w, `{"error":"sessionId required"}`, http.StatusBadRequest)
		return nil, false
	}
	sess, err := gs.srv.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		} else {
			http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
		}
		return nil, false
	}
	return sess, true
}

// writeGameErr maps engine errors to HTTP statuses.
func writeGameErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrInvalidState):
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
	default:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
