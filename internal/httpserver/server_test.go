package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sophie-zhou/Vangogh-game/internal/gallery"
	"github.com/sophie-zhou/Vangogh-game/internal/store"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE COLLATE NOCASE,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL,
    games_played INTEGER NOT NULL DEFAULT 0,
    total_points INTEGER NOT NULL DEFAULT 0,
    total_correct INTEGER NOT NULL DEFAULT 0,
    total_answered INTEGER NOT NULL DEFAULT 0,
    best_streak INTEGER NOT NULL DEFAULT 0,
    coins INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE game_results (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id),
    anonymous_id TEXT,
    difficulty TEXT NOT NULL DEFAULT '',
    final_score INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    correct_answers INTEGER NOT NULL,
    accuracy REAL NOT NULL,
    completed_at TEXT NOT NULL
);
CREATE TABLE island_items (
    user_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    item_type TEXT NOT NULL,
    name TEXT NOT NULL,
    x REAL NOT NULL, y REAL NOT NULL,
    width REAL NOT NULL, height REAL NOT NULL,
    rarity TEXT NOT NULL DEFAULT 'common'
);
CREATE TABLE shop_purchases (
    user_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    bought_at TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, item_id)
);
`

// fixedRand makes question order and image sides deterministic.
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	if err := gallery.Init(); err != nil {
		t.Fatalf("gallery.Init: %v", err)
	}
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	s := New(store.NewMemoryStore(), db)
	s.rng = fixedRand{v: 0.3} // genuine painting always on the left
	return s
}

// do issues a request against the router, replaying any cookies collected so far.
func do(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.r.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, out := do(t, s, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if out["ok"] != true {
		t.Fatalf("body = %v", out)
	}
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/game/start",
		map[string]any{"difficulty": "Easy", "questions": 2}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d body = %s", rec.Code, rec.Body.String())
	}
	sessionID, _ := out["sessionId"].(string)
	if sessionID == "" {
		t.Fatalf("missing sessionId: %v", out)
	}
	if out["totalQuestions"].(float64) != 2 {
		t.Fatalf("totalQuestions = %v", out["totalQuestions"])
	}
	q := out["question"].(map[string]any)
	if q["leftImage"] == "" || q["rightImage"] == "" {
		t.Fatalf("question missing images: %v", q)
	}
	if _, leaked := q["realIsLeft"]; leaked {
		t.Fatalf("question leaks answer side: %v", q)
	}

	// First answer: correct, base points, no streak bonus yet.
	rec, out = do(t, s, http.MethodPost, "/game/answer",
		map[string]any{"sessionId": sessionID, "choice": "left"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer status = %d body = %s", rec.Code, rec.Body.String())
	}
	if out["correct"] != true || out["pointsEarned"].(float64) != 10 {
		t.Fatalf("first answer = %v", out)
	}

	// Answering the same question again conflicts.
	rec, _ = do(t, s, http.MethodPost, "/game/answer",
		map[string]any{"sessionId": sessionID, "choice": "left"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double answer status = %d", rec.Code)
	}

	rec, out = do(t, s, http.MethodPost, "/game/next",
		map[string]any{"sessionId": sessionID}, nil)
	if rec.Code != http.StatusOK || out["gameOver"] != false {
		t.Fatalf("next = %d %v", rec.Code, out)
	}

	// Second correct answer carries the streak bonus.
	_, out = do(t, s, http.MethodPost, "/game/answer",
		map[string]any{"sessionId": sessionID, "choice": "left"}, nil)
	if out["pointsEarned"].(float64) != 15 || out["score"].(float64) != 25 {
		t.Fatalf("second answer = %v", out)
	}

	rec, out = do(t, s, http.MethodPost, "/game/next",
		map[string]any{"sessionId": sessionID}, nil)
	if rec.Code != http.StatusOK || out["gameOver"] != true {
		t.Fatalf("final next = %d %v", rec.Code, out)
	}

	rec, out = do(t, s, http.MethodGet, "/game/result?sessionId="+sessionID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d", rec.Code)
	}
	if out["finalScore"].(float64) != 25 || out["accuracy"].(float64) != 100 {
		t.Fatalf("result = %v", out)
	}

	// The session is gone once the summary was delivered.
	rec, _ = do(t, s, http.MethodGet, "/game/result?sessionId="+sessionID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("result after delete = %d", rec.Code)
	}

	// The finished game shows up on the leaderboard as Anonymous.
	rec, out = do(t, s, http.MethodGet, "/leaderboard?frame=all", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rec.Code)
	}
	entries := out["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("leaderboard entries = %v", entries)
	}
	top := entries[0].(map[string]any)
	if top["username"] != "Anonymous" || top["finalScore"].(float64) != 25 {
		t.Fatalf("top entry = %v", top)
	}
}

func TestWrongAnswerCostsLife(t *testing.T) {
	s := newTestServer(t)
	_, out := do(t, s, http.MethodPost, "/game/start",
		map[string]any{"difficulty": "Easy", "questions": 1}, nil)
	sessionID := out["sessionId"].(string)

	_, out = do(t, s, http.MethodPost, "/game/answer",
		map[string]any{"sessionId": sessionID, "choice": "right"}, nil)
	if out["correct"] != false || out["lives"].(float64) != 2 {
		t.Fatalf("wrong answer = %v", out)
	}
}

func TestStartRejectsUnknownDifficulty(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodPost, "/game/start",
		map[string]any{"difficulty": "Impossible"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSignupLoginAndStats(t *testing.T) {
	s := newTestServer(t)

	rec, out := do(t, s, http.MethodPost, "/auth/signup",
		map[string]any{"username": "vincent_1", "password": "painterpass"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup = %d %s", rec.Code, rec.Body.String())
	}
	if out["username"] != "vincent_1" {
		t.Fatalf("signup body = %v", out)
	}
	cookies := rec.Result().Cookies()

	rec, out = do(t, s, http.MethodGet, "/auth/me", nil, cookies)
	if rec.Code != http.StatusOK || out["username"] != "vincent_1" {
		t.Fatalf("me = %d %v", rec.Code, out)
	}

	rec, out = do(t, s, http.MethodGet, "/stats/me", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d", rec.Code)
	}
	if out["level"].(float64) != 1 || out["gamesPlayed"].(float64) != 0 {
		t.Fatalf("fresh stats = %v", out)
	}

	// Duplicate username is rejected.
	rec, _ = do(t, s, http.MethodPost, "/auth/signup",
		map[string]any{"username": "Vincent_1", "password": "painterpass"}, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", rec.Code)
	}

	// Wrong password is rejected.
	rec, _ = do(t, s, http.MethodPost, "/auth/login",
		map[string]any{"username": "vincent_1", "password": "wrongwrong"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", rec.Code)
	}

	rec, _ = do(t, s, http.MethodPost, "/auth/login",
		map[string]any{"username": "vincent_1", "password": "painterpass"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d", rec.Code)
	}
}

func TestShopAndIsland(t *testing.T) {
	s := newTestServer(t)

	// Gated without an account.
	rec, _ := do(t, s, http.MethodPost, "/shop/buy",
		map[string]any{"itemId": "golden-retriever"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated buy = %d", rec.Code)
	}

	rec, out := do(t, s, http.MethodPost, "/auth/signup",
		map[string]any{"username": "theo", "password": "dealerpass"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup = %d", rec.Code)
	}
	userID := out["id"].(string)
	cookies := rec.Result().Cookies()

	// Broke players cannot buy.
	rec, _ = do(t, s, http.MethodPost, "/shop/buy",
		map[string]any{"itemId": "golden-retriever"}, cookies)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("broke buy = %d", rec.Code)
	}

	if _, err := s.db.Exec(`UPDATE users SET coins=100 WHERE id=?`, userID); err != nil {
		t.Fatalf("grant coins: %v", err)
	}

	rec, out = do(t, s, http.MethodPost, "/shop/buy",
		map[string]any{"itemId": "golden-retriever"}, cookies)
	if rec.Code != http.StatusOK || out["coins"].(float64) != 50 {
		t.Fatalf("buy = %d %v", rec.Code, out)
	}

	// Buying twice conflicts.
	rec, _ = do(t, s, http.MethodPost, "/shop/buy",
		map[string]any{"itemId": "golden-retriever"}, cookies)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-buy = %d", rec.Code)
	}

	// Catalog shows the purchase and remaining coins.
	rec, out = do(t, s, http.MethodGet, "/shop/catalog", nil, cookies)
	if rec.Code != http.StatusOK || out["coins"].(float64) != 50 {
		t.Fatalf("catalog = %d %v", rec.Code, out)
	}

	// Place the owned item on the island.
	item := map[string]any{
		"id": "golden-retriever", "type": "animal", "name": "Golden Retriever",
		"x": 50.0, "y": 50.0, "width": 8.0, "height": 8.0, "rarity": "common",
	}
	rec, out = do(t, s, http.MethodPut, "/island/",
		map[string]any{"items": []any{item}}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("island put = %d %s", rec.Code, rec.Body.String())
	}
	if out["score"].(float64) <= 0 {
		t.Fatalf("island score = %v", out)
	}

	// Items not owned are rejected.
	stolen := map[string]any{
		"id": "van-gogh-cafe", "type": "building", "name": "Van Gogh Cafe",
		"x": 60.0, "y": 50.0, "width": 10.0, "height": 10.0, "rarity": "legendary",
	}
	rec, _ = do(t, s, http.MethodPut, "/island/",
		map[string]any{"items": []any{stolen}}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unowned put = %d", rec.Code)
	}

	rec, out = do(t, s, http.MethodGet, "/island/", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("island get = %d", rec.Code)
	}
	if len(out["items"].([]any)) != 1 {
		t.Fatalf("island items = %v", out["items"])
	}
}

func TestImportPairs(t *testing.T) {
	s := newTestServer(t)

	rec, _ := do(t, s, http.MethodPost, "/auth/signup",
		map[string]any{"username": "curator", "password": "museumpass"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup = %d", rec.Code)
	}
	cookies := rec.Result().Cookies()

	rec, out := do(t, s, http.MethodPost, "/import/pairs", map[string]any{
		"realFiles":      []string{"starry-night.jpg", "sunflowers.jpg"},
		"candidateFiles": []string{"starry-night-ai.jpg", "unrelated-photo.jpg", "sunflowers.jpg"},
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("import = %d %s", rec.Code, rec.Body.String())
	}
	pairs := out["pairs"].([]any)
	if len(pairs) != 2 {
		t.Fatalf("pairs = %v", pairs)
	}
	dups := out["duplicates"].([]any)
	if len(dups) != 1 || dups[0] != "sunflowers.jpg" {
		t.Fatalf("duplicates = %v", dups)
	}
}
