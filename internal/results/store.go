package results

import (
	"context"
	"database/sql"
	"time"
)

// Result is one finished game as persisted in game_results.
// Exactly one of UserID/AnonymousID is set.
type Result struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId,omitempty"`
	AnonymousID    string    `json:"-"`
	Difficulty     string    `json:"difficulty"`
	FinalScore     int       `json:"finalScore"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Accuracy       float64   `json:"accuracy"`
	CompletedAt    time.Time `json:"completedAt"`
}

// LeaderboardRow is one ranked entry; anonymous players show as "Anonymous".
type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	Username    string  `json:"username"`
	FinalScore  int     `json:"finalScore"`
	Accuracy    float64 `json:"accuracy"`
	Difficulty  string  `json:"difficulty"`
	CompletedAt string  `json:"completedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert persists one finished game.
func (s *Store) Insert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results
		     (id, user_id, anonymous_id, difficulty, final_score, total_questions, correct_answers, accuracy, completed_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		r.ID, nullable(r.UserID), nullable(r.AnonymousID), r.Difficulty,
		r.FinalScore, r.TotalQuestions, r.CorrectAnswers, r.Accuracy,
		r.CompletedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Leaderboard returns the top finished games for a time frame and
// difficulty, highest score first.
func (s *Store) Leaderboard(ctx context.Context, frame, difficulty string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT COALESCE(u.username, 'Anonymous'), r.final_score, r.accuracy, r.difficulty, r.completed_at
	          FROM game_results r
	          LEFT JOIN users u ON u.id = r.user_id
	          WHERE r.completed_at >= ?`
	args := []any{WindowStart(frame, time.Now()).Format(time.RFC3339)}

	if difficulty != "" && difficulty != "all" {
		query += ` AND r.difficulty = ?`
		args = append(args, difficulty)
	}
	query += ` ORDER BY r.final_score DESC, r.accuracy DESC, r.completed_at ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Username, &r.FinalScore, &r.Accuracy, &r.Difficulty, &r.CompletedAt); err != nil {
			return nil, err
		}
		r.Rank = len(out) + 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentByUser returns a user's latest finished games, newest first.
func (s *Store) RecentByUser(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, difficulty, final_score, total_questions, correct_answers, accuracy, completed_at
		 FROM game_results WHERE user_id=? ORDER BY completed_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var completed string
		if err := rows.Scan(&r.ID, &r.Difficulty, &r.FinalScore, &r.TotalQuestions, &r.CorrectAnswers, &r.Accuracy, &completed); err != nil {
			return nil, err
		}
		r.UserID = userID
		r.CompletedAt, _ = time.Parse(time.RFC3339, completed)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous reassigns anonymous results to a user account after auth.
func (s *Store) ClaimAnonymous(ctx context.Context, anonymousID, userID string) error {
	if anonymousID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE game_results SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonymousID)
	return err
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
