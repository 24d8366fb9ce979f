// internal/httpserver/routes_island.go
//
// HTTP routes for the island mini-game, the shop, and bulk gallery import.
// All endpoints require an account:
//   - GET  /island        → the user's island layout and its score
//   - PUT  /island        → replace the layout (placement + collision checked)
//   - POST /island/place  → find a free spot near a preferred position
//   - GET  /shop/catalog  → shop inventory with owned flags and coin balance
//   - POST /shop/buy      → purchase an item, deducting coins
//   - POST /import/pairs  → pair up uploaded filename listings for curation
//
// Layout writes replace the whole island in one transaction; purchases
// update coins and ownership atomically.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/sophie-zhou/Vangogh-game/internal/island"
	"github.com/sophie-zhou/Vangogh-game/internal/match"
)

// mountIsland registers the island, shop, and import routes.
func (s *Server) mountIsland(r chi.Router) {
	r.Route("/island", func(r chi.Router) {
		r.Get("/", s.handleIslandGet)
		r.Put("/", s.handleIslandPut)
		r.Post("/place", s.handleIslandPlace)
	})
	r.Get("/shop/catalog", s.handleShopCatalog)
	r.Post("/shop/buy", s.handleShopBuy)
	r.Post("/import/pairs", s.handleImportPairs)
}

// ------------------------------- island ------------------------------------

// loadIsland reads the user's placed items from the DB.
func (s *Server) loadIsland(userID string) ([]island.Item, error) {
	rows, err := s.db.Query(`SELECT item_id, item_type, name, x, y, width, height, rarity
	                         FROM island_items WHERE user_id=? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []island.Item
	for rows.Next() {
		var it island.Item
		if err := rows.Scan(&it.ID, &it.Type, &it.Name, &it.X, &it.Y, &it.Width, &it.Height, &it.Rarity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Server) handleIslandGet(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	items, err := s.loadIsland(me.ID)
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("load island")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []island.Item{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items": items,
		"score": island.Score(items),
	})
}

type islandPutReq struct {
	Items []island.Item `json:"items"`
}

// handleIslandPut validates and replaces the user's entire layout.
// Every item must be owned, inside the island, and free of overlaps.
func (s *Server) handleIslandPut(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	var body islandPutReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if len(body.Items) > 100 {
		http.Error(w, `{"error":"too many items"}`, http.StatusBadRequest)
		return
	}
	owned, err := s.ownedItems(me.ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	var placed []island.Item
	for _, it := range body.Items {
		if !owned[it.ID] {
			http.Error(w, `{"error":"item not owned: `+it.ID+`"}`, http.StatusBadRequest)
			return
		}
		if !island.ValidPlacement(it.X, it.Y, island.DefaultBounds) {
			http.Error(w, `{"error":"placement outside island: `+it.ID+`"}`, http.StatusBadRequest)
			return
		}
		if island.Collides(it, placed) {
			http.Error(w, `{"error":"items overlap: `+it.ID+`"}`, http.StatusBadRequest)
			return
		}
		placed = append(placed, it)
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if _, err := tx.Exec(`DELETE FROM island_items WHERE user_id=?`, me.ID); err != nil {
		_ = tx.Rollback()
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	for _, it := range placed {
		if _, err := tx.Exec(`INSERT INTO island_items (user_id, item_id, item_type, name, x, y, width, height, rarity)
		                      VALUES (?,?,?,?,?,?,?,?,?)`,
			me.ID, it.ID, string(it.Type), it.Name, it.X, it.Y, it.Width, it.Height, string(it.Rarity)); err != nil {
			_ = tx.Rollback()
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    true,
		"score": island.Score(placed),
	})
}

type placeReq struct {
	Item island.Item `json:"item"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// handleIslandPlace suggests a free position near a preferred spot without
// modifying anything.
func (s *Server) handleIslandPlace(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	var body placeReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	existing, err := s.loadIsland(me.ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	x, y := island.OptimalPlacement(body.X, body.Y, body.Item, existing, island.DefaultBounds)
	_ = json.NewEncoder(w).Encode(map[string]float64{"x": x, "y": y})
}

// -------------------------------- shop -------------------------------------

// ownedItems returns the set of catalog item IDs the user has purchased.
func (s *Server) ownedItems(userID string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT item_id FROM shop_purchases WHERE user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	owned := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = true
	}
	return owned, rows.Err()
}

// handleShopCatalog lists the inventory with per-item owned flags.
func (s *Server) handleShopCatalog(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	owned, err := s.ownedItems(me.ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	u, err := s.findUserByID(me.ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	type entry struct {
		island.ShopItem
		Owned bool `json:"owned"`
	}
	out := make([]entry, 0, len(island.Catalog))
	for _, it := range island.Catalog {
		out = append(out, entry{ShopItem: it, Owned: owned[it.ID]})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"coins": u.Coins,
		"items": out,
	})
}

type buyReq struct {
	ItemID string `json:"itemId"`
}

// handleShopBuy purchases a catalog item, deducting coins atomically.
func (s *Server) handleShopBuy(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	var body buyReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}

	tx, err := s.db.BeginTx(r.Context(), nil)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var coins int
	if err := tx.QueryRow(`SELECT coins FROM users WHERE id=?`, me.ID).Scan(&coins); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	var already int
	_ = tx.QueryRow(`SELECT 1 FROM shop_purchases WHERE user_id=? AND item_id=?`, me.ID, body.ItemID).Scan(&already)
	if already == 1 {
		http.Error(w, `{"error":"already owned"}`, http.StatusConflict)
		return
	}

	item, remaining, err := island.Purchase(body.ItemID, coins)
	switch {
	case errors.Is(err, island.ErrUnknownItem):
		http.Error(w, `{"error":"unknown item"}`, http.StatusBadRequest)
		return
	case errors.Is(err, island.ErrInsufficientCoins):
		http.Error(w, `{"error":"insufficient coins"}`, http.StatusPaymentRequired)
		return
	case err != nil:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	if _, err := tx.Exec(`INSERT INTO shop_purchases (user_id, item_id) VALUES (?,?)`, me.ID, item.ID); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if _, err := tx.Exec(`UPDATE users SET coins=? WHERE id=?`, remaining, me.ID); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"item":  item,
		"coins": remaining,
	})
}

// ------------------------------- import ------------------------------------

type importReq struct {
	RealFiles      []string `json:"realFiles"`
	CandidateFiles []string `json:"candidateFiles"`
	Threshold      float64  `json:"threshold"` // 0 → default
}

// handleImportPairs pairs up two uploaded filename listings by title
// similarity. Curators use it to preview matches, spot duplicates, and see
// how each filename would be categorized before adding art to the gallery.
func (s *Server) handleImportPairs(w http.ResponseWriter, r *http.Request) {
	var body importReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if len(body.RealFiles) == 0 || len(body.CandidateFiles) == 0 {
		http.Error(w, `{"error":"realFiles and candidateFiles required"}`, http.StatusBadRequest)
		return
	}
	if len(body.RealFiles)+len(body.CandidateFiles) > 2000 {
		http.Error(w, `{"error":"too many files"}`, http.StatusBadRequest)
		return
	}
	threshold := body.Threshold
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}

	toItems := func(names []string) []match.NamedItem {
		out := make([]match.NamedItem, 0, len(names))
		for _, n := range names {
			out = append(out, match.NamedItem{Name: n, URL: n})
		}
		return out
	}
	pairs := match.MatchPairs(toItems(body.RealFiles), toItems(body.CandidateFiles), threshold)

	type categorized struct {
		Name     string         `json:"name"`
		Category match.Category `json:"category"`
		Title    string         `json:"title"`
	}
	all := append(append([]string{}, body.RealFiles...), body.CandidateFiles...)
	cats := make([]categorized, 0, len(all))
	for _, n := range all {
		cats = append(cats, categorized{Name: n, Category: match.Categorize(n), Title: match.ExtractTitle(n)})
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"pairs":      pairs,
		"categories": cats,
		"duplicates": match.FindDuplicates(all),
	})
}
