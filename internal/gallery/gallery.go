// internal/gallery/gallery.go
//
// Provides painting listings for the game engine.
//
// Responsibilities:
//   - Load per-category image listings from an environment-provided manifest
//     file or fall back to the embedded default manifest.
//   - Map difficulty tiers to their AI-image buckets.
//   - Supply accessors like Real, ForDifficulty, Tiers, and Stats.
//
// Categories:
//   - "real":        authentic paintings (the answer pool for every tier).
//   - "supereasy", "easy", "plagiarized", "difficult": AI buckets, from the
//     most obvious imitations to the hardest to spot.
//
// Initialization behavior (Init):
//   1. If GALLERY_MANIFEST_FILE is set, load listings from that JSON file.
//   2. Otherwise fall back to the embedded default manifest.
//
// Constraints:
//   • Entries without a name or URL are dropped.
//   • Initialization runs once (sync.Once).
//   • The "real" category must end up non-empty.

package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sophie-zhou/Vangogh-game/assets"
	"github.com/sophie-zhou/Vangogh-game/internal/game"
	"github.com/sophie-zhou/Vangogh-game/internal/match"
)

// Category names as they appear in the manifest.
const (
	CategoryReal        = "real"
	CategorySuperEasy   = "supereasy"
	CategoryEasy        = "easy"
	CategoryPlagiarized = "plagiarized"
	CategoryDifficult   = "difficult"
)

// tierBuckets maps a difficulty tier to the AI bucket its fakes come from.
var tierBuckets = map[game.Difficulty]string{
	game.SuperEasy: CategorySuperEasy,
	game.Easy:      CategoryEasy,
	game.Medium:    CategoryPlagiarized,
	game.Hard:      CategoryDifficult,
}

var (
	initOnce   sync.Once
	listings   map[string][]match.NamedItem
	initialErr error
)

// Init loads the gallery manifest exactly once.
// Returns an error if the real-painting listing ends up empty.
func Init() error {
	initOnce.Do(func() {
		var raw []byte
		var err error

		if path := os.Getenv("GALLERY_MANIFEST_FILE"); path != "" {
			raw, err = os.ReadFile(path)
			if err != nil {
				initialErr = fmt.Errorf("read gallery manifest: %w", err)
				return
			}
		} else {
			raw, err = assets.DefaultManifest()
			if err != nil {
				initialErr = fmt.Errorf("embedded gallery manifest: %w", err)
				return
			}
		}

		listings, initialErr = parseManifest(raw)
	})
	return initialErr
}

// parseManifest decodes a category->items manifest, dropping incomplete
// entries.
func parseManifest(raw []byte) (map[string][]match.NamedItem, error) {
	var decoded map[string][]match.NamedItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parse gallery manifest: %w", err)
	}

	out := make(map[string][]match.NamedItem, len(decoded))
	for category, items := range decoded {
		kept := make([]match.NamedItem, 0, len(items))
		for _, it := range items {
			if it.Name == "" || it.URL == "" {
				continue
			}
			kept = append(kept, it)
		}
		out[category] = kept
	}

	if len(out[CategoryReal]) == 0 {
		return nil, errors.New("gallery: real-painting listing is empty")
	}
	return out, nil
}

// Real returns the authentic-painting listing.
func Real() []match.NamedItem {
	return listings[CategoryReal]
}

// ForDifficulty returns the AI-image listing backing a difficulty tier.
func ForDifficulty(d game.Difficulty) []match.NamedItem {
	bucket, ok := tierBuckets[d]
	if !ok {
		return nil
	}
	return listings[bucket]
}

// Tiers returns every difficulty with a non-empty AI bucket, in play order.
func Tiers() []game.Difficulty {
	var out []game.Difficulty
	for _, d := range []game.Difficulty{game.SuperEasy, game.Easy, game.Medium, game.Hard} {
		if len(ForDifficulty(d)) > 0 {
			out = append(out, d)
		}
	}
	return out
}

// Stats returns the number of listed images per category.
func Stats() map[string]int {
	out := make(map[string]int, len(listings))
	for category, items := range listings {
		out[category] = len(items)
	}
	return out
}
