// internal/island/island.go
//
// Rules for the island decoration mini-game.
// Responsibilities:
//   - Validate placements against the elliptical island bounds.
//   - Detect collisions between placed items.
//   - Find a free position near a preferred spot.
//   - Score an island layout (type, rarity, diversity, quantity bonuses).
//
// Coordinates are percentages of the island viewport (0-100 on both axes).
// This package is pure; persistence lives in the HTTP layer.
package island

import (
	"math"
)

// ItemType is the broad category of a placed item.
type ItemType string

const (
	Animal     ItemType = "animal"
	Decoration ItemType = "decoration"
	Building   ItemType = "building"
)

// Rarity affects both shop price and island score.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Item is one placed decoration on a player's island.
type Item struct {
	ID     string   `json:"id"`
	Type   ItemType `json:"type"`
	Name   string   `json:"name"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Rarity Rarity   `json:"rarity,omitempty"`
}

// Bounds describes the elliptical placeable area.
type Bounds struct {
	CenterX, CenterY float64
	RadiusX, RadiusY float64
}

// DefaultBounds matches the island art: a wide ellipse with shore margins.
var DefaultBounds = Bounds{CenterX: 50, CenterY: 50, RadiusX: 45, RadiusY: 35}

// ValidPlacement reports whether (x, y) falls inside the island ellipse.
func ValidPlacement(x, y float64, b Bounds) bool {
	nx := (x - b.CenterX) / b.RadiusX
	ny := (y - b.CenterY) / b.RadiusY
	return nx*nx+ny*ny <= 1
}

// Collides reports whether item overlaps any existing item, using the
// average footprint as the minimum separation.
func Collides(item Item, existing []Item) bool {
	for _, other := range existing {
		distance := math.Hypot(item.X-other.X, item.Y-other.Y)
		minDistance := (item.Width + other.Width) / 4
		if distance < minDistance {
			return true
		}
	}
	return false
}

// OptimalPlacement returns a valid, collision-free position as close to the
// preferred spot as possible, searching outward in expanding rings and
// falling back to the island center.
func OptimalPlacement(preferredX, preferredY float64, item Item, existing []Item, b Bounds) (x, y float64) {
	try := func(x, y float64) bool {
		probe := item
		probe.X, probe.Y = x, y
		return ValidPlacement(x, y, b) && !Collides(probe, existing)
	}

	if try(preferredX, preferredY) {
		return preferredX, preferredY
	}
	for radius := 5.0; radius <= 30; radius += 5 {
		for angle := 0.0; angle < 360; angle += 30 {
			rad := angle * math.Pi / 180
			x := preferredX + radius*math.Cos(rad)
			y := preferredY + radius*math.Sin(rad)
			if try(x, y) {
				return x, y
			}
		}
	}
	return b.CenterX, b.CenterY
}

// typePoints / rarityPoints are the per-item score contributions.
var (
	typePoints = map[ItemType]int{
		Animal:     10,
		Decoration: 5,
		Building:   15,
	}
	rarityPoints = map[Rarity]int{
		Rare:      5,
		Epic:      10,
		Legendary: 20,
	}
)

// Score rates an island layout: base points per item type plus rarity
// bonuses, a diversity bonus per distinct type, and quantity bonuses at 5
// and 10 items.
func Score(items []Item) int {
	score := 0
	types := make(map[ItemType]struct{})
	for _, it := range items {
		score += typePoints[it.Type]
		score += rarityPoints[it.Rarity]
		types[it.Type] = struct{}{}
	}
	score += len(types) * 5
	if len(items) >= 5 {
		score += 10
	}
	if len(items) >= 10 {
		score += 20
	}
	return score
}
