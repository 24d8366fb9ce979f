package island

import "errors"

var (
	// ErrUnknownItem reports a purchase of an item not in the catalog.
	ErrUnknownItem = errors.New("unknown shop item")
	// ErrInsufficientCoins reports a purchase the player cannot afford.
	ErrInsufficientCoins = errors.New("insufficient coins")
)

// ShopItem is one purchasable island decoration.
type ShopItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Type        ItemType `json:"type"`
	Description string   `json:"description"`
	Rarity      Rarity   `json:"rarity"`
}

// Catalog is the fixed shop inventory. Coins are earned from game scores.
var Catalog = []ShopItem{
	{ID: "golden-retriever", Name: "Golden Retriever", Price: 50, Type: Animal, Description: "A loyal companion for your island", Rarity: Common},
	{ID: "siamese-cat", Name: "Siamese Cat", Price: 40, Type: Animal, Description: "An elegant feline friend", Rarity: Common},
	{ID: "peacock", Name: "Peacock", Price: 120, Type: Animal, Description: "A majestic bird with beautiful plumage", Rarity: Rare},
	{ID: "koi-fish", Name: "Koi Fish", Price: 80, Type: Animal, Description: "Colorful fish for your pond", Rarity: Common},
	{ID: "sunflower-field", Name: "Sunflower Field", Price: 60, Type: Decoration, Description: "Van Gogh inspired sunflower garden", Rarity: Common},
	{ID: "cypress-tree", Name: "Cypress Tree", Price: 90, Type: Decoration, Description: "Iconic swirling cypress tree", Rarity: Rare},
	{ID: "starry-night-sky", Name: "Starry Night Sky", Price: 200, Type: Decoration, Description: "Transform your sky into Starry Night", Rarity: Epic},
	{ID: "artist-studio", Name: "Artist Studio", Price: 150, Type: Building, Description: "A cozy studio for creating art", Rarity: Rare},
	{ID: "van-gogh-cafe", Name: "Van Gogh Cafe", Price: 300, Type: Building, Description: "The famous Cafe Terrace at Night", Rarity: Legendary},
}

// CatalogItem looks up a shop item by ID.
func CatalogItem(id string) (ShopItem, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

// Purchase validates a buy attempt and returns the remaining coin balance.
func Purchase(itemID string, coins int) (ShopItem, int, error) {
	item, ok := CatalogItem(itemID)
	if !ok {
		return ShopItem{}, coins, ErrUnknownItem
	}
	if coins < item.Price {
		return ShopItem{}, coins, ErrInsufficientCoins
	}
	return item, coins - item.Price, nil
}
