// Package cart implements the shopping-cart aggregate: an ordered
// collection of product lines keyed by slug id, with derived totals and a
// migration path from the legacy name-keyed representation.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/ryadom-food/restaurant-backend/utils"
)

const SnapshotVersion = 2

// Item is a single cart line. Price is whole rubles, quantity is always
// a positive integer while the line exists.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
}

// Cart keeps insertion order so the checkout list is stable.
type Cart struct {
	items []Item
	index map[string]int
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// AddItem appends a new line or increments the quantity of an existing
// one. Quantities below 1 are treated as 1.
func (c *Cart) AddItem(item Item, qty int) {
	if qty < 1 {
		qty = 1
	}
	if pos, ok := c.index[item.ID]; ok {
		c.items[pos].Quantity += qty
		return
	}
	item.Quantity = qty
	c.index[item.ID] = len(c.items)
	c.items = append(c.items, item)
}

// SetQuantity clamps q to >= 0 and removes the line at zero.
func (c *Cart) SetQuantity(id string, q int) {
	if q < 0 {
		q = 0
	}
	pos, ok := c.index[id]
	if !ok {
		return
	}
	if q == 0 {
		c.removeAt(pos)
		return
	}
	c.items[pos].Quantity = q
}

func (c *Cart) RemoveItem(id string) {
	if pos, ok := c.index[id]; ok {
		c.removeAt(pos)
	}
}

func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

func (c *Cart) removeAt(pos int) {
	removed := c.items[pos].ID
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, removed)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].ID] = i
	}
}

// Items returns the lines in insertion order. The slice is a copy.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) TotalCount() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() int {
	total := 0
	for _, it := range c.items {
		total += it.Price * it.Quantity
	}
	return total
}

func (c *Cart) ItemCount(id string) int {
	if pos, ok := c.index[id]; ok {
		return c.items[pos].Quantity
	}
	return 0
}

type snapshot struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

// Snapshot serializes the cart for durable client storage.
func (c *Cart) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Version: SnapshotVersion, Items: c.items})
}

// Restore replaces the cart contents from a snapshot, dropping lines with
// non-positive quantities and collapsing duplicate ids.
func Restore(data []byte) (*Cart, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt cart snapshot: %w", err)
	}
	c := New()
	for _, it := range snap.Items {
		if it.Quantity < 1 || it.ID == "" {
			continue
		}
		c.AddItem(Item{ID: it.ID, Title: it.Title, Price: it.Price, Image: it.Image}, it.Quantity)
	}
	return c, nil
}

// LegacyEntry is one element of the old "userCart" format: a pair keyed by
// the product display name instead of the slug id.
type LegacyEntry struct {
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// ImportLegacy migrates the legacy name-keyed array into a canonical cart.
// Names become slug ids, duplicates merge, zero quantities are dropped.
// The caller deletes the legacy record once this succeeds.
func ImportLegacy(data []byte) (*Cart, error) {
	var entries []LegacyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("corrupt legacy cart: %w", err)
	}
	c := New()
	for _, e := range entries {
		if e.Quantity < 1 || e.Name == "" {
			continue
		}
		c.AddItem(Item{ID: utils.Slugify(e.Name), Title: e.Name, Price: e.Price}, e.Quantity)
	}
	return c, nil
}
