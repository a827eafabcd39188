package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pizza() Item   { return Item{ID: "margherita", Title: "Margherita", Price: 650} }
func drink() Item   { return Item{ID: "mors", Title: "Морс", Price: 150} }
func dessert() Item { return Item{ID: "napoleon", Title: "Наполеон", Price: 320} }

func TestTotalsTrackOperations(t *testing.T) {
	c := New()
	c.AddItem(pizza(), 2)
	c.AddItem(drink(), 1)
	c.AddItem(pizza(), 1) // merge into existing line

	assert.Equal(t, 4, c.TotalCount())
	assert.Equal(t, 650*3+150, c.TotalPrice())
	assert.Equal(t, 3, c.ItemCount("margherita"))

	c.SetQuantity("mors", 5)
	assert.Equal(t, 650*3+150*5, c.TotalPrice())

	c.RemoveItem("margherita")
	assert.Equal(t, 150*5, c.TotalPrice())
	assert.Equal(t, 5, c.TotalCount())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalPrice())
	assert.Zero(t, c.TotalCount())
}

func TestQuantityFloor(t *testing.T) {
	c := New()
	c.AddItem(pizza(), 1)

	c.SetQuantity("margherita", 0)
	assert.Zero(t, c.ItemCount("margherita"))
	assert.True(t, c.IsEmpty())

	c.AddItem(pizza(), 1)
	c.SetQuantity("margherita", -5)
	assert.True(t, c.IsEmpty(), "negative quantity behaves like zero")
}

func TestNoDuplicateIDs(t *testing.T) {
	c := New()
	c.AddItem(pizza(), 1)
	c.AddItem(pizza(), 2)

	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestInsertionOrderSurvivesRemoval(t *testing.T) {
	c := New()
	c.AddItem(pizza(), 1)
	c.AddItem(drink(), 1)
	c.AddItem(dessert(), 1)

	c.RemoveItem("mors")

	items := c.Items()
	assert.Equal(t, []string{"margherita", "napoleon"}, []string{items[0].ID, items[1].ID})

	// Index must stay consistent after compaction.
	c.SetQuantity("napoleon", 4)
	assert.Equal(t, 4, c.ItemCount("napoleon"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()
	c.AddItem(pizza(), 2)
	c.AddItem(drink(), 1)

	data, err := c.Snapshot()
	assert.NoError(t, err)

	restored, err := Restore(data)
	assert.NoError(t, err)
	assert.Equal(t, c.Items(), restored.Items())
}

func TestRestoreDropsInvalidLines(t *testing.T) {
	data := []byte(`{"version":2,"items":[
		{"id":"margherita","title":"Margherita","price":650,"quantity":2},
		{"id":"","title":"broken","price":10,"quantity":1},
		{"id":"mors","title":"Морс","price":150,"quantity":0}
	]}`)

	c, err := Restore(data)
	assert.NoError(t, err)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.ItemCount("margherita"))
}

func TestImportLegacy(t *testing.T) {
	data := []byte(`[
		{"name":"Pizza 4-Cheese!","price":800,"quantity":1},
		{"name":"Pizza 4-Cheese!","price":800,"quantity":2},
		{"name":"Морс","price":150,"quantity":0}
	]`)

	c, err := ImportLegacy(data)
	assert.NoError(t, err)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 3, c.ItemCount("pizza4cheese"))
	assert.Equal(t, 2400, c.TotalPrice())
}

func TestImportLegacyCorrupt(t *testing.T) {
	_, err := ImportLegacy([]byte(`{"not":"an array"}`))
	assert.Error(t, err)
}
