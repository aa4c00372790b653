package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddKeepsOneLinePerProduct(t *testing.T) {
	c := NewCart(nil)
	p := Product{ID: "p1", Name: "Gin", Price: 1000, Image: "gin.png"}

	for i := 0; i < 5; i++ {
		c.Add(p)
	}

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, "gin.png", c.Lines[0].Image)
}

func TestCartAddSnapshotsPrice(t *testing.T) {
	c := NewCart(nil)
	p := Product{ID: "p1", Name: "Gin", Price: 1000}
	c.Add(p)

	p.Price = 5000
	c.Add(p)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1000.0, c.Lines[0].Price)
	assert.Equal(t, 2000.0, c.Total())
}

func TestCartSetQuantity(t *testing.T) {
	c := NewCart([]CartLine{{ProductID: "p1", Price: 10, Quantity: 3}})

	assert.True(t, c.SetQuantity("p1", 7))
	assert.Equal(t, 7, c.Lines[0].Quantity)

	assert.False(t, c.SetQuantity("missing", 2))

	assert.True(t, c.SetQuantity("p1", 0))
	assert.False(t, c.Contains("p1"))
	assert.Zero(t, c.Len())
}

func TestCartTotalAndCount(t *testing.T) {
	c := NewCart(nil)
	c.Add(Product{ID: "p1", Price: 1000})
	c.Add(Product{ID: "p2", Price: 500})
	c.Add(Product{ID: "p2", Price: 500})

	assert.Equal(t, 2000.0, c.Total())
	assert.Equal(t, 3, c.ItemCount())

	c.Remove("p1")
	assert.Equal(t, 1000.0, c.Total())
}

func TestNewCartDropsInvalidAndMergesDuplicates(t *testing.T) {
	c := NewCart([]CartLine{
		{ProductID: "p1", Quantity: 1, Price: 5},
		{ProductID: "", Quantity: 1},
		{ProductID: "p2", Quantity: 0},
		{ProductID: "p1", Quantity: 2, Price: 5},
	})

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestCloneIsDetached(t *testing.T) {
	c := NewCart([]CartLine{{ProductID: "p1", Quantity: 1}})
	lines := c.Clone()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestProductPrimaryImage(t *testing.T) {
	assert.Equal(t, "a.png", Product{Image: "a.png", Images: []string{"b.png"}}.PrimaryImage())
	assert.Equal(t, "b.png", Product{Images: []string{"b.png"}}.PrimaryImage())
	assert.Equal(t, PlaceholderImage, Product{}.PrimaryImage())
}

func TestRemoteCartLines(t *testing.T) {
	remote := &RemoteCart{Items: []RemoteCartItem{
		{Product: Product{ID: "p3", Name: "Rum", Price: 300, Image: "rum.png"}, Quantity: 1},
	}}

	assert.Equal(t, []CartLine{{ProductID: "p3", Name: "Rum", Price: 300, Image: "rum.png", Quantity: 1}}, remote.Lines())

	var nilCart *RemoteCart
	assert.Nil(t, nilCart.Lines())
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusDispatched))
	assert.False(t, IsValidStatus("SHIPPED"))
}
