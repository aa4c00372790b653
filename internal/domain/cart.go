package domain

import (
	"context"
	"strings"
)

const PlaceholderImage = "https://via.placeholder.com/150"

// CartLine is one product entry in a cart. Price is a snapshot taken when
// the product was added and is never refreshed.
type CartLine struct {
	ProductID string  `json:"_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"qty"`
}

// Cart holds at most one line per product id.
type Cart struct {
	Lines []CartLine `json:"items"`
}

func NewCart(lines []CartLine) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity < 1 {
			continue
		}
		if idx := c.index(l.ProductID); idx >= 0 {
			c.Lines[idx].Quantity += l.Quantity
			continue
		}
		c.Lines = append(c.Lines, l)
	}
	return c
}

// Add increments the quantity of an existing line or appends a new line
// with quantity 1 snapshotting the product's name, price and image.
func (c *Cart) Add(p Product) {
	if idx := c.index(p.ID); idx >= 0 {
		c.Lines[idx].Quantity++
		return
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.PrimaryImage(),
		Quantity:  1,
	})
}

// SetQuantity sets the quantity exactly. qty < 1 removes the line.
// It reports whether the cart changed.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty < 1 {
		return c.Remove(productID)
	}
	idx := c.index(productID)
	if idx < 0 {
		return false
	}
	c.Lines[idx].Quantity = qty
	return true
}

func (c *Cart) Remove(productID string) bool {
	idx := c.index(productID)
	if idx < 0 {
		return false
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return true
}

func (c *Cart) Contains(productID string) bool {
	return c.index(productID) >= 0
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities, shown on the navigation badge.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

func (c *Cart) Clone() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// RemoteCartItem is the cart service's representation of a line.
type RemoteCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type RemoteCart struct {
	Items []RemoteCartItem `json:"items"`
}

// Lines normalizes the remote representation into cart lines.
func (r *RemoteCart) Lines() []CartLine {
	if r == nil {
		return nil
	}
	lines := make([]CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, CartLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Image:     item.Product.PrimaryImage(),
			Quantity:  item.Quantity,
		})
	}
	return lines
}

type CartService interface {
	Fetch(ctx context.Context) (*RemoteCart, error)
	Add(ctx context.Context, productID string, quantity int) error
	Update(ctx context.Context, productID string, quantity int) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}
