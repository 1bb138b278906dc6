// Package cart aggregates selected products into quantity-bearing lines.
package cart

import (
	"github.com/shopspring/decimal"

	"spicymarket/models"
)

// Cart keeps at most one line per product id, in insertion order. A Cart is
// not safe for concurrent use; share it through a Registry.
type Cart struct {
	lines []models.CartLine
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) index(productID int64) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts one more unit of p in the cart.
func (c *Cart) Add(p models.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
}

// SetQuantity sets the line's quantity; n <= 0 removes it. Unknown ids are ignored.
func (c *Cart) SetQuantity(productID int64, n int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if n <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return
	}
	c.lines[i].Quantity = n
}

func (c *Cart) Remove(productID int64) {
	c.SetQuantity(productID, 0)
}

// Total is the exact sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []models.CartLine {
	return append([]models.CartLine{}, c.lines...)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Snapshot is a detached copy, so later edits to c do not reach it.
func (c *Cart) Snapshot() *Cart {
	return &Cart{lines: c.Lines()}
}
