// Package domain holds the cart model and its reducer.
//
// The cart is changed only through Reduce, so every writer (the API, the
// browser merge on login, checkout) goes through the same rules.
package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// MaxLineQty caps the quantity of one (product, size) line.
const MaxLineQty = 99

var (
	ErrUnknownAction   = errors.New("unknown cart action")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrQuantityLimit   = errors.New("quantity exceeds the per-item limit")
	ErrInvalidProduct  = errors.New("product id is required")
)

type Item struct {
	ProductID int64  `json:"CODPROD"`
	Size      string `json:"TAMANHO"`
	Qty       int    `json:"QTD"`
}

func (it Item) same(productID int64, size string) bool {
	return it.ProductID == productID && strings.EqualFold(it.Size, size)
}

type Cart struct {
	Items     []Item    `json:"ITENS"`
	UpdatedAt time.Time `json:"ATUALIZADO_EM"`
}

// Count is the number of units in the cart.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// ProductIDs lists each product once, in cart order.
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Items))
	for _, it := range c.Items {
		if !slices.Contains(ids, it.ProductID) {
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}

type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionSet    ActionType = "set"
	ActionRemove ActionType = "remove"
	ActionClear  ActionType = "clear"
	ActionMerge  ActionType = "merge"
)

// BrowserItem is the shape the storefront kept in local storage.
type BrowserItem struct {
	ProductID int64  `json:"CODPROD"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type Action struct {
	Type      ActionType    `json:"type" binding:"required,oneof=add set remove clear merge"`
	ProductID int64         `json:"CODPROD"`
	Size      string        `json:"TAMANHO"`
	Qty       int           `json:"QTD"`
	Items     []BrowserItem `json:"items"`
}

// Reduce applies a to c and returns the new cart. c is not modified.
func Reduce(c Cart, a Action) (Cart, error) {
	next := Cart{Items: slices.Clone(c.Items), UpdatedAt: c.UpdatedAt}
	size := strings.TrimSpace(a.Size)

	switch a.Type {
	case ActionAdd:
		if a.ProductID <= 0 {
			return c, ErrInvalidProduct
		}
		if a.Qty < 1 {
			return c, ErrInvalidQuantity
		}
		if err := next.add(a.ProductID, size, a.Qty, false); err != nil {
			return c, err
		}
		return next, nil

	case ActionSet:
		if a.ProductID <= 0 {
			return c, ErrInvalidProduct
		}
		if a.Qty < 0 {
			return c, ErrInvalidQuantity
		}
		if a.Qty > MaxLineQty {
			return c, ErrQuantityLimit
		}
		if a.Qty == 0 {
			next.remove(a.ProductID, size)
			return next, nil
		}
		if i := next.index(a.ProductID, size); i >= 0 {
			next.Items[i].Qty = a.Qty
			return next, nil
		}
		next.Items = append(next.Items, Item{ProductID: a.ProductID, Size: size, Qty: a.Qty})
		return next, nil

	case ActionRemove:
		if a.ProductID <= 0 {
			return c, ErrInvalidProduct
		}
		next.remove(a.ProductID, size)
		return next, nil

	case ActionClear:
		next.Items = nil
		return next, nil

	case ActionMerge:
		// browser data is best effort: bad lines are dropped, large ones capped
		for _, it := range a.Items {
			if it.ProductID <= 0 || it.Quantity < 1 {
				continue
			}
			_ = next.add(it.ProductID, strings.TrimSpace(it.Size), it.Quantity, true)
		}
		return next, nil
	}

	return c, ErrUnknownAction
}

func (c *Cart) index(productID int64, size string) int {
	return slices.IndexFunc(c.Items, func(it Item) bool { return it.same(productID, size) })
}

// add merges into an existing line for the same product and size.
func (c *Cart) add(productID int64, size string, qty int, capAtLimit bool) error {
	i := c.index(productID, size)
	current := 0
	if i >= 0 {
		current = c.Items[i].Qty
	}

	total := current + qty
	if total > MaxLineQty {
		if !capAtLimit {
			return ErrQuantityLimit
		}
		total = MaxLineQty
	}

	if i >= 0 {
		c.Items[i].Qty = total
		return nil
	}
	c.Items = append(c.Items, Item{ProductID: productID, Size: size, Qty: total})
	return nil
}

func (c *Cart) remove(productID int64, size string) {
	c.Items = slices.DeleteFunc(c.Items, func(it Item) bool { return it.same(productID, size) })
}
