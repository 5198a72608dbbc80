package domain

import (
	"math"

	catalog "github.com/lojaweb/storefront-api/internal/catalog/domain"
)

// Line is one cart item joined with its product.
type Line struct {
	ProductID int64   `json:"CODPROD"`
	Name      string  `json:"NOME"`
	Image     string  `json:"IMAGEM"`
	Size      string  `json:"TAMANHO"`
	Qty       int     `json:"QTD"`
	Price     float64 `json:"PRECO"`
	Subtotal  float64 `json:"SUBTOTAL"`
	// Available is false when the product was removed or has less stock than Qty.
	Available bool `json:"DISPONIVEL"`
}

type View struct {
	Items []Line  `json:"ITENS"`
	Count int     `json:"QTD_ITENS"`
	Total float64 `json:"TOTAL"`
}

// Price renders c with current product data. Items of unknown products are kept
// as unavailable lines so the shopper sees them go away.
func Price(c Cart, products map[int64]catalog.Product) View {
	v := View{Items: make([]Line, 0, len(c.Items))}
	var totalCents int64

	for _, it := range c.Items {
		line := Line{ProductID: it.ProductID, Size: it.Size, Qty: it.Qty}
		if p, ok := products[it.ProductID]; ok {
			line.Name = p.Name
			line.Image = p.Image
			line.Price = p.Price
			line.Available = p.Active && p.Stock >= it.Qty
			cents := toCents(p.Price) * int64(it.Qty)
			line.Subtotal = fromCents(cents)
			totalCents += cents
		}
		v.Count += it.Qty
		v.Items = append(v.Items, line)
	}

	v.Total = fromCents(totalCents)
	return v
}

func toCents(v float64) int64 { return int64(math.Round(v * 100)) }

func fromCents(c int64) float64 { return float64(c) / 100 }
