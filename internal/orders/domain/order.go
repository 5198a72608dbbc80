package domain

import (
	"math"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDENTE"
	StatusPaid      Status = "PAGO"
	StatusShipped   Status = "ENVIADO"
	StatusDelivered Status = "ENTREGUE"
	StatusCancelled Status = "CANCELADO"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

// CanTransition reports whether an order in status from may move to to.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

type Order struct {
	ID        int64     `json:"CODPED"`
	PersonID  int64     `json:"CODPES"`
	AddressID int64     `json:"CODEND"`
	Status    Status    `json:"STATUS"`
	Total     float64   `json:"TOTAL"`
	CreatedAt time.Time `json:"CRIADO_EM"`
	Items     []Item    `json:"ITENS"`
}

type Item struct {
	ProductID int64   `json:"CODPROD"`
	Name      string  `json:"NOME"`
	Size      string  `json:"TAMANHO"`
	Qty       int     `json:"QTD"`
	Price     float64 `json:"PRECO"`
}

// CheckoutRequest is the body of POST /pedido/cadastrar.
type CheckoutRequest struct {
	AddressID int64          `json:"CODEND" binding:"required,gt=0"`
	PersonID  int64          `json:"CODPES" binding:"required,gt=0"`
	Items     []CheckoutItem `json:"ITENS" binding:"required,min=1,max=50,dive"`
}

type CheckoutItem struct {
	ProductID int64  `json:"CODPROD" binding:"required,gt=0"`
	Size      string `json:"TAMANHO" binding:"max=10"`
	Qty       int    `json:"QTD" binding:"required,min=1,max=99"`
}

type StatusUpdate struct {
	Status Status `json:"STATUS" binding:"required,oneof=PENDENTE PAGO ENVIADO ENTREGUE CANCELADO"`
}

// MergeLines folds repeated (product, size) lines into one.
func MergeLines(items []CheckoutItem) []CheckoutItem {
	out := make([]CheckoutItem, 0, len(items))
	for _, it := range items {
		it.Size = strings.TrimSpace(it.Size)
		i := slices.IndexFunc(out, func(o CheckoutItem) bool {
			return o.ProductID == it.ProductID && strings.EqualFold(o.Size, it.Size)
		})
		if i >= 0 {
			out[i].Qty += it.Qty
			continue
		}
		out = append(out, it)
	}
	return out
}

// Total is Σ price × qty, computed in cents.
func Total(items []Item) float64 {
	var cents int64
	for _, it := range items {
		cents += int64(math.Round(it.Price*100)) * int64(it.Qty)
	}
	return float64(cents) / 100
}
