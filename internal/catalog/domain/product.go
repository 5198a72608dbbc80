package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Product is a catalog entry as the storefront sees it.
type Product struct {
	ID          int64     `json:"CODPROD"`
	Name        string    `json:"NOME"`
	Description string    `json:"DESCRICAO"`
	Price       float64   `json:"PRECO"`
	Category    string    `json:"CATEGORIA"`
	Sizes       []string  `json:"TAMANHOS"`
	Stock       int       `json:"ESTOQUE"`
	Image       string    `json:"IMAGEM"`
	Rating      float64   `json:"MEDIA_AVALIACAO"`
	Active      bool      `json:"ATIVO"`
	CreatedAt   time.Time `json:"CRIADO_EM"`
}

// OffersSize reports whether size is valid for the product. Products without sizes accept only "".
func (p *Product) OffersSize(size string) bool {
	if len(p.Sizes) == 0 {
		return size == ""
	}
	for _, s := range p.Sizes {
		if strings.EqualFold(s, size) {
			return true
		}
	}
	return false
}

// ProductInput is the body of create and update, and one entry of a seed file.
type ProductInput struct {
	Name        string   `json:"NOME" yaml:"nome" binding:"required,max=120"`
	Description string   `json:"DESCRICAO" yaml:"descricao" binding:"max=4000"`
	Price       float64  `json:"PRECO" yaml:"preco" binding:"required,gt=0"`
	Category    string   `json:"CATEGORIA" yaml:"categoria" binding:"max=60"`
	Sizes       []string `json:"TAMANHOS" yaml:"tamanhos" binding:"max=20,dive,required,max=10"`
	Stock       int      `json:"ESTOQUE" yaml:"estoque" binding:"gte=0"`
	Image       string   `json:"IMAGEM" yaml:"imagem" binding:"omitempty,url"`
}

// Suggestion is one entry of the search-as-you-type list.
type Suggestion struct {
	ID   int64  `json:"CODPROD"`
	Name string `json:"NOME"`
}

// ParseSizes decodes the TAMANHOS column. Malformed JSON means no sizes.
func ParseSizes(raw string) []string {
	sizes := []string{}
	if strings.TrimSpace(raw) == "" {
		return sizes
	}
	if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
		return []string{}
	}
	return sizes
}

// EncodeSizes is the inverse of ParseSizes. Blank entries are dropped.
func EncodeSizes(sizes []string) string {
	clean := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	b, _ := json.Marshal(clean)
	return string(b)
}
