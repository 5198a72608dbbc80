package domain

import (
	"math"
	"time"
)

type Review struct {
	ID         int64     `json:"CODAVA"`
	ProductID  int64     `json:"CODPROD"`
	PersonID   int64     `json:"CODPES"`
	PersonName string    `json:"NOME"`
	Rating     int       `json:"NOTA"`
	Comment    string    `json:"COMENTARIO"`
	CreatedAt  time.Time `json:"CRIADO_EM"`
}

type ReviewInput struct {
	ProductID int64  `json:"CODPROD" binding:"required,gt=0"`
	Rating    int    `json:"NOTA" binding:"required,min=1,max=5"`
	Comment   string `json:"COMENTARIO" binding:"max=1000"`
}

// ReviewSummary is the reviews of one product plus their average.
type ReviewSummary struct {
	Items   []Review `json:"items"`
	Average float64  `json:"media"`
	Total   int      `json:"total"`
}

func Summarize(reviews []Review) ReviewSummary {
	s := ReviewSummary{Items: reviews, Total: len(reviews)}
	if s.Items == nil {
		s.Items = []Review{}
	}
	if len(reviews) == 0 {
		return s
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	s.Average = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	return s
}
