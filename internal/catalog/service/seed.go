package service

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lojaweb/storefront-api/internal/catalog/domain"
)

type seedFile struct {
	Produtos []domain.ProductInput `yaml:"produtos"`
}

// LoadSeed decodes a catalog seed file:
//
//	produtos:
//	  - nome: Camiseta Básica
//	    preco: 59.90
//	    tamanhos: [P, M, G]
//	    estoque: 30
func LoadSeed(r io.Reader) ([]domain.ProductInput, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	v := seedValidator()
	for i := range f.Produtos {
		p := &f.Produtos[i]
		p.Name = strings.TrimSpace(p.Name)
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): %w", i+1, p.Name, describeSeedError(err))
		}
	}
	return f.Produtos, nil
}

// seedValidator checks entries with the same binding rules the HTTP API applies,
// reporting fields by their yaml names.
func seedValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func describeSeedError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s", e.Field(), rule))
	}
	return errors.New(strings.Join(msgs, "; "))
}
