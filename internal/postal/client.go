// Package postal looks up Brazilian postal codes (CEP) in a ViaCEP-compatible service.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lojaweb/storefront-api/internal/logging"
)

var (
	ErrInvalidCEP = errors.New("postal code must have 8 digits")
	ErrNotFound   = errors.New("postal code not found")
	ErrUpstream   = errors.New("postal code service unavailable")
)

const cacheKeyPrefix = "postal:cep:" // postal:cep:{cep} -> JSON Address

// Address is the draft an address form is prefilled with.
type Address struct {
	CEP          string `json:"CEP"`
	Street       string `json:"LOGRADOURO"`
	Complement   string `json:"COMPLEMENTO"`
	Neighborhood string `json:"BAIRRO"`
	City         string `json:"CIDADE"`
	State        string `json:"UF"`
}

type viaCEPReply struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        any    `json:"erro"`
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	CacheTTL   time.Duration
}

type Client struct {
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	cache    redis.Cmdable
	cacheTTL time.Duration
}

// NewClient builds a client. cache may be nil to disable caching.
func NewClient(opts Options, cache redis.Cmdable) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		cache:    cache,
		cacheTTL: opts.CacheTTL,
	}
}

// Normalize strips punctuation from a CEP and checks it has 8 digits.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
		default:
			return "", ErrInvalidCEP
		}
	}
	if b.Len() != 8 {
		return "", ErrInvalidCEP
	}
	return b.String(), nil
}

// Lookup resolves a CEP, from cache when possible.
func (c *Client) Lookup(ctx context.Context, raw string) (*Address, error) {
	cep, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	if addr, ok := c.cached(ctx, cep); ok {
		return addr, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	addr, err := c.fetch(ctx, cep)
	if err != nil {
		return nil, err
	}
	c.store(ctx, addr)
	return addr, nil
}

func (c *Client) fetch(ctx context.Context, cep string) (*Address, error) {
	url := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("postal lookup",
		zap.String("cep", cep),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	// ViaCEP answers 400 for malformed codes
	if resp.StatusCode == http.StatusBadRequest {
		return nil, ErrInvalidCEP
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var reply viaCEPReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if isErrorFlag(reply.Erro) {
		return nil, ErrNotFound
	}

	return &Address{
		CEP:          cep,
		Street:       reply.Logradouro,
		Complement:   reply.Complemento,
		Neighborhood: reply.Bairro,
		City:         reply.Localidade,
		State:        reply.UF,
	}, nil
}

// isErrorFlag accepts both {"erro": true} and {"erro": "true"}.
func isErrorFlag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

func (c *Client) cached(ctx context.Context, cep string) (*Address, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, cacheKeyPrefix+cep).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).Warn("postal cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var addr Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, false
	}
	return &addr, true
}

func (c *Client) store(ctx context.Context, addr *Address) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKeyPrefix+addr.CEP, data, c.cacheTTL).Err(); err != nil {
		logging.FromContext(ctx).Warn("postal cache write failed", zap.Error(err))
	}
}
