package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lojaweb/storefront-api/internal/cart/domain"
)

const (
	cartKeyPrefix      = "cart:"             // JSON cart: cart:{codpes}
	favoritesKeyPrefix = "favorites:"        // Set of product ids: favorites:{codpes}
	cartTTL            = 30 * 24 * time.Hour // refreshed on every write
	maxUpdateAttempts  = 5
)

var ErrConflict = errors.New("cart changed concurrently, retries exhausted")

// CartRepository keeps one cart per person in Redis.
type CartRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client, now: time.Now}
}

// Load returns an empty cart when none is stored
func (r *CartRepository) Load(ctx context.Context, personID int64) (domain.Cart, error) {
	return r.load(ctx, r.client, personID)
}

// Update reads the cart, applies fn, and writes the result under WATCH so a
// concurrent writer makes the transaction retry instead of losing an update.
func (r *CartRepository) Update(ctx context.Context, personID int64, fn func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	key := cartKey(personID)
	var result domain.Cart

	txf := func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, personID)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		next.UpdatedAt = r.now().UTC()

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(next.Items) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, data, cartTTL)
			return nil
		})
		if err != nil {
			return err
		}
		result = next
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Cart{}, err
		}
		return result, nil
	}
	return domain.Cart{}, ErrConflict
}

// Clear drops the cart
func (r *CartRepository) Clear(ctx context.Context, personID int64) error {
	if err := r.client.Del(ctx, cartKey(personID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *CartRepository) load(ctx context.Context, c getter, personID int64) (domain.Cart, error) {
	data, err := c.Get(ctx, cartKey(personID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// a corrupt blob is replaced on the next write
		return domain.Cart{}, nil
	}
	return cart, nil
}

// Favorites returns the favorite product ids in ascending order
func (r *CartRepository) Favorites(ctx context.Context, personID int64) ([]int64, error) {
	members, err := r.client.SMembers(ctx, favoritesKey(personID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *CartRepository) AddFavorite(ctx context.Context, personID, productID int64) error {
	return r.client.SAdd(ctx, favoritesKey(personID), productID).Err()
}

func (r *CartRepository) RemoveFavorite(ctx context.Context, personID, productID int64) error {
	return r.client.SRem(ctx, favoritesKey(personID), productID).Err()
}

func cartKey(personID int64) string {
	return cartKeyPrefix + strconv.FormatInt(personID, 10)
}

func favoritesKey(personID int64) string {
	return favoritesKeyPrefix + strconv.FormatInt(personID, 10)
}
