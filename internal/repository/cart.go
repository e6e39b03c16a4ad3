package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/campusbites/checkout/internal/models"
	"github.com/redis/go-redis/v9"
)

// CartRepository reads active cart records from Redis. The cart record binds
// a user to the vendor they are ordering from; the priced cart snapshot
// itself comes with the checkout request.
type CartRepository struct {
	client *redis.Client
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

func (cr *CartRepository) cartKey(userID string) string {
	return "cart:user:" + userID
}

// GetCart returns the active cart record of userID
func (cr *CartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := cr.client.Get(ctx, cr.cartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	cart := models.Cart{}
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}
