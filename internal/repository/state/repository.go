package state

import "context"

// Persisted keys, one snapshot per owner each. The names mirror the
// backend's client vocabulary.
const (
	KeyCart       = "panier"
	KeyRestaurant = "restaurantActuel"
	KeyUser       = "user"
	KeyToken      = "token"
)

// Repository stores per-owner JSON snapshots under well-known keys.
type Repository interface {
	Get(ctx context.Context, ownerID, key string) ([]byte, error)
	Set(ctx context.Context, ownerID, key string, value []byte) error
	Delete(ctx context.Context, ownerID, key string) error
	DeleteAll(ctx context.Context, ownerID string) error
}
