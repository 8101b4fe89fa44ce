package cache

import (
	"context"
	"encoding/json"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

const UserCacheTTL = 5 * time.Minute

// UserCache met en cache les comptes résolus à chaque requête authentifiée :
// Redis d'abord, ScyllaDB en repli, réécriture du cache au passage.
type UserCache struct {
	users store.UserStore
}

func NewUserCache(users store.UserStore) *UserCache {
	return &UserCache{users: users}
}

type cachedUser struct {
	ID          string   `json:"user_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// Get récupère un utilisateur depuis Redis ou ScyllaDB.
// Le digest du mot de passe et les champs reset ne sont jamais mis en cache.
func (c *UserCache) Get(ctx context.Context, userID string) (*models.User, error) {
	key := "user:" + userID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var cu cachedUser
		if json.Unmarshal([]byte(data), &cu) == nil {
			return &models.User{
				ID:          cu.ID,
				Name:        cu.Name,
				Email:       cu.Email,
				Permissions: models.PermissionsFromStrings(cu.Permissions),
			}, nil
		}
	}

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(cachedUser{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Permissions: models.PermissionsToStrings(user.Permissions),
	})
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// Invalidate purge le cache d'un utilisateur (changement de permissions).
func (c *UserCache) Invalidate(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "user:"+userID)
}
