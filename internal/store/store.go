// Package store expose les dépôts de persistance derrière des interfaces,
// pour garder les services (panier, checkout, comptes) libres de toute
// syntaxe CQL. Les implémentations ScyllaDB vivent dans ce même package.
package store

import (
	"context"
	"errors"
	"time"

	"velora_back_end/internal/models"
)

var (
	ErrNotFound = errors.New("entité introuvable")
	ErrConflict = errors.New("entité déjà existante")
)

type UserStore interface {
	// Create échoue avec ErrConflict si l'email est déjà pris (LWT sur users_by_email).
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	// UpdatePassword efface les deux champs reset dans la même écriture que le
	// nouveau digest. resetToken, si non vide, purge aussi la table de lookup.
	UpdatePassword(ctx context.Context, userID, digest, resetToken string) error
	// UpdatePermissions remplace l'ensemble complet (jamais une fusion).
	UpdatePermissions(ctx context.Context, userID string, perms []models.Permission) error
}

type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, id string) (*models.Item, error)
	GetMany(ctx context.Context, ids []string) (map[string]*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Item, error)
	SetImages(ctx context.Context, id, image, largeImage string) error
}

type CartStore interface {
	// Add est le point de sérialisation du panier : première insertion en
	// IF NOT EXISTS, incrément en IF quantity = ?. Deux appels concurrents
	// pour le même (user, item) convergent vers une seule ligne.
	Add(ctx context.Context, userID, itemID string) (*models.CartItem, error)
	Get(ctx context.Context, cartItemID string) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Delete(ctx context.Context, line *models.CartItem) error
	// DeleteMany supprime par identifiants capturés, jamais par re-lecture :
	// une ligne ajoutée après le snapshot survit.
	DeleteMany(ctx context.Context, lines []models.CartItem) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}
