package store

import (
	"context"
	"errors"
	"log"

	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ScyllaCartStore persiste les lignes de panier dans le keyspace users.
// Deux tables : cart_items (adressage par identifiant de ligne) et
// cart_items_by_user ((user_id), item_id) — la clé de partition/clustering
// garantit structurellement au plus une ligne par couple (user, item).
type ScyllaCartStore struct{}

func NewScyllaCartStore() *ScyllaCartStore {
	return &ScyllaCartStore{}
}

// Nombre d'essais CAS avant d'abandonner un incrément contesté.
const cartCASRetries = 5

func (s *ScyllaCartStore) Add(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}
	userUUID, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}
	itemUUID, err := parseUUID(itemID)
	if err != nil {
		return nil, err
	}

	// 1. Tentative de création : ne passe que si aucune ligne n'existe
	newLineUUID := gocql.TimeUUID()
	prev := make(map[string]interface{})
	applied, err := session.Query(
		`INSERT INTO cart_items_by_user (user_id, item_id, cart_item_id, quantity) VALUES (?, ?, ?, 1) IF NOT EXISTS`,
		userUUID, itemUUID, newLineUUID).WithContext(ctx).MapScanCAS(prev)
	if err != nil {
		return nil, err
	}

	if applied {
		if err := session.Query(
			`INSERT INTO cart_items (cart_item_id, user_id, item_id, quantity) VALUES (?, ?, ?, 1)`,
			newLineUUID, userUUID, itemUUID).WithContext(ctx).Exec(); err != nil {
			return nil, err
		}
		return &models.CartItem{
			ID:       newLineUUID.String(),
			UserID:   userID,
			ItemID:   itemID,
			Quantity: 1,
		}, nil
	}

	// 2. La ligne existe : incrément conditionnel, rejoué si un appel
	// concurrent a gagné la course entre notre lecture et notre écriture
	lineUUID, _ := prev["cart_item_id"].(gocql.UUID)
	quantity, _ := prev["quantity"].(int)

	for attempt := 0; attempt < cartCASRetries; attempt++ {
		cas := make(map[string]interface{})
		applied, err := session.Query(
			`UPDATE cart_items_by_user SET quantity = ? WHERE user_id = ? AND item_id = ? IF quantity = ?`,
			quantity+1, userUUID, itemUUID, quantity).WithContext(ctx).MapScanCAS(cas)
		if err != nil {
			return nil, err
		}
		if applied {
			// Miroir adressable par id (lecture seule, pas de LWT nécessaire)
			if err := session.Query(
				`UPDATE cart_items SET quantity = ? WHERE cart_item_id = ?`,
				quantity+1, lineUUID).WithContext(ctx).Exec(); err != nil {
				return nil, err
			}
			return &models.CartItem{
				ID:       lineUUID.String(),
				UserID:   userID,
				ItemID:   itemID,
				Quantity: quantity + 1,
			}, nil
		}
		if q, ok := cas["quantity"].(int); ok {
			quantity = q
		}
	}

	return nil, errors.New("incrément du panier trop contesté, réessayez")
}

func (s *ScyllaCartStore) Get(ctx context.Context, cartItemID string) (*models.CartItem, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}
	lineUUID, err := parseUUID(cartItemID)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		userUUID, itemUUID gocql.UUID
		quantity           int
	)
	err = session.Query(`SELECT user_id, item_id, quantity FROM cart_items WHERE cart_item_id = ?`,
		lineUUID).WithContext(ctx).Scan(&userUUID, &itemUUID, &quantity)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &models.CartItem{
		ID:       cartItemID,
		UserID:   userUUID.String(),
		ItemID:   itemUUID.String(),
		Quantity: quantity,
	}, nil
}

func (s *ScyllaCartStore) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	userUUID, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	iter := database.GetPreparedGetCartByUser().Bind(userUUID).WithContext(ctx).Iter()

	var lines []models.CartItem
	var (
		itemUUID, lineUUID gocql.UUID
		quantity           int
	)
	for iter.Scan(&itemUUID, &lineUUID, &quantity) {
		lines = append(lines, models.CartItem{
			ID:       lineUUID.String(),
			UserID:   userID,
			ItemID:   itemUUID.String(),
			Quantity: quantity,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *ScyllaCartStore) Delete(ctx context.Context, line *models.CartItem) error {
	return s.DeleteMany(ctx, []models.CartItem{*line})
}

// DeleteMany supprime un lot de lignes par leurs identifiants capturés.
func (s *ScyllaCartStore) DeleteMany(ctx context.Context, lines []models.CartItem) error {
	if len(lines) == 0 {
		return nil
	}
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, line := range lines {
		lineUUID, err := parseUUID(line.ID)
		if err != nil {
			log.Printf("⚠️ Ligne de panier ignorée (id invalide): %s", line.ID)
			continue
		}
		userUUID, err := parseUUID(line.UserID)
		if err != nil {
			continue
		}
		itemUUID, err := parseUUID(line.ItemID)
		if err != nil {
			continue
		}
		batch.Query(`DELETE FROM cart_items WHERE cart_item_id = ?`, lineUUID)
		batch.Query(`DELETE FROM cart_items_by_user WHERE user_id = ? AND item_id = ?`, userUUID, itemUUID)
	}
	return session.ExecuteBatch(batch)
}
