package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ScyllaItemStore persiste le catalogue dans le keyspace catalog.
type ScyllaItemStore struct{}

func NewScyllaItemStore() *ScyllaItemStore {
	return &ScyllaItemStore{}
}

const itemColumns = "item_id, user_id, title, price, description, image, large_image, created_at, updated_at"

func (s *ScyllaItemStore) Create(ctx context.Context, item *models.Item) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return err
	}

	itemUUID := gocql.TimeUUID()
	item.ID = itemUUID.String()
	userUUID, err := parseUUID(item.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	return session.Query(`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		itemUUID, userUUID, item.Title, item.Price, item.Description,
		item.Image, item.LargeImage, now, now).WithContext(ctx).Exec()
}

func scanItem(scan func(dest ...interface{}) error) (*models.Item, error) {
	var (
		itemUUID, userUUID   gocql.UUID
		title, description   string
		image, largeImage    string
		price                int64
		createdAt, updatedAt time.Time
	)
	err := scan(&itemUUID, &userUUID, &title, &price, &description, &image, &largeImage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	return &models.Item{
		ID:          itemUUID.String(),
		UserID:      userUUID.String(),
		Title:       title,
		Price:       price,
		Description: description,
		Image:       image,
		LargeImage:  largeImage,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (s *ScyllaItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}
	itemUUID, err := parseUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}

	q := session.Query(`SELECT `+itemColumns+` FROM items WHERE item_id = ?`, itemUUID).WithContext(ctx)
	item, err := scanItem(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScyllaItemStore) GetMany(ctx context.Context, ids []string) (map[string]*models.Item, error) {
	items := make(map[string]*models.Item, len(ids))
	for _, id := range ids {
		item, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		items[id] = item
	}
	return items, nil
}

func (s *ScyllaItemStore) Update(ctx context.Context, item *models.Item) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return err
	}
	itemUUID, err := parseUUID(item.ID)
	if err != nil {
		return ErrNotFound
	}

	item.UpdatedAt = time.Now()
	return session.Query(`UPDATE items SET title = ?, price = ?, description = ?, updated_at = ? WHERE item_id = ?`,
		item.Title, item.Price, item.Description, item.UpdatedAt, itemUUID).WithContext(ctx).Exec()
}

func (s *ScyllaItemStore) Delete(ctx context.Context, id string) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return err
	}
	itemUUID, err := parseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return session.Query(`DELETE FROM items WHERE item_id = ?`, itemUUID).WithContext(ctx).Exec()
}

func (s *ScyllaItemStore) List(ctx context.Context) ([]models.Item, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + itemColumns + ` FROM items`).WithContext(ctx).Iter()

	var items []models.Item
	for {
		item, err := scanItem(func(dest ...interface{}) error {
			if !iter.Scan(dest...) {
				return gocql.ErrNotFound
			}
			return nil
		})
		if err != nil {
			break
		}
		items = append(items, *item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScyllaItemStore) SetImages(ctx context.Context, id, image, largeImage string) error {
	session, err := database.GetCatalogSession()
	if err != nil {
		return err
	}
	itemUUID, err := parseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	return session.Query(`UPDATE items SET image = ?, large_image = ?, updated_at = ? WHERE item_id = ?`,
		image, largeImage, time.Now(), itemUUID).WithContext(ctx).Exec()
}
