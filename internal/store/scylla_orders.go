package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ScyllaOrderStore persiste les commandes dans le keyspace orders.
// Une commande et ses order_items sont immuables : insertion unique,
// aucune opération de mise à jour ni de suppression.
type ScyllaOrderStore struct{}

func NewScyllaOrderStore() *ScyllaOrderStore {
	return &ScyllaOrderStore{}
}

func (s *ScyllaOrderStore) Create(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	orderUUID := gocql.TimeUUID()
	order.ID = orderUUID.String()
	userUUID, err := parseUUID(order.UserID)
	if err != nil {
		return err
	}
	order.CreatedAt = time.Now()

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`INSERT INTO orders (order_id, user_id, total, charge, created_at) VALUES (?, ?, ?, ?, ?)`,
		orderUUID, userUUID, order.Total, order.Charge, order.CreatedAt)
	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, total, charge) VALUES (?, ?, ?, ?, ?)`,
		userUUID, order.CreatedAt, orderUUID, order.Total, order.Charge)

	for i := range order.Items {
		itemUUID := gocql.TimeUUID()
		order.Items[i].ID = itemUUID.String()
		it := order.Items[i]
		batch.Query(`INSERT INTO order_items (order_id, order_item_id, title, price, description, image, large_image, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orderUUID, itemUUID, it.Title, it.Price, it.Description, it.Image, it.LargeImage, it.Quantity)
	}

	return session.ExecuteBatch(batch)
}

func (s *ScyllaOrderStore) loadItems(ctx context.Context, session *gocql.Session, orderUUID gocql.UUID) ([]models.OrderItem, error) {
	iter := session.Query(`SELECT order_item_id, title, price, description, image, large_image, quantity
		FROM order_items WHERE order_id = ?`, orderUUID).WithContext(ctx).Iter()

	var items []models.OrderItem
	var (
		itemUUID                  gocql.UUID
		title, description        string
		image, largeImage         string
		price                     int64
		quantity                  int
	)
	for iter.Scan(&itemUUID, &title, &price, &description, &image, &largeImage, &quantity) {
		items = append(items, models.OrderItem{
			ID:          itemUUID.String(),
			Title:       title,
			Price:       price,
			Description: description,
			Image:       image,
			LargeImage:  largeImage,
			Quantity:    quantity,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScyllaOrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}
	orderUUID, err := parseUUID(orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	var (
		userUUID  gocql.UUID
		total     int64
		charge    string
		createdAt time.Time
	)
	err = session.Query(`SELECT user_id, total, charge, created_at FROM orders WHERE order_id = ?`,
		orderUUID).WithContext(ctx).Scan(&userUUID, &total, &charge, &createdAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, session, orderUUID)
	if err != nil {
		return nil, err
	}

	return &models.Order{
		ID:        orderID,
		UserID:    userUUID.String(),
		Total:     total,
		Charge:    charge,
		Items:     items,
		CreatedAt: createdAt,
	}, nil
}

func (s *ScyllaOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}
	userUUID, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, created_at, total, charge FROM orders_by_user WHERE user_id = ?`,
		userUUID).WithContext(ctx).Iter()

	var orders []models.Order
	var (
		orderUUID gocql.UUID
		createdAt time.Time
		total     int64
		charge    string
	)
	for iter.Scan(&orderUUID, &createdAt, &total, &charge) {
		orders = append(orders, models.Order{
			ID:        orderUUID.String(),
			UserID:    userID,
			Total:     total,
			Charge:    charge,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	for i := range orders {
		orderUUID, err := parseUUID(orders[i].ID)
		if err != nil {
			continue
		}
		items, err := s.loadItems(ctx, session, orderUUID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}
