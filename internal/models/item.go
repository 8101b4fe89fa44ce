package models

import "time"

// Item est une entité catalogue. Le prix est en centimes (unité mineure),
// jamais en flottant.
type Item struct {
	ID          string    `json:"item_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
