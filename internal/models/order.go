package models

import "time"

// Order est immuable une fois créée. Total est le montant réellement capturé
// par la passerelle de paiement, Charge l'identifiant de transaction Stripe
// (conservé pour la réconciliation, jamais réutilisé).
type Order struct {
	ID        string      `json:"order_id"`
	UserID    string      `json:"user_id"`
	Total     int64       `json:"total"`
	Charge    string      `json:"charge"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem est une copie figée des champs d'affichage d'un Item au moment
// de l'achat. C'est une nouvelle entité, pas une référence au catalogue.
type OrderItem struct {
	ID          string `json:"order_item_id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	LargeImage  string `json:"large_image,omitempty"`
	Quantity    int    `json:"quantity"`
}
