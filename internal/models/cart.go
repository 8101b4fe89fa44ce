package models

// CartItem est une ligne de panier : au plus une par couple (user, item).
type CartItem struct {
	ID       string `json:"cart_item_id"`
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`

	// Renseigné par les lectures qui joignent le catalogue (panier, checkout).
	Item *Item `json:"item,omitempty"`
}
