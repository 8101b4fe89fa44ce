package models

import "time"

type User struct {
	ID          string       `json:"user_id"`
	Name        string       `json:"name,omitempty"`
	Email       string       `json:"email"`
	Password    string       `json:"-"`
	Permissions []Permission `json:"permissions"`

	// Les deux champs reset sont soit tous les deux renseignés, soit tous les deux nuls.
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HasAny retourne vrai si l'utilisateur détient au moins une des permissions demandées.
func (u *User) HasAny(required ...Permission) bool {
	for _, need := range required {
		for _, have := range u.Permissions {
			if have == need {
				return true
			}
		}
	}
	return false
}
