// Package auth porte le contexte de session d'une requête et la garde
// d'autorisation. La session est construite une fois par le middleware puis
// lue en l'état par le reste du code : aucun composant ne la modifie.
package auth

import "velora_back_end/internal/models"

// Session est l'identité résolue de l'appelant pour une requête.
// UserID vide = requête anonyme (token absent ou invalide) ; ce n'est pas
// une erreur en soi, chaque opération décide si elle exige l'authentification.
type Session struct {
	UserID string
	Email  string
	Caller *models.User
}

// Authenticated retourne vrai si un token vérifié a résolu un appelant.
func (s Session) Authenticated() bool {
	return s.UserID != "" && s.Caller != nil
}
