package auth

import (
	"velora_back_end/internal/apperr"
	"velora_back_end/internal/models"
)

// RequireAuthenticated échoue si la session ne porte pas d'appelant résolu.
func RequireAuthenticated(s Session) error {
	if !s.Authenticated() {
		return apperr.New(apperr.Unauthenticated, "Vous devez être connecté pour faire cela")
	}
	return nil
}

// RequireAny passe si l'appelant détient au moins une des permissions
// demandées. Prédicat pur sur la session déjà résolue : seules les
// permissions listées comptent, ADMIN n'est pas un passe-droit implicite.
func RequireAny(s Session, required ...models.Permission) error {
	if err := RequireAuthenticated(s); err != nil {
		return err
	}
	if !s.Caller.HasAny(required...) {
		return apperr.New(apperr.Forbidden, "Permission insuffisante")
	}
	return nil
}
