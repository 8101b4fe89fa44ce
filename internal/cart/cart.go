// Package cart est le moteur de consolidation du panier : au plus une ligne
// par couple (user, item), l'incrément étant sérialisé par le store.
package cart

import (
	"context"
	"errors"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

type Service struct {
	carts store.CartStore
	items store.ItemStore
}

func NewService(carts store.CartStore, items store.ItemStore) *Service {
	return &Service{carts: carts, items: items}
}

// AddToCart ajoute un article au panier de l'appelant. Si une ligne existe
// déjà pour ce couple (user, item), sa quantité est incrémentée de 1 ;
// sinon une ligne à quantité 1 est créée. L'aller-retour lecture/écriture
// est sérialisé par le store : jamais deux lignes pour le même couple.
func (s *Service) AddToCart(ctx context.Context, session auth.Session, itemID string) (*models.CartItem, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}

	item, err := s.items.Get(ctx, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Article introuvable")
	}
	if err != nil {
		return nil, err
	}

	line, err := s.carts.Add(ctx, session.UserID, itemID)
	if err != nil {
		return nil, err
	}
	line.Item = item
	return line, nil
}

// RemoveFromCart supprime une ligne du panier de l'appelant.
// La propriété est absolue : même un ADMIN ne retire pas la ligne d'autrui.
func (s *Service) RemoveFromCart(ctx context.Context, session auth.Session, cartItemID string) (*models.CartItem, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}

	line, err := s.carts.Get(ctx, cartItemID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "Aucune ligne de panier trouvée")
	}
	if err != nil {
		return nil, err
	}

	if line.UserID != session.UserID {
		return nil, apperr.New(apperr.Forbidden, "Cette ligne de panier ne vous appartient pas")
	}

	if err := s.carts.Delete(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// GetCart retourne le panier de l'appelant avec les articles joints.
func (s *Service) GetCart(ctx context.Context, session auth.Session) ([]models.CartItem, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}

	lines, err := s.carts.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return []models.CartItem{}, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	items, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Item = items[lines[i].ItemID]
	}
	return lines, nil
}
