// Package checkout orchestre la séquence d'achat : snapshot du panier,
// calcul du total, capture du paiement, matérialisation de la commande puis
// nettoyage du panier. La capture est le point de non-retour : une fois
// l'argent parti, une commande DOIT finir par exister.
package checkout

import (
	"context"
	"errors"
	"log"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
	"velora_back_end/internal/payment"
	"velora_back_end/internal/store"
)

// Currency est le code devise fixe de toutes les captures.
const Currency = "eur"

// Locker sérialise les checkouts par utilisateur : au plus un en vol.
type Locker interface {
	Acquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string)
}

type Service struct {
	carts   store.CartStore
	items   store.ItemStore
	orders  store.OrderStore
	gateway payment.Gateway
	locker  Locker

	// OnOrderCreated est appelé après un checkout réussi (e-mail de
	// confirmation). Jamais bloquant pour la réponse, peut être nil.
	OnOrderCreated func(order models.Order, email string)
}

func NewService(carts store.CartStore, items store.ItemStore, orders store.OrderStore,
	gateway payment.Gateway, locker Locker) *Service {
	return &Service{carts: carts, items: items, orders: orders, gateway: gateway, locker: locker}
}

// Checkout exécute la séquence, strictement dans cet ordre :
//  1. authentification ;
//  2. snapshot du panier (lignes + articles référencés) ;
//  3. total = Σ prix × quantité — panier vide refusé avant tout appel réseau ;
//  4. capture du paiement (point de non-retour) ;
//  5. matérialisation de la commande, total = montant capturé par la
//     passerelle (pas le calcul local) ;
//  6. nettoyage des lignes du snapshot, par identifiants capturés : une
//     ligne ajoutée entre 2 et 6 survit.
//
// Tout échec après la capture est un commit partiel : loggé avec l'id de
// charge pour réconciliation manuelle, retourné comme erreur distincte,
// jamais réessayé (un retry risquerait un double débit).
func (s *Service) Checkout(ctx context.Context, session auth.Session, source string) (*models.Order, error) {
	if err := auth.RequireAuthenticated(session); err != nil {
		return nil, err
	}
	userID := session.UserID

	acquired, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperr.New(apperr.InvalidOperation, "Un paiement est déjà en cours pour ce compte")
	}
	defer s.locker.Release(context.WithoutCancel(ctx), userID)

	// 2. Snapshot
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.New(apperr.InvalidOperation, "Votre panier est vide")
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	items, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 3. Total local, en centimes
	var amount int64
	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok {
			return nil, apperr.New(apperr.InvalidOperation, "Un article de votre panier n'existe plus")
		}
		amount += item.Price * int64(line.Quantity)
	}
	if amount <= 0 {
		return nil, apperr.New(apperr.InvalidOperation, "Le montant du panier est nul")
	}

	// 4. Capture — point de non-retour
	charge, err := s.gateway.Charge(ctx, amount, Currency, source)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// Résultat inconnu : la capture a peut-être abouti côté
			// passerelle. Surtout ne pas réessayer.
			log.Printf("🚨 Capture au résultat inconnu (timeout) pour user %s, montant %d", userID, amount)
			return nil, apperr.Wrap(apperr.PartialCommit,
				"Le résultat du paiement est inconnu, ne relancez pas l'opération", err)
		}
		return nil, apperr.Wrap(apperr.GatewayFailure, "Le paiement a été refusé", err)
	}

	// À partir d'ici l'annulation de la requête ne doit plus interrompre
	// les écritures locales.
	ctx = context.WithoutCancel(ctx)

	// 5. Matérialisation : copie des champs d'affichage, identifiants neufs
	order := &models.Order{
		UserID: userID,
		Total:  charge.Amount,
		Charge: charge.ID,
	}
	for _, line := range lines {
		item := items[line.ItemID]
		order.Items = append(order.Items, models.OrderItem{
			Title:       item.Title,
			Price:       item.Price,
			Description: item.Description,
			Image:       item.Image,
			LargeImage:  item.LargeImage,
			Quantity:    line.Quantity,
		})
	}
	if err := s.orders.Create(ctx, order); err != nil {
		log.Printf("🚨 COMMIT PARTIEL : charge %s capturée (%d) mais commande non enregistrée pour user %s : %v",
			charge.ID, charge.Amount, userID, err)
		return nil, apperr.Wrap(apperr.PartialCommit,
			"Le paiement a été capturé mais la commande n'a pas pu être enregistrée, contactez le support", err)
	}

	// 6. Nettoyage scopé aux identifiants du snapshot
	if err := s.carts.DeleteMany(ctx, lines); err != nil {
		log.Printf("🚨 COMMIT PARTIEL : commande %s créée (charge %s) mais panier non nettoyé pour user %s : %v",
			order.ID, charge.ID, userID, err)
		return nil, apperr.Wrap(apperr.PartialCommit,
			"La commande a été enregistrée mais le panier n'a pas pu être vidé, contactez le support", err)
	}

	log.Printf("✅ Checkout terminé : commande %s, charge %s, total %d", order.ID, order.Charge, order.Total)

	if s.OnOrderCreated != nil {
		s.OnOrderCreated(*order, session.Email)
	}

	// 7. Retour de la commande
	return order, nil
}
