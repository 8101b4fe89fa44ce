// Package payment isole la passerelle de paiement derrière une interface :
// l'orchestrateur de checkout ne connaît ni Stripe ni ses types.
package payment

import (
	"context"
	"log"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// Charge est le résultat d'une capture réussie. Amount est le montant
// réellement capturé par la passerelle, qui fait foi sur le calcul local.
type Charge struct {
	ID     string
	Amount int64
}

// Gateway capture un paiement de façon synchrone : succès ou échec franc.
// amount est en unité mineure (centimes), source un token de paiement opaque
// fourni par l'appelant.
type Gateway interface {
	Charge(ctx context.Context, amount int64, currency, source string) (Charge, error)
}

// ChargeTimeout borne l'appel réseau vers Stripe. Un dépassement après
// émission est un résultat inconnu, pas un échec : l'appelant ne doit
// jamais réessayer (risque de double débit).
const ChargeTimeout = 30 * time.Second

// StripeGateway capture via un PaymentIntent confirmé immédiatement.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, amount int64, currency, source string) (Charge, error) {
	ctx, cancel := context.WithTimeout(ctx, ChargeTimeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(currency),
		PaymentMethod: stripe.String(source),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return Charge{}, err
	}

	log.Printf("💳 Paiement capturé : %s (%d %s)", intent.ID, intent.Amount, currency)
	return Charge{ID: intent.ID, Amount: intent.Amount}, nil
}
