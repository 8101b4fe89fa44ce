package cache

import (
	"context"
	"time"

	"velora_back_end/internal/database"
)

// CheckoutLockTTL borne la durée d'un verrou si le processus meurt en vol.
const CheckoutLockTTL = 60 * time.Second

// CheckoutLocker sérialise les checkouts par utilisateur : au plus un en vol.
// Le verrou est un SETNX Redis avec TTL, relâché en fin d'orchestration.
type CheckoutLocker struct{}

func NewCheckoutLocker() *CheckoutLocker {
	return &CheckoutLocker{}
}

// Acquire pose le verrou ; retourne faux si un checkout est déjà en cours.
func (l *CheckoutLocker) Acquire(ctx context.Context, userID string) (bool, error) {
	return database.Redis.SetNX(ctx, "checkout_lock:"+userID, "1", CheckoutLockTTL).Result()
}

// Release relâche le verrou. Idempotent.
func (l *CheckoutLocker) Release(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "checkout_lock:"+userID)
}
