package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
	"velora_back_end/internal/payment"
	"velora_back_end/internal/store"
)

// ---- fakes ----

type fakeCartStore struct {
	lines      map[string]*models.CartItem // clé = id de ligne
	deletedIDs []string
	deleteErr  error
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: map[string]*models.CartItem{}}
}

func (f *fakeCartStore) put(id, userID, itemID string, qty int) {
	f.lines[id] = &models.CartItem{ID: id, UserID: userID, ItemID: itemID, Quantity: qty}
}

func (f *fakeCartStore) Add(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	id := fmt.Sprintf("line-%d", len(f.lines)+1)
	f.put(id, userID, itemID, 1)
	return f.lines[id], nil
}

func (f *fakeCartStore) Get(ctx context.Context, cartItemID string) (*models.CartItem, error) {
	if line, ok := f.lines[cartItemID]; ok {
		return line, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeCartStore) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, line := range f.lines {
		if line.UserID == userID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (f *fakeCartStore) Delete(ctx context.Context, line *models.CartItem) error {
	delete(f.lines, line.ID)
	return nil
}

func (f *fakeCartStore) DeleteMany(ctx context.Context, lines []models.CartItem) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, line := range lines {
		f.deletedIDs = append(f.deletedIDs, line.ID)
		delete(f.lines, line.ID)
	}
	return nil
}

type fakeItemStore struct {
	items map[string]*models.Item
}

func (f *fakeItemStore) Create(ctx context.Context, item *models.Item) error { return nil }
func (f *fakeItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	if it, ok := f.items[id]; ok {
		return it, nil
	}
	return nil, store.ErrNotFound
}
func (f *fakeItemStore) GetMany(ctx context.Context, ids []string) (map[string]*models.Item, error) {
	out := map[string]*models.Item{}
	for _, id := range ids {
		if it, ok := f.items[id]; ok {
			out[id] = it
		}
	}
	return out, nil
}
func (f *fakeItemStore) Update(ctx context.Context, item *models.Item) error { return nil }
func (f *fakeItemStore) Delete(ctx context.Context, id string) error         { return nil }
func (f *fakeItemStore) List(ctx context.Context) ([]models.Item, error)     { return nil, nil }
func (f *fakeItemStore) SetImages(ctx context.Context, id, image, largeImage string) error {
	return nil
}

type fakeOrderStore struct {
	created   []*models.Order
	createErr error
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = fmt.Sprintf("order-%d", len(f.created)+1)
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return nil, store.ErrNotFound
}

func (f *fakeOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return nil, nil
}

type fakeGateway struct {
	calls     int
	gotAmount int64
	charge    payment.Charge
	err       error
	// onCharge permet de simuler une écriture concurrente pendant la capture.
	onCharge func()
}

func (f *fakeGateway) Charge(ctx context.Context, amount int64, currency, source string) (payment.Charge, error) {
	f.calls++
	f.gotAmount = amount
	if f.onCharge != nil {
		f.onCharge()
	}
	if f.err != nil {
		return payment.Charge{}, f.err
	}
	return f.charge, nil
}

type fakeLocker struct {
	held     bool
	refuse   bool
	released bool
}

func (f *fakeLocker) Acquire(ctx context.Context, userID string) (bool, error) {
	if f.refuse {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLocker) Release(ctx context.Context, userID string) {
	f.held = false
	f.released = true
}

// ---- helpers ----

func sessionFor(userID string) auth.Session {
	return auth.Session{
		UserID: userID,
		Email:  userID + "@velora.fr",
		Caller: &models.User{ID: userID, Permissions: models.DefaultPermissions},
	}
}

type fixture struct {
	carts   *fakeCartStore
	items   *fakeItemStore
	orders  *fakeOrderStore
	gateway *fakeGateway
	locker  *fakeLocker
	svc     *Service
}

func newFixture() *fixture {
	f := &fixture{
		carts: newFakeCartStore(),
		items: &fakeItemStore{items: map[string]*models.Item{
			"it-1": {ID: "it-1", Title: "Bougie", Price: 1500, Description: "Cire végétale", Image: "/uploads/b.jpg", LargeImage: "/uploads/b-lg.jpg"},
			"it-2": {ID: "it-2", Title: "Savon", Price: 800},
		}},
		orders:  &fakeOrderStore{},
		gateway: &fakeGateway{charge: payment.Charge{ID: "ch_test", Amount: 3800}},
		locker:  &fakeLocker{},
	}
	f.svc = NewService(f.carts, f.items, f.orders, f.gateway, f.locker)
	return f
}

// ---- tests ----

func TestCheckoutEmptyCartNeverReachesGateway(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))
	assert.Zero(t, f.gateway.calls)
	assert.Empty(t, f.orders.created)
}

func TestCheckoutAnonymous(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), auth.Session{}, "tok_visa")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutChargesLocalTotal(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 2) // 2 × 1500
	f.carts.put("line-2", "u-1", "it-2", 1) // 1 × 800

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, int64(3800), f.gateway.gotAmount)
}

// Le total de la commande est le montant capturé par la passerelle, pas le
// calcul local.
func TestCheckoutOrderTotalComesFromGateway(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-2", 1)
	f.gateway.charge = payment.Charge{ID: "ch_test", Amount: 812} // frais inclus côté passerelle

	order, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, int64(812), order.Total)
	assert.Equal(t, "ch_test", order.Charge)
}

func TestCheckoutOrderItemsSnapshotDisplayFields(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 2)

	order, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	got := order.Items[0]
	assert.Equal(t, "Bougie", got.Title)
	assert.Equal(t, int64(1500), got.Price)
	assert.Equal(t, "Cire végétale", got.Description)
	assert.Equal(t, "/uploads/b.jpg", got.Image)
	assert.Equal(t, "/uploads/b-lg.jpg", got.LargeImage)
	assert.Equal(t, 2, got.Quantity)
}

// Une ligne ajoutée entre le snapshot et le nettoyage survit au checkout.
func TestCheckoutCleanupIsScopedToSnapshot(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.gateway.onCharge = func() {
		f.carts.put("line-late", "u-1", "it-2", 1)
	}

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	require.NoError(t, err)

	assert.Equal(t, []string{"line-1"}, f.carts.deletedIDs)
	remaining, _ := f.carts.ListByUser(context.Background(), "u-1")
	require.Len(t, remaining, 1)
	assert.Equal(t, "line-late", remaining[0].ID)
}

func TestCheckoutGatewayRefusalLeavesCartIntact(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.gateway.err = errors.New("card_declined")

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.GatewayFailure, apperr.KindOf(err))
	assert.Empty(t, f.orders.created)

	remaining, _ := f.carts.ListByUser(context.Background(), "u-1")
	assert.Len(t, remaining, 1)
}

// Un timeout de capture est un résultat inconnu : jamais réessayé, signalé
// comme commit partiel.
func TestCheckoutGatewayTimeoutIsPartialCommit(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.gateway.err = fmt.Errorf("capture: %w", context.DeadlineExceeded)

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.PartialCommit, apperr.KindOf(err))
	assert.Empty(t, f.orders.created)
}

func TestCheckoutOrderWriteFailureIsPartialCommit(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.orders.createErr = errors.New("scylla indisponible")

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.PartialCommit, apperr.KindOf(err))

	// Le panier n'a pas été nettoyé : la réconciliation part de là
	remaining, _ := f.carts.ListByUser(context.Background(), "u-1")
	assert.Len(t, remaining, 1)
}

func TestCheckoutCleanupFailureIsPartialCommit(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.carts.deleteErr = errors.New("scylla indisponible")

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.PartialCommit, apperr.KindOf(err))
	// La commande, elle, existe
	assert.Len(t, f.orders.created, 1)
}

func TestCheckoutRefusedWhenLockHeld(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.locker.refuse = true

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutReleasesLockOnFailure(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)
	f.gateway.err = errors.New("card_declined")

	f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.True(t, f.locker.released)
	assert.False(t, f.locker.held)
}

func TestCheckoutMissingItemRefusedBeforeCapture(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-supprime", 1)

	_, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	assert.Equal(t, apperr.InvalidOperation, apperr.KindOf(err))
	assert.Zero(t, f.gateway.calls)
}

func TestCheckoutNotifiesOnOrderCreated(t *testing.T) {
	f := newFixture()
	f.carts.put("line-1", "u-1", "it-1", 1)

	var gotEmail string
	var gotOrder models.Order
	f.svc.OnOrderCreated = func(order models.Order, email string) {
		gotOrder = order
		gotEmail = email
	}

	order, err := f.svc.Checkout(context.Background(), sessionFor("u-1"), "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, "u-1@velora.fr", gotEmail)
	assert.Equal(t, order.ID, gotOrder.ID)
}
