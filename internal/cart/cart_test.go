package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/apperr"
	"velora_back_end/internal/auth"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// fakeCartStore reproduit le contrat du store Scylla : une seule ligne par
// couple (user, item), l'ajout répété incrémente.
type fakeCartStore struct {
	lines map[string]*models.CartItem // clé user|item
	next  int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: map[string]*models.CartItem{}}
}

func (f *fakeCartStore) key(userID, itemID string) string { return userID + "|" + itemID }

func (f *fakeCartStore) Add(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	if line, ok := f.lines[f.key(userID, itemID)]; ok {
		line.Quantity++
		dup := *line
		return &dup, nil
	}
	f.next++
	line := &models.CartItem{
		ID:       fmt.Sprintf("line-%d", f.next),
		UserID:   userID,
		ItemID:   itemID,
		Quantity: 1,
	}
	f.lines[f.key(userID, itemID)] = line
	dup := *line
	return &dup, nil
}

func (f *fakeCartStore) Get(ctx context.Context, cartItemID string) (*models.CartItem, error) {
	for _, line := range f.lines {
		if line.ID == cartItemID {
			dup := *line
			return &dup, nil
		}
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
	delete(f.lines, f.key(line.UserID, line.ItemID))
	return nil
}

func (f *fakeCartStore) DeleteMany(ctx context.Context, lines []models.CartItem) error {
	for i := range lines {
		f.Delete(ctx, &lines[i])
	}
	return nil
}

type fakeItemStore struct {
	items map[string]*models.Item
}

func newFakeItemStore(items ...*models.Item) *fakeItemStore {
	f := &fakeItemStore{items: map[string]*models.Item{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeItemStore) Create(ctx context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

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

func sessionFor(userID string) auth.Session {
	return auth.Session{
		UserID: userID,
		Email:  userID + "@velora.fr",
		Caller: &models.User{ID: userID, Permissions: models.DefaultPermissions},
	}
}

func TestAddToCartCreatesLineWithQuantityOne(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewService(carts, newFakeItemStore(&models.Item{ID: "it-1", Title: "Bougie", Price: 1500}))

	line, err := svc.AddToCart(context.Background(), sessionFor("u-1"), "it-1")
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	require.NotNil(t, line.Item)
	assert.Equal(t, "Bougie", line.Item.Title)
}

func TestAddToCartTwiceConvergesToOneLine(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewService(carts, newFakeItemStore(&models.Item{ID: "it-1", Price: 1500}))
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, sessionFor("u-1"), "it-1")
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, sessionFor("u-1"), "it-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	all, err := svc.GetCart(ctx, sessionFor("u-1"))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].Quantity)
}

func TestAddToCartUnknownItem(t *testing.T) {
	svc := NewService(newFakeCartStore(), newFakeItemStore())

	_, err := svc.AddToCart(context.Background(), sessionFor("u-1"), "it-absent")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestAddToCartAnonymous(t *testing.T) {
	svc := NewService(newFakeCartStore(), newFakeItemStore())

	_, err := svc.AddToCart(context.Background(), auth.Session{}, "it-1")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}

func TestRemoveFromCartUnknownLine(t *testing.T) {
	svc := NewService(newFakeCartStore(), newFakeItemStore())

	_, err := svc.RemoveFromCart(context.Background(), sessionFor("u-1"), "line-42")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

// La propriété est absolue : même un admin ne touche pas au panier d'autrui.
func TestRemoveFromCartForeignLine(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewService(carts, newFakeItemStore(&models.Item{ID: "it-1", Price: 100}))
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, sessionFor("u-1"), "it-1")
	require.NoError(t, err)

	admin := sessionFor("u-2")
	admin.Caller.Permissions = []models.Permission{models.PermAdmin}
	_, err = svc.RemoveFromCart(ctx, admin, line.ID)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	// La ligne est toujours là
	all, err := svc.GetCart(ctx, sessionFor("u-1"))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRemoveFromCartReturnsRemovedLine(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewService(carts, newFakeItemStore(&models.Item{ID: "it-1", Price: 100}))
	ctx := context.Background()

	line, err := svc.AddToCart(ctx, sessionFor("u-1"), "it-1")
	require.NoError(t, err)

	removed, err := svc.RemoveFromCart(ctx, sessionFor("u-1"), line.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, removed.ID)

	all, err := svc.GetCart(ctx, sessionFor("u-1"))
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetCartJoinsItems(t *testing.T) {
	carts := newFakeCartStore()
	svc := NewService(carts, newFakeItemStore(
		&models.Item{ID: "it-1", Title: "Bougie", Price: 1500},
		&models.Item{ID: "it-2", Title: "Savon", Price: 800},
	))
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, sessionFor("u-1"), "it-1")
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, sessionFor("u-1"), "it-2")
	require.NoError(t, err)

	all, err := svc.GetCart(ctx, sessionFor("u-1"))
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, line := range all {
		require.NotNil(t, line.Item)
		assert.Equal(t, line.ItemID, line.Item.ID)
	}
}
