package books

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-backend/internal/platform/apierr"
)

type fakeBookStore struct {
	byID   map[int64]*Book
	nextID int64
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{byID: make(map[int64]*Book)}
}

func (f *fakeBookStore) Insert(_ context.Context, b *Book) error {
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBookStore) GetByID(_ context.Context, id int64) (*Book, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookStore) ListAll(_ context.Context) ([]Book, error) {
	res := make([]Book, 0, len(f.byID))
	for _, b := range f.byID {
		res = append(res, *b)
	}
	return res, nil
}

func (f *fakeBookStore) Search(_ context.Context, q string) ([]Book, error) {
	var res []Book
	for _, b := range f.byID {
		if strings.Contains(b.Title, q) || strings.Contains(b.Author, q) {
			res = append(res, *b)
		}
	}
	return res, nil
}

func (f *fakeBookStore) Update(_ context.Context, b *Book) (int64, error) {
	cur, ok := f.byID[b.ID]
	if !ok {
		return 0, nil
	}
	*cur = *b
	return 1, nil
}

func (f *fakeBookStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apierr.NotFound("book not found")
	}
	delete(f.byID, id)
	return nil
}

func intPtr(n int) *int { return &n }

func TestAddBook(t *testing.T) {
	store := newFakeBookStore()
	svc := &Service{store: store}

	res, err := svc.Add(context.Background(), CreateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, 3, res.Quantity)
}

func TestAddBookValidation(t *testing.T) {
	svc := &Service{store: newFakeBookStore()}
	ctx := context.Background()

	_, err := svc.Add(ctx, CreateBookRequest{Title: " ", Author: "Herbert", Quantity: intPtr(3)})
	assert.Equal(t, 400, apierr.ToHTTPStatus(err))

	_, err = svc.Add(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(-1)})
	assert.Equal(t, 400, apierr.ToHTTPStatus(err))

	// Zero copies is a valid catalog entry, just not issuable.
	res, err := svc.Add(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quantity)
}

func TestListBookQueryModes(t *testing.T) {
	store := newFakeBookStore()
	svc := &Service{store: store}
	ctx := context.Background()

	_, err := svc.Add(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(3)})
	require.NoError(t, err)
	_, err = svc.Add(ctx, CreateBookRequest{Title: "Hyperion", Author: "Simmons", Quantity: intPtr(1)})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byID, err := svc.List(ctx, "2")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "Hyperion", byID[0].Title)

	missing, err := svc.List(ctx, "99")
	require.NoError(t, err)
	assert.Empty(t, missing)

	byTitle, err := svc.List(ctx, "Dun")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Dune", byTitle[0].Title)

	byAuthor, err := svc.List(ctx, "Simmons")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Hyperion", byAuthor[0].Title)
}

func TestUpdateBook(t *testing.T) {
	store := newFakeBookStore()
	svc := &Service{store: store}
	ctx := context.Background()

	res, err := svc.Add(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(3)})
	require.NoError(t, err)

	err = svc.Update(ctx, res.ID, UpdateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, store.byID[res.ID].Quantity)

	err = svc.Update(ctx, res.ID, UpdateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(-2)})
	assert.Equal(t, 400, apierr.ToHTTPStatus(err))

	err = svc.Update(ctx, 99, UpdateBookRequest{Title: "Dune", Author: "Herbert", Quantity: intPtr(5)})
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))
}

func TestGetAndDeleteBookNotFound(t *testing.T) {
	svc := &Service{store: newFakeBookStore()}
	ctx := context.Background()

	_, err := svc.Get(ctx, 99)
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))

	err = svc.Delete(ctx, 99)
	assert.Equal(t, 404, apierr.ToHTTPStatus(err))
}
