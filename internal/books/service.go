package books

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"lms-backend/internal/platform/apierr"
)

type Service struct {
	store BookStore
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

func (s *Service) Add(ctx context.Context, req CreateBookRequest) (*BookResponse, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return nil, apierr.Invalid("title and author are required")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, apierr.Invalid("quantity must be a non-negative number")
	}

	b := &Book{Title: req.Title, Author: req.Author, Quantity: *req.Quantity}
	if err := s.store.Insert(ctx, b); err != nil {
		return nil, err
	}
	resp := toResponse(b)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*BookResponse, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apierr.NotFound("book not found")
	}
	resp := toResponse(b)
	return &resp, nil
}

// List searches the catalog: numeric query is an exact-id lookup, anything
// else a substring match over title and author; empty lists everything.
func (s *Service) List(ctx context.Context, q string) ([]BookResponse, error) {
	q = strings.TrimSpace(q)

	var (
		rows []Book
		err  error
	)
	switch {
	case q == "":
		rows, err = s.store.ListAll(ctx)
	default:
		if id, convErr := strconv.ParseInt(q, 10, 64); convErr == nil {
			b, getErr := s.store.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if b == nil {
				return []BookResponse{}, nil
			}
			return []BookResponse{toResponse(b)}, nil
		}
		rows, err = s.store.Search(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	res := make([]BookResponse, 0, len(rows))
	for i := range rows {
		res = append(res, toResponse(&rows[i]))
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBookRequest) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return apierr.Invalid("title and author are required")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return apierr.Invalid("quantity must be a non-negative number")
	}

	b := &Book{ID: id, Title: req.Title, Author: req.Author, Quantity: *req.Quantity}
	n, err := s.store.Update(ctx, b)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("book not found")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
