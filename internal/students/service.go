package students

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"lms-backend/internal/platform/apierr"
	"lms-backend/internal/platform/auth"
)

const mysqlErrDupEntry = 1062

type Service struct {
	store StudentStore
}

func NewService(db *sql.DB) *Service { return &Service{store: NewStore(db)} }

// Add provisions an inert account with a fresh registration code. The code is
// returned exactly once here; the admin hands it to the student out of band.
func (s *Service) Add(ctx context.Context, req CreateStudentRequest) (*StudentResponse, error) {
	if req.ID <= 0 {
		return nil, apierr.Invalid("student id must be a positive number")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, apierr.Invalid("name and email are required")
	}

	code, err := GenerateRegCode()
	if err != nil {
		return nil, err
	}

	st := &Student{
		ID:      req.ID,
		Name:    req.Name,
		Email:   req.Email,
		RegCode: sql.NullString{String: code, Valid: true},
	}
	if err := s.store.Insert(ctx, st); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDupEntry {
			return nil, apierr.Conflict("student already exists")
		}
		return nil, err
	}

	resp := toResponse(st)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*StudentResponse, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apierr.NotFound("student not found")
	}
	resp := toResponse(st)
	return &resp, nil
}

// List returns the roster. A purely numeric query is an exact-id lookup,
// anything else a substring match over name and email; empty lists everyone.
func (s *Service) List(ctx context.Context, q string) ([]StudentResponse, error) {
	q = strings.TrimSpace(q)

	var (
		rows []Student
		err  error
	)
	switch {
	case q == "":
		rows, err = s.store.ListAll(ctx)
	default:
		if id, convErr := strconv.ParseInt(q, 10, 64); convErr == nil {
			st, getErr := s.store.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if st == nil {
				return []StudentResponse{}, nil
			}
			return []StudentResponse{toResponse(st)}, nil
		}
		rows, err = s.store.Search(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	res := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		res = append(res, toResponse(&rows[i]))
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateStudentRequest) error {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return apierr.Invalid("name and email are required")
	}

	n, err := s.store.Update(ctx, id, req.Name, req.Email)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDupEntry {
			return apierr.Conflict("email already exists")
		}
		return err
	}
	if n == 0 {
		return apierr.NotFound("student not found")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Activate turns a provisioned account into a usable one. The failure message
// never reveals whether the email or the code was wrong.
func (s *Service) Activate(ctx context.Context, req ActivateRequest) error {
	if req.Email == "" || req.Code == "" || req.Password == "" {
		return apierr.Invalid("email, code and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	ok, err := s.store.Activate(ctx, req.Email, req.Code, hash)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("invalid email or code")
	}
	return nil
}
