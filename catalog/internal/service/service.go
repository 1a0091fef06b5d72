package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
	"github.com/arthalon/library-catalog/catalog/internal/repository"
	"github.com/arthalon/library-catalog/pkg/auth"
)

const sessionTTL = 24 * time.Hour

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, pinning "today" in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, log *zap.Logger, ops ...Option) *Service {
	s := &Service{
		log:  log,
		repo: repo,
		now:  time.Now,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

func (s *Service) Summary(ctx context.Context) (model.Summary, error) {
	return s.repo.Summary(ctx)
}

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	page, size = normalizePaging(page, size)
	return s.repo.ListBooks(ctx, page, size)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.BookDetail, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error) {
	page, size = normalizePaging(page, size)
	return s.repo.ListAuthors(ctx, page, size)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	return s.repo.CreateAuthor(ctx, req)
}

func (s *Service) GetInstance(ctx context.Context, instanceUid string) (model.BookInstance, error) {
	inst, err := s.repo.GetInstance(ctx, instanceUid)
	if err != nil {
		return model.BookInstance{}, err
	}
	inst.StatusLabel = inst.Status.Label()
	return inst, nil
}

func (s *Service) CreateInstance(ctx context.Context, req model.CreateInstanceRequest) (model.BookInstance, error) {
	return s.repo.CreateInstance(ctx, req)
}

func (s *Service) RegisterUser(ctx context.Context, req model.UserCreateRequest) error {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	role := req.Role
	if role == "" {
		role = model.RoleReader
	}
	return s.repo.CreateUser(ctx, model.User{
		Username: req.Username,
		Password: hash,
		Email:    req.Email,
		Role:     role,
	})
}

// Authenticate verifies the credentials and issues a session token.
func (s *Service) Authenticate(ctx context.Context, req model.AuthRequest) (string, error) {
	user, err := s.repo.GetUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return "", errs.ErrInvalidCredentials
	}
	return auth.NewToken(user.Username, user.Role, user.Email, sessionTTL)
}

// HasCapability is the explicit permission lookup behind every
// librarian-gated action.
func (s *Service) HasCapability(ctx context.Context, role, capability string) (bool, error) {
	return s.repo.HasPermission(ctx, role, capability)
}

func normalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	return page, size
}
