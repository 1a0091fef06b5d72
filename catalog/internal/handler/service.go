package handler

import (
	"context"
	"time"

	"github.com/arthalon/library-catalog/catalog/internal/model"
	"github.com/arthalon/library-catalog/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go -package=mocks

type CatalogService interface {
	Summary(ctx context.Context) (model.Summary, error)
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.BookDetail, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error)
	GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error)
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	GetInstance(ctx context.Context, instanceUid string) (model.BookInstance, error)
	CreateInstance(ctx context.Context, req model.CreateInstanceRequest) (model.BookInstance, error)
}

type LoanService interface {
	ListBorrowed(ctx context.Context, borrower string, page, size int) (model.ListInstances, error)
	RenewalProposal(ctx context.Context, instanceUid string) (model.RenewalForm, error)
	Renew(ctx context.Context, instanceUid string, renewalDate time.Time) error
	Checkout(ctx context.Context, instanceUid string, req model.CheckoutRequest) (model.BookInstance, error)
	Return(ctx context.Context, instanceUid string) (model.BookInstance, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, req model.UserCreateRequest) error
	Authenticate(ctx context.Context, req model.AuthRequest) (string, error)
	HasCapability(ctx context.Context, role, capability string) (bool, error)
}

var (
	_ CatalogService = (*service.Service)(nil)
	_ LoanService    = (*service.Service)(nil)
	_ AuthService    = (*service.Service)(nil)
)
