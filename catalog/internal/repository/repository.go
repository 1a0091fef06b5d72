package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/model"
)

type Repository interface {
	Summary(ctx context.Context) (model.Summary, error)

	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.BookDetail, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)

	ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error)
	GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error)
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)

	GetInstance(ctx context.Context, instanceUid string) (model.BookInstance, error)
	CreateInstance(ctx context.Context, req model.CreateInstanceRequest) (model.BookInstance, error)
	ListBorrowed(ctx context.Context, borrower string, page, size int) (model.ListInstances, error)
	RenewInstance(ctx context.Context, instanceUid string, dueBack time.Time) error
	CheckoutInstance(ctx context.Context, instanceUid, borrower string, dueBack time.Time) (model.BookInstance, error)
	ReturnInstance(ctx context.Context, instanceUid string) (model.BookInstance, error)

	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username string) (model.User, error)
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	authorsTableName    = `authors`
	genresTableName     = `genres`
	languagesTableName  = `languages`
	booksTableName      = `books`
	bookGenresTableName = `book_genres`
	usersTableName      = `users`
	rolePermsTableName  = `role_permissions`
	instancesTableName  = `book_instances`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
