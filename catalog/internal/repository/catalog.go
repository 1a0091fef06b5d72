package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
)

func (r *repository) Summary(ctx context.Context) (model.Summary, error) {
	q := `
select (select count(*) from books)                                   as num_books,
       (select count(*) from book_instances)                          as num_instances,
       (select count(*) from book_instances where status = 'a')       as num_instances_available,
       (select count(*) from authors)                                 as num_authors,
       (select count(*) from genres)                                  as num_genres`

	var s model.Summary
	if err := r.db.GetContext(ctx, &s, q); err != nil {
		return model.Summary{}, err
	}
	return s, nil
}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	q := qb.Select("b.id", "b.title", "b.summary", "b.isbn", "b.author_id", "b.language_id",
		"coalesce(a.last_name || ', ' || a.first_name, '') as author",
		"coalesce(l.name, '') as language").
		From(booksTableName + " b").
		LeftJoin(authorsTableName + " a on a.id = b.author_id").
		LeftJoin(languagesTableName + " l on l.id = b.language_id").
		OrderBy("b.id")

	query, args, err := paginate(q, page, size).ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}
	if err := r.attachGenres(ctx, books); err != nil {
		return model.ListBooks{}, err
	}

	total, err := r.countRows(ctx, booksTableName)
	if err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.BookDetail, error) {
	query, args, err := qb.Select("b.id", "b.title", "b.summary", "b.isbn", "b.author_id", "b.language_id",
		"coalesce(a.last_name || ', ' || a.first_name, '') as author",
		"coalesce(l.name, '') as language").
		From(booksTableName + " b").
		LeftJoin(authorsTableName + " a on a.id = b.author_id").
		LeftJoin(languagesTableName + " l on l.id = b.language_id").
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BookDetail{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookDetail{}, errs.ErrNotFound
		}
		return model.BookDetail{}, err
	}

	books := []model.Book{book}
	if err := r.attachGenres(ctx, books); err != nil {
		return model.BookDetail{}, err
	}

	copies, err := r.listInstancesByBook(ctx, id)
	if err != nil {
		return model.BookDetail{}, err
	}

	return model.BookDetail{Book: books[0], Copies: copies}, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "summary", "isbn", "author_id", "language_id").
		Values(req.Title, req.Summary, req.ISBN, req.AuthorID, req.LanguageID).
		Suffix("returning id, title, summary, isbn, author_id, language_id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicate
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}

	if len(req.GenreIDs) > 0 {
		ins := qb.Insert(bookGenresTableName).Columns("book_id", "genre_id")
		for _, genreID := range req.GenreIDs {
			ins = ins.Values(book.ID, genreID)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return model.Book{}, err
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return model.Book{}, errors.Wrap(err, "book genres")
		}
	}

	books := []model.Book{book}
	if err := r.attachGenres(ctx, books); err != nil {
		return model.Book{}, err
	}
	return books[0], nil
}

func (r *repository) ListAuthors(ctx context.Context, page, size int) (model.ListAuthors, error) {
	q := qb.Select("id", "first_name", "last_name", "date_of_birth", "date_of_death").
		From(authorsTableName).
		OrderBy("last_name", "first_name")

	query, args, err := paginate(q, page, size).ToSql()
	if err != nil {
		return model.ListAuthors{}, err
	}

	var authors []model.Author
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return model.ListAuthors{}, err
	}

	total, err := r.countRows(ctx, authorsTableName)
	if err != nil {
		return model.ListAuthors{}, err
	}

	return model.ListAuthors{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: authors,
	}, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.AuthorDetail, error) {
	query, args, err := qb.Select("id", "first_name", "last_name", "date_of_birth", "date_of_death").
		From(authorsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.AuthorDetail{}, err
	}

	var author model.Author
	if err := r.db.GetContext(ctx, &author, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AuthorDetail{}, errs.ErrNotFound
		}
		return model.AuthorDetail{}, err
	}

	query, args, err = qb.Select("id", "title", "summary", "isbn", "author_id", "language_id").
		From(booksTableName).
		Where(sq.Eq{"author_id": id}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return model.AuthorDetail{}, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.AuthorDetail{}, err
	}

	return model.AuthorDetail{Author: author, Books: books}, nil
}

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	query, args, err := qb.Insert(authorsTableName).
		Columns("first_name", "last_name", "date_of_birth", "date_of_death").
		Values(req.FirstName, req.LastName, req.DateOfBirth, req.DateOfDeath).
		Suffix("returning id, first_name, last_name, date_of_birth, date_of_death").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}

	var author model.Author
	if err := r.db.GetContext(ctx, &author, query, args...); err != nil {
		r.log.Error("CreateAuthor", zap.String("q", query), zap.Any("args", args))
		return model.Author{}, err
	}
	return author, nil
}

// attachGenres loads the genres of the given books in one query and fills
// each Book.Genres in place.
func (r *repository) attachGenres(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	query, args, err := qb.Select("bg.book_id", "g.id", "g.name").
		From(genresTableName + " g").
		Join(fmt.Sprintf("%s bg on bg.genre_id = g.id", bookGenresTableName)).
		Where(sq.Eq{"bg.book_id": ids}).
		OrderBy("bg.book_id", "g.id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byBook := make(map[int][]model.Genre, len(books))
	for rows.Next() {
		var bookID int
		var g model.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return err
		}
		byBook[bookID] = append(byBook[bookID], g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range books {
		books[i].Genres = byBook[books[i].ID]
	}
	return nil
}

func (r *repository) countRows(ctx context.Context, table string) (int, error) {
	query, args, err := qb.Select("count(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}
