package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
)

func (r *repository) GetInstance(ctx context.Context, instanceUid string) (model.BookInstance, error) {
	query, args, err := qb.Select("i.id", "i.instance_uid", "i.book_id", "b.title as book_title",
		"i.imprint", "i.due_back", "i.status", "i.borrower").
		From(instancesTableName + " i").
		Join(fmt.Sprintf("%s b on b.id = i.book_id", booksTableName)).
		Where(sq.Eq{"i.instance_uid": instanceUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BookInstance{}, err
	}

	var inst model.BookInstance
	if err := r.db.GetContext(ctx, &inst, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookInstance{}, errs.ErrNotFound
		}
		return model.BookInstance{}, err
	}
	return inst, nil
}

func (r *repository) CreateInstance(ctx context.Context, req model.CreateInstanceRequest) (model.BookInstance, error) {
	status := req.Status
	if status == "" {
		status = model.StatusMaintenance
	}
	query, args, err := qb.Insert(instancesTableName).
		Columns("instance_uid", "book_id", "imprint", "status").
		Values(uuid.New(), req.BookID, req.Imprint, status).
		Suffix("returning id, instance_uid, book_id, imprint, due_back, status, borrower").
		ToSql()
	if err != nil {
		return model.BookInstance{}, err
	}

	var inst model.BookInstance
	if err := r.db.GetContext(ctx, &inst, query, args...); err != nil {
		r.log.Error("CreateInstance", zap.String("q", query), zap.Any("args", args))
		return model.BookInstance{}, err
	}
	return inst, nil
}

// ListBorrowed returns on-loan copies ordered by due date. An empty borrower
// selects every on-loan copy (the librarian view).
func (r *repository) ListBorrowed(ctx context.Context, borrower string, page, size int) (model.ListInstances, error) {
	base := qb.Select("i.id", "i.instance_uid", "i.book_id", "b.title as book_title",
		"i.imprint", "i.due_back", "i.status", "i.borrower").
		From(instancesTableName + " i").
		Join(fmt.Sprintf("%s b on b.id = i.book_id", booksTableName)).
		Where(sq.Eq{"i.status": model.StatusOnLoan}).
		OrderBy("i.due_back")

	countQ := qb.Select("count(*)").
		From(instancesTableName + " i").
		Where(sq.Eq{"i.status": model.StatusOnLoan})

	if borrower != "" {
		base = base.Where(sq.Eq{"i.borrower": borrower})
		countQ = countQ.Where(sq.Eq{"i.borrower": borrower})
	}

	query, args, err := paginate(base, page, size).ToSql()
	if err != nil {
		return model.ListInstances{}, err
	}
	r.log.Debug("ListBorrowed", zap.String("query", query), zap.Any("args", args))

	var items []model.BookInstance
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return model.ListInstances{}, err
	}

	query, args, err = countQ.ToSql()
	if err != nil {
		return model.ListInstances{}, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return model.ListInstances{}, err
	}

	return model.ListInstances{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

func (r *repository) RenewInstance(ctx context.Context, instanceUid string, dueBack time.Time) error {
	q := fmt.Sprintf(`update %s set due_back = $2 where instance_uid = $1 and status = 'o'`, instancesTableName)

	res, err := r.db.ExecContext(ctx, q, instanceUid, dueBack.Format(time.DateOnly))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	// either the copy does not exist or it is not on loan
	if _, err := r.GetInstance(ctx, instanceUid); err != nil {
		return err
	}
	return errs.ErrNotOnLoan
}

func (r *repository) CheckoutInstance(ctx context.Context, instanceUid, borrower string, dueBack time.Time) (model.BookInstance, error) {
	q := fmt.Sprintf(`
update %s set status = 'o', borrower = $2, due_back = $3
where instance_uid = $1 and status = 'a'
returning id, instance_uid, book_id, imprint, due_back, status, borrower`, instancesTableName)

	var inst model.BookInstance
	err := r.db.GetContext(ctx, &inst, q, instanceUid, borrower, dueBack.Format(time.DateOnly))
	if err == nil {
		return inst, nil
	}
	if isForeignKeyViolation(err) {
		// borrower references users(username)
		return model.BookInstance{}, errs.ErrUnknownBorrower
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.BookInstance{}, err
	}

	if _, err := r.GetInstance(ctx, instanceUid); err != nil {
		return model.BookInstance{}, err
	}
	return model.BookInstance{}, errs.ErrNotAvailable
}

func (r *repository) ReturnInstance(ctx context.Context, instanceUid string) (model.BookInstance, error) {
	q := fmt.Sprintf(`
update %s set status = 'a', borrower = null, due_back = null
where instance_uid = $1 and status = 'o'
returning id, instance_uid, book_id, imprint, due_back, status, borrower`, instancesTableName)

	var inst model.BookInstance
	err := r.db.GetContext(ctx, &inst, q, instanceUid)
	if err == nil {
		return inst, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.BookInstance{}, err
	}

	if _, err := r.GetInstance(ctx, instanceUid); err != nil {
		return model.BookInstance{}, err
	}
	return model.BookInstance{}, errs.ErrNotOnLoan
}

func (r *repository) listInstancesByBook(ctx context.Context, bookID int) ([]model.BookInstance, error) {
	query, args, err := qb.Select("id", "instance_uid", "book_id", "imprint", "due_back", "status", "borrower").
		From(instancesTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("due_back nulls first").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.BookInstance
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
