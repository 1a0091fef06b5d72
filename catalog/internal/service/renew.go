package service

import (
	"context"
	"time"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
)

const (
	defaultPageSize = 10

	// renewal window in days: a renewal date must fall between today
	// and four weeks out; three weeks is proposed by default
	renewalWindowDays  = 28
	defaultRenewalDays = 21
)

// DefaultRenewalDate proposes today + 3 weeks.
func DefaultRenewalDate(now time.Time) time.Time {
	return model.Today(now).AddDate(0, 0, defaultRenewalDays)
}

// ValidateRenewalDate accepts d iff today <= d <= today + 4 weeks,
// at date precision. Only d's calendar day counts: it is rebuilt in
// now's location so a UTC-parsed date compares against a local today.
func ValidateRenewalDate(now, d time.Time) error {
	today := model.Today(now)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return errs.ErrRenewalInPast
	}
	if day.After(today.AddDate(0, 0, renewalWindowDays)) {
		return errs.ErrRenewalTooFar
	}
	return nil
}

func (s *Service) ListBorrowed(ctx context.Context, borrower string, page, size int) (model.ListInstances, error) {
	page, size = normalizePaging(page, size)
	list, err := s.repo.ListBorrowed(ctx, borrower, page, size)
	if err != nil {
		return model.ListInstances{}, err
	}
	for i := range list.Items {
		list.Items[i].StatusLabel = list.Items[i].Status.Label()
	}
	return list, nil
}

// RenewalProposal backs the renewal form: the copy plus the proposed
// date and the allowed window.
func (s *Service) RenewalProposal(ctx context.Context, instanceUid string) (model.RenewalForm, error) {
	inst, err := s.GetInstance(ctx, instanceUid)
	if err != nil {
		return model.RenewalForm{}, err
	}
	now := s.now()
	return model.RenewalForm{
		Instance:    inst,
		RenewalDate: model.NewDate(DefaultRenewalDate(now)),
		MinDate:     model.NewDate(now),
		MaxDate:     model.NewDate(model.Today(now).AddDate(0, 0, renewalWindowDays)),
	}, nil
}

// Renew validates the proposed date and, if accepted, moves the copy's
// due date. A rejected date leaves the copy untouched.
func (s *Service) Renew(ctx context.Context, instanceUid string, renewalDate time.Time) error {
	if err := ValidateRenewalDate(s.now(), renewalDate); err != nil {
		return err
	}
	return s.repo.RenewInstance(ctx, instanceUid, model.Today(renewalDate))
}

// Checkout puts an available copy on loan to the given user. The due
// date defaults to three weeks out.
func (s *Service) Checkout(ctx context.Context, instanceUid string, req model.CheckoutRequest) (model.BookInstance, error) {
	dueBack := DefaultRenewalDate(s.now())
	if req.DueBack != nil && !req.DueBack.IsZero() {
		dueBack = model.Today(req.DueBack.Time)
	}
	return s.repo.CheckoutInstance(ctx, instanceUid, req.Username, dueBack)
}

// Return marks an on-loan copy available again, clearing borrower and
// due date together so the on-loan invariant keeps holding.
func (s *Service) Return(ctx context.Context, instanceUid string) (model.BookInstance, error) {
	return s.repo.ReturnInstance(ctx, instanceUid)
}
