package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Date is a day-precision timestamp marshalled as "2006-01-02".
type Date struct {
	time.Time `json:",inline"`
}

func NewDate(t time.Time) Date {
	return Date{Time: Today(t)}
}

// Today truncates t to date precision.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	}
	return fmt.Errorf("unsupported date type %T", value)
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(time.DateOnly), nil
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=reader librarian"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type CreateAuthorRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	DateOfBirth *Date  `json:"dateOfBirth"`
	DateOfDeath *Date  `json:"dateOfDeath"`
}

type CreateBookRequest struct {
	Title      string `json:"title" validate:"required"`
	Summary    string `json:"summary"`
	ISBN       string `json:"isbn" validate:"required,len=13"`
	AuthorID   *int   `json:"authorID"`
	LanguageID *int   `json:"languageID"`
	GenreIDs   []int  `json:"genreIDs" validate:"omitempty,unique"`
}

type CreateInstanceRequest struct {
	BookID  int    `json:"bookID" validate:"required"`
	Imprint string `json:"imprint" validate:"required"`
	Status  Status `json:"status" validate:"omitempty,oneof=m o a r"`
}

type CheckoutRequest struct {
	Username string `json:"username" validate:"required"`
	DueBack  *Date  `json:"dueBack"`
}

type RenewRequest struct {
	RenewalDate Date `json:"renewalDate" validate:"required"`
}

// RenewalForm is the data backing the librarian renewal view: the copy
// being renewed plus the proposed date and the allowed window.
type RenewalForm struct {
	Instance    BookInstance `json:"instance"`
	RenewalDate Date         `json:"renewalDate"`
	MinDate     Date         `json:"minDate"`
	MaxDate     Date         `json:"maxDate"`
}
