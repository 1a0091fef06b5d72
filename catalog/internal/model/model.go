package model

import (
	"strings"
	"time"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

// Paginated reports whether the collection spans more than one page.
func (p Paging) Paginated() bool {
	return p.PageSize > 0 && p.TotalElements > p.PageSize
}

type Author struct {
	ID          int    `json:"id" db:"id"`
	FirstName   string `json:"firstName" db:"first_name"`
	LastName    string `json:"lastName" db:"last_name"`
	DateOfBirth *Date  `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	DateOfDeath *Date  `json:"dateOfDeath,omitempty" db:"date_of_death"`
}

// DisplayName renders the author as "last, first".
func (a Author) DisplayName() string {
	return a.LastName + ", " + a.FirstName
}

type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Language struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Book struct {
	ID         int     `json:"id" db:"id"`
	Title      string  `json:"title" db:"title"`
	Summary    string  `json:"summary" db:"summary"`
	ISBN       string  `json:"isbn" db:"isbn"`
	AuthorID   *int    `json:"authorID,omitempty" db:"author_id"`
	Author     string  `json:"author,omitempty" db:"author"`
	LanguageID *int    `json:"-" db:"language_id"`
	Language   string  `json:"language,omitempty" db:"language"`
	Genres     []Genre `json:"genres,omitempty" db:"-"`
}

// DisplayGenre joins the first three genre names for compact listings.
func (b Book) DisplayGenre() string {
	names := make([]string, 0, 3)
	for _, g := range b.Genres {
		if len(names) == 3 {
			break
		}
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

type Status string

const (
	StatusMaintenance Status = "m"
	StatusOnLoan      Status = "o"
	StatusAvailable   Status = "a"
	StatusReserved    Status = "r"
)

func (s Status) Valid() bool {
	switch s {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	}
	return string(s)
}

// BookInstance is one loanable physical copy of a book. The public lookup
// key is instance_uid, not the row id, so copies cannot be enumerated.
type BookInstance struct {
	ID          int     `json:"-" db:"id"`
	InstanceUid string  `json:"instanceUid" db:"instance_uid"`
	BookID      int     `json:"bookID" db:"book_id"`
	BookTitle   string  `json:"bookTitle,omitempty" db:"book_title"`
	Imprint     string  `json:"imprint" db:"imprint"`
	DueBack     *Date   `json:"dueBack,omitempty" db:"due_back"`
	Status      Status  `json:"status" db:"status"`
	StatusLabel string  `json:"statusLabel,omitempty" db:"-"`
	Borrower    *string `json:"borrower,omitempty" db:"borrower"`
}

func (bi BookInstance) OnLoan() bool {
	return bi.Status == StatusOnLoan
}

func (bi BookInstance) Overdue(now time.Time) bool {
	return bi.DueBack != nil && bi.OnLoan() && bi.DueBack.Time.Before(Today(now))
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListAuthors struct {
	Paging `json:",inline"`
	Items  []Author `json:"items"`
}

type ListInstances struct {
	Paging `json:",inline"`
	Items  []BookInstance `json:"items"`
}

type BookDetail struct {
	Book   `json:",inline"`
	Copies []BookInstance `json:"copies"`
}

type AuthorDetail struct {
	Author `json:",inline"`
	Books  []Book `json:"books"`
}

type Summary struct {
	NumBooks              int `json:"numBooks" db:"num_books"`
	NumInstances          int `json:"numInstances" db:"num_instances"`
	NumInstancesAvailable int `json:"numInstancesAvailable" db:"num_instances_available"`
	NumAuthors            int `json:"numAuthors" db:"num_authors"`
	NumGenres             int `json:"numGenres" db:"num_genres"`
}

const (
	RoleReader    = "reader"
	RoleLibrarian = "librarian"
)

type User struct {
	ID       int    `json:"-" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Email    string `json:"email" db:"email"`
	Role     string `json:"role" db:"role"`
}
