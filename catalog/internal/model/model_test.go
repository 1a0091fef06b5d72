package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arthalon/library-catalog/catalog/internal/model"
)

func TestAuthor_DisplayName(t *testing.T) {
	t.Parallel()
	a := model.Author{FirstName: "John", LastName: "Smith"}
	require.Equal(t, "Smith, John", a.DisplayName())
}

func TestBook_DisplayGenre(t *testing.T) {
	t.Parallel()
	b := model.Book{Genres: []model.Genre{
		{ID: 1, Name: "Fantasy"},
		{ID: 2, Name: "Science Fiction"},
		{ID: 3, Name: "Poetry"},
		{ID: 4, Name: "Drama"},
	}}
	require.Equal(t, "Fantasy, Science Fiction, Poetry", b.DisplayGenre())

	require.Empty(t, model.Book{}.DisplayGenre())
}

func TestStatus(t *testing.T) {
	t.Parallel()
	require.True(t, model.StatusOnLoan.Valid())
	require.False(t, model.Status("x").Valid())

	require.Equal(t, "On loan", model.StatusOnLoan.Label())
	require.Equal(t, "Maintenance", model.StatusMaintenance.Label())
	require.Equal(t, "Available", model.StatusAvailable.Label())
	require.Equal(t, "Reserved", model.StatusReserved.Label())
}

func TestBookInstance_Overdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := model.NewDate(now.AddDate(0, 0, -1))
	tomorrow := model.NewDate(now.AddDate(0, 0, 1))

	inst := model.BookInstance{Status: model.StatusOnLoan, DueBack: &yesterday}
	require.True(t, inst.Overdue(now))

	inst.DueBack = &tomorrow
	require.False(t, inst.Overdue(now))

	// a copy that is not on loan is never overdue
	inst = model.BookInstance{Status: model.StatusAvailable, DueBack: &yesterday}
	require.False(t, inst.Overdue(now))
}

func TestPaging_Paginated(t *testing.T) {
	t.Parallel()
	require.True(t, model.Paging{Page: 1, PageSize: 10, TotalElements: 13}.Paginated())
	require.False(t, model.Paging{Page: 1, PageSize: 10, TotalElements: 7}.Paginated())
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()
	var req model.RenewRequest
	require.NoError(t, json.Unmarshal([]byte(`{"renewalDate":"2024-04-05"}`), &req))
	require.Equal(t, time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), req.RenewalDate.Time)

	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"renewalDate":"2024-04-05"}`, string(b))

	require.Error(t, json.Unmarshal([]byte(`{"renewalDate":"05/04/2024"}`), &req))
}
