package repository

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPgErrorClassifiers(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	fk := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	require.True(t, isUniqueViolation(unique))
	require.True(t, isForeignKeyViolation(fk))

	// wrapped errors still classify
	require.True(t, isUniqueViolation(errors.Wrap(unique, "insert book")))
	require.True(t, isForeignKeyViolation(errors.Wrap(fk, "checkout")))

	// codes do not cross over, and plain errors match neither
	require.False(t, isUniqueViolation(fk))
	require.False(t, isForeignKeyViolation(unique))
	require.False(t, isUniqueViolation(errors.New("boom")))
	require.False(t, isForeignKeyViolation(nil))
}
