package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRepository_SaveDocumentTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]string{{"Title", "ISSN"}, {"Nature", "0028-0836"}}

	mock.ExpectExec(`INSERT INTO document_tables`).
		WithArgs("ranking_2024", 2, rows).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTableRepository(mock)
	require.NoError(t, repo.SaveDocumentTable(context.Background(), "ranking_2024", rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepository_SaveDocumentTable_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO document_tables`).
		WithArgs("blank", 0, [][]string{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTableRepository(mock)
	require.NoError(t, repo.SaveDocumentTable(context.Background(), "blank", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepository_SaveDocumentTable_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO document_tables`).
		WithArgs("broken", 1, [][]string{{"x"}}).
		WillReturnError(errors.New("connection reset"))

	repo := NewTableRepository(mock)
	err = repo.SaveDocumentTable(context.Background(), "broken", [][]string{{"x"}})
	assert.ErrorContains(t, err, "failed to save table for broken")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepository_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS document_tables`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	repo := NewTableRepository(mock)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
