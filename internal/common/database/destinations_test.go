package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	apperrors "flight-deals/internal/common/errors"
	"flight-deals/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*DestinationStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDestinationStore(NewPostgresFromDB(db)), mock
}

func TestDestinationStore_ListDestinations(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "city", "lowest_price", "iata_code"}).
		AddRow(2, "Paris", 200.0, "PAR").
		AddRow(3, "Berlin", 42.5, "")
	mock.ExpectQuery(regexp.QuoteMeta(listDestinationsQuery)).WillReturnRows(rows)

	got, err := store.ListDestinations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.DestinationRow{
		{ID: 2, City: "Paris", LowestPrice: 200, IATACode: "PAR"},
		{ID: 3, City: "Berlin", LowestPrice: 42.5},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDestinationStore_ListDestinations_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listDestinationsQuery)).WillReturnError(errors.New("connection refused"))

	_, err := store.ListDestinations(context.Background())

	assert.Equal(t, apperrors.ErrCodeDestinationSourceFailed, apperrors.CodeOf(err))
}

func TestDestinationStore_UpdateDestinationCode(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(updateDestinationCode)).
		WithArgs("PAR", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateDestinationCode(context.Background(), 2, "PAR")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDestinationStore_UpdateDestinationCode_MissingRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(updateDestinationCode)).
		WithArgs("PAR", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateDestinationCode(context.Background(), 99, "PAR")

	assert.True(t, errors.Is(err, apperrors.ErrDestinationNotFound))
	assert.Equal(t, apperrors.ErrCodeDestinationNotFound, apperrors.CodeOf(err))
}

func TestDestinationStore_UpdateDestinationCode_ExecError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(updateDestinationCode)).WillReturnError(errors.New("deadlock"))

	err := store.UpdateDestinationCode(context.Background(), 2, "PAR")

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDestinationUpdateFailed, stdErr.Code)
	assert.Equal(t, 2, stdErr.Metadata["rowId"])
}

func TestDestinationStore_AddDestination(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(insertDestination)).
		WithArgs("Tokyo", 485.0, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	got, err := store.AddDestination(context.Background(), models.DestinationRow{City: "Tokyo", LowestPrice: 485})

	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "Tokyo", got.City)
}

func TestPostgresClient_Migrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS destinations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresFromDB(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
