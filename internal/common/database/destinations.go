// internal/common/database/destinations.go
package database

import (
	"context"
	"fmt"

	apperrors "flight-deals/internal/common/errors"
	"flight-deals/internal/models"
)

// DestinationStore keeps destination rows in the destinations table. It is
// the postgres alternative to the Sheety spreadsheet.
type DestinationStore struct {
	client *PostgresClient
}

func NewDestinationStore(client *PostgresClient) *DestinationStore {
	return &DestinationStore{client: client}
}

const (
	listDestinationsQuery = `SELECT id, city, lowest_price, COALESCE(iata_code, '') FROM destinations ORDER BY id`
	updateDestinationCode = `UPDATE destinations SET iata_code = $1 WHERE id = $2`
	insertDestination     = `INSERT INTO destinations (city, lowest_price, iata_code) VALUES ($1, $2, $3) RETURNING id`
)

// ListDestinations returns every row in id order, the same order the sheet
// presents them in.
func (s *DestinationStore) ListDestinations(ctx context.Context) ([]models.DestinationRow, error) {
	rows, err := s.client.DB.QueryContext(ctx, listDestinationsQuery)
	if err != nil {
		return nil, apperrors.NewDestinationSourceError(err)
	}
	defer rows.Close()

	var result []models.DestinationRow
	for rows.Next() {
		var d models.DestinationRow
		if err := rows.Scan(&d.ID, &d.City, &d.LowestPrice, &d.IATACode); err != nil {
			return nil, apperrors.NewDestinationSourceError(fmt.Errorf("scan destination: %w", err))
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDestinationSourceError(err)
	}
	return result, nil
}

func (s *DestinationStore) UpdateDestinationCode(ctx context.Context, rowID int, code string) error {
	res, err := s.client.DB.ExecContext(ctx, updateDestinationCode, code, rowID)
	if err != nil {
		return apperrors.NewDestinationUpdateError(rowID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewDestinationUpdateError(rowID, err)
	}
	if n == 0 {
		return apperrors.NewDestinationNotFoundError(rowID)
	}
	return nil
}

func (s *DestinationStore) AddDestination(ctx context.Context, dest models.DestinationRow) (models.DestinationRow, error) {
	err := s.client.DB.QueryRowContext(ctx, insertDestination, dest.City, dest.LowestPrice, dest.IATACode).Scan(&dest.ID)
	if err != nil {
		return models.DestinationRow{}, apperrors.NewDestinationSourceError(fmt.Errorf("insert destination: %w", err))
	}
	return dest, nil
}
