package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"dnamatch/internal/domain"
	"dnamatch/internal/ports"
)

const selectPopulation = `
	SELECT name, status, description, created_at, updated_at, address,
	       national_id, phone, gender, birthdate, blood_type, dna_sequence
	FROM population
	ORDER BY id
`

var _ ports.PopulationSource = (*DB)(nil)

func (db *DB) Name() string { return "postgres" }

// Fetch returns every registry row in insertion order.
func (db *DB) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	rows, err := db.Pool.Query(ctx, selectPopulation)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecord)
}

// populationRow mirrors the nullable columns of the population table.
type populationRow struct {
	Name, Status, Description, CreatedAt, UpdatedAt, Address *string
	NationalID, Phone, Gender, Birthdate, BloodType          *string
	Sequence                                                 *string
}

func scanRecord(row pgx.CollectableRow) (domain.PopulationRecord, error) {
	var r populationRow
	err := row.Scan(
		&r.Name, &r.Status, &r.Description, &r.CreatedAt, &r.UpdatedAt, &r.Address,
		&r.NationalID, &r.Phone, &r.Gender, &r.Birthdate, &r.BloodType, &r.Sequence,
	)
	if err != nil {
		return domain.PopulationRecord{}, err
	}
	return r.record(), nil
}

func (r populationRow) record() domain.PopulationRecord {
	return domain.PopulationRecord{
		Name:        deref(r.Name),
		Status:      domain.Status(deref(r.Status)),
		Description: deref(r.Description),
		CreatedAt:   deref(r.CreatedAt),
		UpdatedAt:   deref(r.UpdatedAt),
		Address:     deref(r.Address),
		NationalID:  deref(r.NationalID),
		Phone:       deref(r.Phone),
		Gender:      deref(r.Gender),
		Birthdate:   deref(r.Birthdate),
		BloodType:   deref(r.BloodType),
		Sequence:    r.Sequence,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
