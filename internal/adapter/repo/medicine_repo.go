package repo

import (
	"context"

	"medicab/internal/domain"
	"medicab/internal/infra"
	"medicab/internal/sqlinline"
)

// MedicineRepositoryPG manages the medicine catalog in PostgreSQL.
type MedicineRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewMedicineRepository(sql infra.SQLExecutor) *MedicineRepositoryPG {
	return &MedicineRepositoryPG{sql: sql}
}

func (r *MedicineRepositoryPG) Create(ctx context.Context, m *domain.Medicine) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertMedicine,
		m.ID, m.Name, m.Manufacturer, m.BatchNumber, m.Barcode, string(m.Category),
		m.ManufacturingDate, m.ExpiryDate, m.Verified, m.CreatedAt)
	return err
}

func (r *MedicineRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	return r.getOne(ctx, sqlinline.QGetMedicine, id)
}

func (r *MedicineRepositoryPG) GetByBarcode(ctx context.Context, barcode string) (*domain.Medicine, error) {
	return r.getOne(ctx, sqlinline.QGetMedicineByBarcode, barcode)
}

func (r *MedicineRepositoryPG) getOne(ctx context.Context, query, key string) (*domain.Medicine, error) {
	row := r.sql.QueryRow(ctx, query, key)
	m, err := scanMedicine(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MedicineRepositoryPG) Update(ctx context.Context, m *domain.Medicine) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateMedicine,
		m.ID, m.Name, m.Manufacturer, m.BatchNumber, m.Barcode, string(m.Category),
		m.ManufacturingDate, m.ExpiryDate, m.Verified, m.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MedicineRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteMedicine, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MedicineRepositoryPG) List(ctx context.Context, q domain.MedicineQuery) ([]domain.Medicine, int, error) {
	search := nullable(q.Search)
	category := nullable(string(q.Category))

	rows, err := r.sql.Query(ctx, sqlinline.QListMedicines, search, category, q.Offset, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountMedicines, search, category).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanMedicine(row rowScanner) (*domain.Medicine, error) {
	var (
		m        domain.Medicine
		category string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Manufacturer, &m.BatchNumber, &m.Barcode, &category,
		&m.ManufacturingDate, &m.ExpiryDate, &m.Verified, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Category = domain.MedicineCategory(category)
	return &m, nil
}

var _ domain.MedicineRepository = (*MedicineRepositoryPG)(nil)
