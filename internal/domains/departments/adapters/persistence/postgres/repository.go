package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the department catalogue in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&departmentRecord{})
	}
	return repo
}

type departmentRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid"`
	Name        string    `gorm:"column:name;size:64;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Color       string    `gorm:"column:color;size:32"`
	Icon        string    `gorm:"column:icon;size:64"`
	IsCustom    bool      `gorm:"column:is_custom"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (departmentRecord) TableName() string { return "departments" }

func (r *Repository) List(ctx context.Context) ([]*domain.Department, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []departmentRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Department, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record departmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Create(ctx context.Context, department *domain.Department) (*domain.Department, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if department == nil {
		return nil, errors.New("department is nil")
	}
	record := toRecord(department)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ports.ErrDuplicateName
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&departmentRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the catalogue inside one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, departments []*domain.Department) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	records := make([]departmentRecord, 0, len(departments))
	for _, d := range departments {
		if d != nil {
			records = append(records, toRecord(d))
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&departmentRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres department repository not configured")
	}
	return nil
}

func toRecord(d *domain.Department) departmentRecord {
	return departmentRecord{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Color:       d.Color,
		Icon:        d.Icon,
		IsCustom:    d.IsCustom,
		CreatedAt:   d.CreatedAt,
	}
}

func (r departmentRecord) toDomain() *domain.Department {
	return &domain.Department{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		IsCustom:    r.IsCustom,
		CreatedAt:   r.CreatedAt,
	}
}
