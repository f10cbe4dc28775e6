package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

const uniqueViolation = "23505"

var _ ports.Repository = (*Repository)(nil)

// Repository persists parcels in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&parcelRecord{})
	}
	return repo
}

// parcelRecord maps the parcel aggregate to a relational table.
type parcelRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	ParcelID          string    `gorm:"column:parcel_id;size:128;uniqueIndex"`
	Weight            float64   `gorm:"column:weight"`
	Value             float64   `gorm:"column:value"`
	Recipient         string    `gorm:"column:recipient"`
	Destination       string    `gorm:"column:destination"`
	Department        string    `gorm:"column:department;type:varchar(32);index:idx_parcels_department_status"`
	Status            string    `gorm:"column:status;type:varchar(32);index:idx_parcels_department_status"`
	RequiresInsurance bool      `gorm:"column:requires_insurance"`
	InsuranceApproved bool      `gorm:"column:insurance_approved"`
	ProcessingTime    time.Time `gorm:"column:processing_time"`
	ErrorMessage      *string   `gorm:"column:error_message"`
	CreatedAt         time.Time `gorm:"column:created_at;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (parcelRecord) TableName() string { return "parcels" }

// Create inserts a parcel; a taken parcel id yields ports.ErrDuplicateParcel.
func (r *Repository) Create(ctx context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, errors.New("parcel is nil")
	}
	if err := parcel.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(parcel)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ports.ErrDuplicateParcel
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// Update overwrites the mutable columns of an existing parcel.
func (r *Repository) Update(ctx context.Context, parcel *domain.Parcel) (*types.ParcelProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, errors.New("parcel is nil")
	}
	if err := parcel.Validate(); err != nil {
		return nil, err
	}
	var updated []parcelRecord
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("parcel_id = ?", parcel.ParcelID).
		Updates(map[string]any{
			"weight":             parcel.Weight,
			"value":              parcel.Value,
			"recipient":          parcel.Recipient,
			"destination":        parcel.Destination,
			"department":         string(parcel.Department),
			"status":             string(parcel.Status),
			"requires_insurance": parcel.RequiresInsurance,
			"insurance_approved": parcel.InsuranceApproved,
			"processing_time":    parcel.ProcessingTime,
			"error_message":      parcel.ErrorMessage,
			"updated_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, ports.ErrNotFound
	}
	return updated[0].toProjection(), nil
}

// GetByParcelID fetches a parcel by its manifest id.
func (r *Repository) GetByParcelID(ctx context.Context, parcelID string) (*types.ParcelProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record parcelRecord
	if err := r.db.WithContext(ctx).First(&record, "parcel_id = ?", parcelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns parcels matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*types.ParcelProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&parcelRecord{})
	if filter.Department != "" {
		query = query.Where("department = ?", string(filter.Department))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			r.db.Where("LOWER(parcel_id) LIKE ?", like).Or("LOWER(department) LIKE ?", like),
		)
	}
	var records []parcelRecord
	if err := query.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	parcels := make([]*types.ParcelProjection, 0, len(records))
	for i := range records {
		parcels = append(parcels, records[i].toProjection())
	}
	return parcels, nil
}

// Reset truncates the parcels table.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	table := pq.QuoteIdentifier(parcelRecord{}.TableName())
	return r.db.WithContext(ctx).Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY").Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres parcel repository not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toRecord(parcel *domain.Parcel) parcelRecord {
	return parcelRecord{
		ParcelID:          parcel.ParcelID,
		Weight:            parcel.Weight,
		Value:             parcel.Value,
		Recipient:         parcel.Recipient,
		Destination:       parcel.Destination,
		Department:        string(parcel.Department),
		Status:            string(parcel.Status),
		RequiresInsurance: parcel.RequiresInsurance,
		InsuranceApproved: parcel.InsuranceApproved,
		ProcessingTime:    parcel.ProcessingTime,
		ErrorMessage:      parcel.ErrorMessage,
	}
}

func (r parcelRecord) toProjection() *types.ParcelProjection {
	parcel := &domain.Parcel{
		ParcelID:          r.ParcelID,
		Weight:            r.Weight,
		Value:             r.Value,
		Recipient:         r.Recipient,
		Destination:       r.Destination,
		Department:        domain.Department(r.Department),
		RequiresInsurance: r.RequiresInsurance,
		InsuranceApproved: r.InsuranceApproved,
		Status:            domain.Status(r.Status),
		ProcessingTime:    r.ProcessingTime,
		ErrorMessage:      r.ErrorMessage,
	}
	return types.NewParcelProjection(parcel, r.CreatedAt, r.UpdatedAt)
}
