package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/ports"
)

var _ ports.RuleStore = (*RuleStore)(nil)

// RuleStore keeps the rule set history in PostgreSQL; at most one row is active.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore wires a PostgreSQL-backed rule store. Caller manages DB lifecycle.
func NewRuleStore(db *gorm.DB) *RuleStore {
	store := &RuleStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&ruleSetRecord{})
	}
	return store
}

type ruleDocument struct {
	Mail struct {
		MaxWeight float64 `json:"maxWeight"`
	} `json:"mail"`
	Regular struct {
		MaxWeight float64 `json:"maxWeight"`
	} `json:"regular"`
	Insurance struct {
		MinValue float64 `json:"minValue"`
		Enabled  bool    `json:"enabled"`
	} `json:"insurance"`
}

type ruleSetRecord struct {
	ID        int64                            `gorm:"primaryKey;column:id"`
	Rules     datatypes.JSONType[ruleDocument] `gorm:"column:rules;type:jsonb"`
	IsActive  bool                             `gorm:"column:is_active;index"`
	CreatedAt time.Time                        `gorm:"column:created_at"`
}

func (ruleSetRecord) TableName() string { return "business_rules" }

// Active returns the active rule set or the default one when none is stored.
func (s *RuleStore) Active(ctx context.Context) (domain.RuleSet, error) {
	if err := s.ensureDB(); err != nil {
		return domain.RuleSet{}, err
	}
	var record ruleSetRecord
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultRuleSet(), nil
	}
	if err != nil {
		return domain.RuleSet{}, err
	}
	return fromDocument(record.Rules.Data()), nil
}

// Replace deactivates the current rule set and stores the new one in a single transaction.
func (s *RuleStore) Replace(ctx context.Context, rules domain.RuleSet) (domain.RuleSet, error) {
	if err := s.ensureDB(); err != nil {
		return domain.RuleSet{}, err
	}
	record := ruleSetRecord{Rules: datatypes.NewJSONType(toDocument(rules)), IsActive: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ruleSetRecord{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return domain.RuleSet{}, err
	}
	return fromDocument(record.Rules.Data()), nil
}

// Reset deactivates every stored rule set so the default applies again.
func (s *RuleStore) Reset(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&ruleSetRecord{}).Where("is_active = ?", true).Update("is_active", false).Error
}

func (s *RuleStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres rule store not configured")
	}
	return nil
}

func toDocument(rules domain.RuleSet) ruleDocument {
	var doc ruleDocument
	doc.Mail.MaxWeight = rules.Mail.MaxWeight
	doc.Regular.MaxWeight = rules.Regular.MaxWeight
	doc.Insurance.MinValue = rules.Insurance.MinValue
	doc.Insurance.Enabled = rules.Insurance.Enabled
	return doc
}

func fromDocument(doc ruleDocument) domain.RuleSet {
	return domain.RuleSet{
		Mail:      domain.MailRule{MaxWeight: doc.Mail.MaxWeight},
		Regular:   domain.RegularRule{MaxWeight: doc.Regular.MaxWeight},
		Insurance: domain.InsuranceRule{MinValue: doc.Insurance.MinValue, Enabled: doc.Insurance.Enabled},
	}
}
