package drafts

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/khajaghar/pos-terminal/pkg/db/models"
)

// SessionKey identifies a draft: a table plus an optional group sharing it.
type SessionKey struct {
	TableNumber string
	GroupName   string
}

// Repository manages persistence for cart drafts.
type Repository interface {
	Upsert(ctx context.Context, draft *models.CartDraft) error
	Get(ctx context.Context, key SessionKey) (*models.CartDraft, error)
	Delete(ctx context.Context, key SessionKey) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]models.CartDraft, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a draft repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, draft *models.CartDraft) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "table_number"}, {Name: "group_name"}},
			UpdateAll: true,
		}).
		Create(draft).Error
}

func (r *repository) Get(ctx context.Context, key SessionKey) (*models.CartDraft, error) {
	var draft models.CartDraft
	if err := r.db.WithContext(ctx).
		Where("table_number = ? AND group_name = ?", key.TableNumber, key.GroupName).
		First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *repository) Delete(ctx context.Context, key SessionKey) error {
	return r.db.WithContext(ctx).
		Where("table_number = ? AND group_name = ?", key.TableNumber, key.GroupName).
		Delete(&models.CartDraft{}).Error
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.CartDraft{}).Error
}

func (r *repository) List(ctx context.Context) ([]models.CartDraft, error) {
	var draftList []models.CartDraft
	if err := r.db.WithContext(ctx).
		Order("saved_at DESC").
		Find(&draftList).Error; err != nil {
		return nil, err
	}
	return draftList, nil
}
