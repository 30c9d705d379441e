package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renomatch/renomatch-backend/pkg/db/models"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	"github.com/renomatch/renomatch-backend/pkg/pagination"
)

// Repository exposes persistence helpers for leads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, params listLeadsParams) ([]models.Lead, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.LeadStatus) (statusUpdateResult, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a leads repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listLeadsParams struct {
	Status *enums.LeadStatus
	Limit  int
	Cursor *pagination.Cursor
}

type statusUpdateResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listLeadsParams) ([]models.Lead, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Lead{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&leads).Error; err != nil {
		return nil, nil, err
	}

	if len(leads) > normalized {
		next := leads[normalized]
		leads = leads[:normalized]
		return leads, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return leads, nil, nil
}

// UpdateStatus advances the lifecycle with a conditional update so concurrent
// back-office edits cannot clobber each other.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.LeadStatus) (statusUpdateResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)
	if result.Error != nil {
		return statusUpdateResult{}, result.Error
	}

	update := statusUpdateResult{Updated: result.RowsAffected > 0}
	if update.Updated {
		update.Found = true
		return update, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return statusUpdateResult{}, err
	}
	update.Found = count > 0
	return update, nil
}
