package contractors

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/renomatch/renomatch-backend/pkg/db/models"
	"github.com/renomatch/renomatch-backend/pkg/enums"
)

// Repository exposes read access to the curated contractor directory.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListCandidates(ctx context.Context, params candidateParams) ([]models.Contractor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error)
	ListVerified(ctx context.Context) ([]models.Contractor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a contractor repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type candidateParams struct {
	ProjectType enums.ProjectType
	// Region, when non-empty, is matched case-insensitively as a substring.
	Region string
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// capabilityConditions maps a project type to the capability columns a
// contractor must carry. Combo projects require the full envelope trade set.
func capabilityConditions(projectType enums.ProjectType) []string {
	switch projectType {
	case enums.ProjectTypeRoof:
		return []string{"offers_roof"}
	case enums.ProjectTypeFacade:
		return []string{"offers_facade"}
	case enums.ProjectTypeInsulation:
		return []string{"offers_insulation"}
	case enums.ProjectTypeSolar:
		return []string{"offers_solar"}
	case enums.ProjectTypeCombo:
		return []string{"offers_roof", "offers_facade", "offers_insulation"}
	default:
		return nil
	}
}

// ListCandidates applies the hard filters only; scoring happens in the
// service. Results come back ordered by id so the scorer starts from a stable
// input.
func (r *repositoryImpl) ListCandidates(ctx context.Context, params candidateParams) ([]models.Contractor, error) {
	conditions := capabilityConditions(params.ProjectType)
	if conditions == nil {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.Contractor{}).
		Where("verified = ? AND financially_healthy = ?", true, true)
	for _, column := range conditions {
		query = query.Where(column+" = ?", true)
	}
	if params.Region != "" {
		query = query.Where("LOWER(region) LIKE ?", "%"+strings.ToLower(params.Region)+"%")
	}

	var rows []models.Contractor
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	var contractor models.Contractor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contractor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *repositoryImpl) ListVerified(ctx context.Context) ([]models.Contractor, error) {
	var rows []models.Contractor
	err := r.db.WithContext(ctx).
		Model(&models.Contractor{}).
		Where("verified = ?", true).
		Order("rating IS NULL, rating DESC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
