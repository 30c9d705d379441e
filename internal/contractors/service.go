// Package contractors matches leads against the curated contractor directory.
// Matching is a hard filter pass in the repository followed by in-memory
// scoring; the directory is small and read-only from the API's perspective.
package contractors

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/renomatch/renomatch-backend/pkg/config"
	"github.com/renomatch/renomatch-backend/pkg/db/models"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

// Service defines contractor matching and directory reads.
type Service interface {
	Match(ctx context.Context, criteria MatchCriteria) ([]models.Contractor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error)
	ListVerified(ctx context.Context) ([]models.Contractor, error)
}

// MatchCriteria carries the lead attributes that drive filtering and scoring.
type MatchCriteria struct {
	ProjectType enums.ProjectType
	Region      string
	Budget      types.MoneyRange
	Priority    enums.Priority
}

type service struct {
	repo Repository
	cfg  config.MatchingConfig
}

// NewService wires contractor matching dependencies.
func NewService(repo Repository, cfg config.MatchingConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contractors repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

type scoredContractor struct {
	contractor models.Contractor
	score      float64
}

// Match returns up to MaxResults contractors ranked by score. An empty result
// is a normal outcome, not an error.
func (s *service) Match(ctx context.Context, criteria MatchCriteria) ([]models.Contractor, error) {
	if !criteria.ProjectType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown project type").
			WithDetails(map[string]any{"projectType": string(criteria.ProjectType)})
	}

	candidates, err := s.repo.ListCandidates(ctx, candidateParams{
		ProjectType: criteria.ProjectType,
		Region:      s.regionFilter(criteria.Region),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contractor candidates")
	}

	scored := make([]scoredContractor, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, scoredContractor{
			contractor: candidate,
			score:      s.score(candidate, criteria),
		})
	}

	// Equal scores fall back to id order so the ranking is reproducible.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].contractor.ID.String() < scored[j].contractor.ID.String()
	})

	limit := s.cfg.MaxResults
	if limit > len(scored) {
		limit = len(scored)
	}
	matched := make([]models.Contractor, 0, limit)
	for _, entry := range scored[:limit] {
		matched = append(matched, entry.contractor)
	}
	return matched, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contractor id required")
	}
	contractor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contractor")
	}
	if contractor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contractor not found")
	}
	return contractor, nil
}

func (s *service) ListVerified(ctx context.Context) ([]models.Contractor, error) {
	rows, err := s.repo.ListVerified(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contractors")
	}
	return rows, nil
}

// regionFilter suppresses region filtering for the national catch-all values,
// where every contractor qualifies.
func (s *service) regionFilter(region string) string {
	trimmed := strings.TrimSpace(region)
	if trimmed == "" {
		return ""
	}
	if strings.EqualFold(trimmed, s.cfg.DefaultRegion) || strings.EqualFold(trimmed, "Belgium") {
		return ""
	}
	return trimmed
}

func (s *service) score(contractor models.Contractor, criteria MatchCriteria) float64 {
	score := s.cfg.BaseScore

	if contractor.FullGuidancePremiums {
		score += s.cfg.PremiumGuidanceBonus
	}
	if s.budgetFits(contractor, criteria.Budget) {
		score += s.cfg.BudgetFitBonus
	}
	if contractor.Rating != nil {
		score += *contractor.Rating * s.cfg.RatingWeight
		if criteria.Priority == enums.PriorityQuality && *contractor.Rating > s.cfg.QualityRatingThreshold {
			score += s.cfg.QualityBonus
		}
	}
	return score
}

// budgetFits checks whether the budget midpoint lands in the contractor's
// typical project value range. A missing upper bound means unbounded.
func (s *service) budgetFits(contractor models.Contractor, budget types.MoneyRange) bool {
	if !budget.Valid() || contractor.AvgProjectValueMin == nil {
		return false
	}
	midpoint := budget.Midpoint()
	if midpoint < *contractor.AvgProjectValueMin {
		return false
	}
	if contractor.AvgProjectValueMax != nil && midpoint > *contractor.AvgProjectValueMax {
		return false
	}
	return true
}
