package contractors

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/renomatch/renomatch-backend/pkg/config"
	"github.com/renomatch/renomatch-backend/pkg/db/models"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

type fakeContractorRepo struct {
	candidates []models.Contractor
	verified   []models.Contractor
	byID       map[uuid.UUID]models.Contractor
	listErr    error

	lastParams candidateParams
}

func (f *fakeContractorRepo) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeContractorRepo) ListCandidates(_ context.Context, params candidateParams) ([]models.Contractor, error) {
	f.lastParams = params
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.candidates, nil
}

func (f *fakeContractorRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contractor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	contractor, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &contractor, nil
}

func (f *fakeContractorRepo) ListVerified(_ context.Context) ([]models.Contractor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.verified, nil
}

func matchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		MaxResults:             3,
		DefaultRegion:          "België",
		BaseScore:              10,
		PremiumGuidanceBonus:   5,
		BudgetFitBonus:         5,
		RatingWeight:           2,
		QualityBonus:           3,
		QualityRatingThreshold: 4.5,
	}
}

func newMatchService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, matchingConfig())
	require.NoError(t, err)
	return svc
}

func ratingPtr(v float64) *float64 { return &v }

func valuePtr(v int) *int { return &v }

func contractorNamed(name string, mutate func(*models.Contractor)) models.Contractor {
	c := models.Contractor{
		ID:                 uuid.New(),
		Name:               name,
		City:               "Gent",
		Region:             "Oost-Vlaanderen",
		Verified:           true,
		FinanciallyHealthy: true,
		OffersRoof:         true,
	}
	if mutate != nil {
		mutate(&c)
	}
	return c
}

func TestMatch_RanksByScoreAndCapsResults(t *testing.T) {
	plain := contractorNamed("Plain Roofing", nil) // 10
	rated := contractorNamed("Rated Roofing", func(c *models.Contractor) {
		c.Rating = ratingPtr(4.0) // 10 + 8 = 18
	})
	premium := contractorNamed("Premium Roofing", func(c *models.Contractor) {
		c.FullGuidancePremiums = true
		c.Rating = ratingPtr(4.8) // 10 + 5 + 9.6 = 24.6
	})
	budgetFit := contractorNamed("Budget Fit Roofing", func(c *models.Contractor) {
		c.AvgProjectValueMin = valuePtr(10000)
		c.AvgProjectValueMax = valuePtr(30000)
		c.Rating = ratingPtr(4.2) // 10 + 5 + 8.4 = 23.4
	})

	repo := &fakeContractorRepo{candidates: []models.Contractor{plain, rated, premium, budgetFit}}
	svc := newMatchService(t, repo)

	matched, err := svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeRoof,
		Budget:      types.MoneyRange{Min: 15000, Max: 25000},
		Priority:    enums.PriorityBalance,
	})
	require.NoError(t, err)

	require.Len(t, matched, 3)
	assert.Equal(t, premium.ID, matched[0].ID)
	assert.Equal(t, budgetFit.ID, matched[1].ID)
	assert.Equal(t, rated.ID, matched[2].ID)
}

func TestMatch_QualityPriorityBonus(t *testing.T) {
	excellent := contractorNamed("Excellent Roofing", func(c *models.Contractor) {
		c.Rating = ratingPtr(4.8)
	})
	premium := contractorNamed("Premium Roofing", func(c *models.Contractor) {
		c.FullGuidancePremiums = true
		c.Rating = ratingPtr(4.0)
	})

	repo := &fakeContractorRepo{candidates: []models.Contractor{premium, excellent}}
	svc := newMatchService(t, repo)

	// With the balance priority premium wins: 10+5+8=23 vs 10+9.6=19.6.
	matched, err := svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeRoof,
		Priority:    enums.PriorityBalance,
	})
	require.NoError(t, err)
	require.NotEmpty(t, matched)
	assert.Equal(t, premium.ID, matched[0].ID)

	// Quality priority adds +3 above the 4.5 threshold: 22.6 vs 23 still
	// premium, but with a lower premium rating the order flips.
	premium.Rating = ratingPtr(3.5) // 10+5+7=22
	repo.candidates = []models.Contractor{premium, excellent}

	matched, err = svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeRoof,
		Priority:    enums.PriorityQuality,
	})
	require.NoError(t, err)
	require.NotEmpty(t, matched)
	assert.Equal(t, excellent.ID, matched[0].ID) // 10+9.6+3 = 22.6
}

func TestMatch_TieBreaksByID(t *testing.T) {
	first := contractorNamed("Same Score A", nil)
	second := contractorNamed("Same Score B", nil)

	repo := &fakeContractorRepo{candidates: []models.Contractor{second, first}}
	svc := newMatchService(t, repo)

	matched, err := svc.Match(context.Background(), MatchCriteria{ProjectType: enums.ProjectTypeRoof})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Less(t, matched[0].ID.String(), matched[1].ID.String())
}

func TestMatch_RegionCatchAllSkipsFilter(t *testing.T) {
	repo := &fakeContractorRepo{}
	svc := newMatchService(t, repo)

	_, err := svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeSolar,
		Region:      "België",
	})
	require.NoError(t, err)
	assert.Empty(t, repo.lastParams.Region)

	_, err = svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeSolar,
		Region:      "Antwerpen",
	})
	require.NoError(t, err)
	assert.Equal(t, "Antwerpen", repo.lastParams.Region)
}

func TestMatch_BudgetMidpointAgainstUnboundedRange(t *testing.T) {
	unbounded := contractorNamed("Big Projects", func(c *models.Contractor) {
		c.AvgProjectValueMin = valuePtr(20000)
	})
	svc := newMatchService(t, &fakeContractorRepo{candidates: []models.Contractor{unbounded}})

	matched, err := svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeRoof,
		Budget:      types.MoneyRange{Min: 40000, Max: 80000},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)

	// Below the contractor's minimum the bonus must not apply, but the
	// contractor still matches on the hard filters.
	matched, err = svc.Match(context.Background(), MatchCriteria{
		ProjectType: enums.ProjectTypeRoof,
		Budget:      types.MoneyRange{Min: 5000, Max: 10000},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
}

func TestMatch_EmptyResultIsSuccess(t *testing.T) {
	svc := newMatchService(t, &fakeContractorRepo{})

	matched, err := svc.Match(context.Background(), MatchCriteria{ProjectType: enums.ProjectTypeFacade})
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestMatch_RepositoryFailureIsDependencyError(t *testing.T) {
	svc := newMatchService(t, &fakeContractorRepo{listErr: errors.New("connection refused")})

	_, err := svc.Match(context.Background(), MatchCriteria{ProjectType: enums.ProjectTypeRoof})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestGetByID(t *testing.T) {
	known := contractorNamed("Known", nil)
	repo := &fakeContractorRepo{byID: map[uuid.UUID]models.Contractor{known.ID: known}}
	svc := newMatchService(t, repo)

	got, err := svc.GetByID(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known.ID, got.ID)

	_, err = svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.GetByID(context.Background(), uuid.Nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
