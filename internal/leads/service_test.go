package leads

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/renomatch/renomatch-backend/internal/contractors"
	"github.com/renomatch/renomatch-backend/internal/credits"
	"github.com/renomatch/renomatch-backend/internal/pricing"
	"github.com/renomatch/renomatch-backend/pkg/config"
	"github.com/renomatch/renomatch-backend/pkg/db/models"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/metrics"
	"github.com/renomatch/renomatch-backend/pkg/pagination"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

type fakeLeadRepo struct {
	created   []*models.Lead
	createErr error

	leads map[uuid.UUID]models.Lead

	listRows []models.Lead
	listNext *pagination.Cursor
	listErr  error

	updateResult statusUpdateResult
	updateErr    error
}

func (f *fakeLeadRepo) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeLeadRepo) Create(_ context.Context, lead *models.Lead) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, lead)
	return nil
}

func (f *fakeLeadRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, nil
	}
	return &lead, nil
}

func (f *fakeLeadRepo) List(_ context.Context, _ listLeadsParams) ([]models.Lead, *pagination.Cursor, error) {
	return f.listRows, f.listNext, f.listErr
}

func (f *fakeLeadRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _, _ enums.LeadStatus) (statusUpdateResult, error) {
	return f.updateResult, f.updateErr
}

type fakeCreditsService struct {
	status    *credits.Status
	statusErr error

	consumeStatus *credits.Status
	consumeErr    error
	consumeCalls  int
}

func (f *fakeCreditsService) Status(_ context.Context, _ string) (*credits.Status, error) {
	return f.status, f.statusErr
}

func (f *fakeCreditsService) Consume(_ context.Context, _ string) (*credits.Status, error) {
	f.consumeCalls++
	return f.consumeStatus, f.consumeErr
}

type fakeContractorsService struct {
	matched  []models.Contractor
	matchErr error
}

func (f *fakeContractorsService) Match(_ context.Context, _ contractors.MatchCriteria) ([]models.Contractor, error) {
	return f.matched, f.matchErr
}

func (f *fakeContractorsService) GetByID(_ context.Context, _ uuid.UUID) (*models.Contractor, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contractor not found")
}

func (f *fakeContractorsService) ListVerified(_ context.Context) ([]models.Contractor, error) {
	return f.matched, nil
}

func testPricingEngine() *pricing.Engine {
	return pricing.NewEngine(config.PricingConfig{
		Currency:           "EUR",
		RoundTo:            100,
		DefaultBuildingAge: 30,

		MaterialsPercent:      0.40,
		LaborPercent:          0.35,
		ScaffoldingPercent:    0.15,
		ScaffoldingLowPercent: 0.05,
		InsulationPercent:     0.10,
		InsulationLowPercent:  0.05,
	})
}

type submitFixture struct {
	repo        *fakeLeadRepo
	credits     *fakeCreditsService
	contractors *fakeContractorsService
	svc         Service
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	availableStatus := &credits.Status{
		SessionToken: "sess_test",
		CreditsTotal: 1,
		CreditsUsed:  0,
		CanUseCredit: true,
	}
	consumedStatus := &credits.Status{
		SessionToken: "sess_test",
		CreditsTotal: 1,
		CreditsUsed:  1,
		CanUseCredit: false,
	}

	f := &submitFixture{
		repo: &fakeLeadRepo{leads: map[uuid.UUID]models.Lead{}},
		credits: &fakeCreditsService{
			status:        availableStatus,
			consumeStatus: consumedStatus,
		},
		contractors: &fakeContractorsService{},
	}

	log := logger.New(logger.Options{ServiceName: "leads-test", Output: io.Discard})
	svc, err := NewService(f.repo, f.credits, f.contractors, testPricingEngine(), log, metrics.NewSubmissionMetrics(nil))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func validSubmitInput() SubmitInput {
	year := 1992
	return SubmitInput{
		SessionToken: "sess_test",

		FirstName: "An",
		LastName:  "Peeters",
		Email:     "an.peeters@example.be",
		Phone:     "+32 470 12 34 56",

		Address:    "Veldstraat 12",
		PostalCode: "9000",
		City:       "Gent",

		ProjectType:  enums.ProjectTypeRoof,
		BuildingType: enums.BuildingTypeRow,
		YearBuilt:    &year,
		Urgency:      enums.UrgencyOneToThreeMonths,
		Budget:       types.MoneyRange{Min: 15000, Max: 30000},
		Priority:     enums.PriorityBalance,
	}
}

func TestSubmit_HappyPath(t *testing.T) {
	f := newSubmitFixture(t)
	f.contractors.matched = []models.Contractor{
		{ID: uuid.New(), Name: "First Roofing"},
		{ID: uuid.New(), Name: "Second Roofing"},
	}

	result, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.LeadID)
	assert.Equal(t, "EUR", result.Estimate.Currency)
	assert.Positive(t, result.Estimate.Min)
	assert.Len(t, result.Contractors, 2)
	assert.False(t, result.Credits.CanUseCredit)

	require.Len(t, f.repo.created, 1)
	lead := f.repo.created[0]
	assert.Equal(t, result.LeadID, lead.ID)
	assert.Equal(t, enums.LeadStatusNew, lead.Status)
	assert.Equal(t, "web", lead.Source)
	assert.Equal(t, result.Estimate.Min, lead.EstimateMin)
	assert.Equal(t, result.Estimate.Max, lead.EstimateMax)
	assert.Len(t, lead.MatchedContractorIDs, 2)
	assert.Equal(t, 1, f.credits.consumeCalls)
}

func TestSubmit_FailsFastWhenExhausted(t *testing.T) {
	f := newSubmitFixture(t)
	f.credits.status = &credits.Status{
		SessionToken: "sess_test",
		CreditsTotal: 1,
		CreditsUsed:  1,
		CanUseCredit: false,
	}

	_, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCreditExhausted))
	assert.Zero(t, f.credits.consumeCalls)
	assert.Empty(t, f.repo.created)
}

func TestSubmit_MatcherFailureDegradesToNoContractors(t *testing.T) {
	f := newSubmitFixture(t)
	f.contractors.matchErr = errors.New("directory unavailable")

	result, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.NoError(t, err)

	assert.Empty(t, result.Contractors)
	require.Len(t, f.repo.created, 1)
	assert.Empty(t, f.repo.created[0].MatchedContractorIDs)
}

func TestSubmit_LostConsumeRace(t *testing.T) {
	f := newSubmitFixture(t)
	f.credits.consumeStatus = nil
	f.credits.consumeErr = pkgerrors.New(pkgerrors.CodeCreditExhausted, "no credits available for session")

	_, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCreditExhausted))
	assert.Empty(t, f.repo.created)
}

func TestSubmit_PersistenceFailureAfterConsume(t *testing.T) {
	f := newSubmitFixture(t)
	f.repo.createErr = errors.New("connection reset during insert")

	_, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeLeadPersistence))
	assert.Equal(t, 1, f.credits.consumeCalls, "credit is spent before the insert")
}

func TestSubmit_ValidationFailuresDoNotTouchCredits(t *testing.T) {
	f := newSubmitFixture(t)

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing first name", func(in *SubmitInput) { in.FirstName = " " }},
		{"bad email", func(in *SubmitInput) { in.Email = "not-an-email" }},
		{"unknown project type", func(in *SubmitInput) { in.ProjectType = "garden" }},
		{"unknown urgency", func(in *SubmitInput) { in.Urgency = "someday" }},
		{"inverted budget", func(in *SubmitInput) { in.Budget = types.MoneyRange{Min: 30000, Max: 15000} }},
		{"implausible year", func(in *SubmitInput) { year := 1500; in.YearBuilt = &year }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validSubmitInput()
			tc.mutate(&input)

			_, err := f.svc.Submit(context.Background(), input)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
		})
	}

	assert.Zero(t, f.credits.consumeCalls)
	assert.Empty(t, f.repo.created)
}

func TestGetByID_RecomputesBreakdown(t *testing.T) {
	f := newSubmitFixture(t)
	id := uuid.New()
	f.repo.leads[id] = models.Lead{
		ID:           id,
		ProjectType:  enums.ProjectTypeRoof,
		BuildingType: enums.BuildingTypeRow,
		EstimateMin:  12000,
		EstimateMax:  35000,
		Status:       enums.LeadStatusNew,
	}

	detail, err := f.svc.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, detail.Lead.ID)
	// Roof projects carry the full scaffolding share.
	assert.Equal(t, 1800, detail.Breakdown.Scaffolding.Min)
	assert.Equal(t, 4800, detail.Breakdown.Materials.Min)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestList_InvalidStatusFilter(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.svc.List(context.Background(), ListParams{Status: "archived"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestList_EncodesNextCursor(t *testing.T) {
	f := newSubmitFixture(t)
	f.repo.listRows = []models.Lead{{ID: uuid.New()}}
	f.repo.listNext = &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}

	result, err := f.svc.List(context.Background(), ListParams{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.NotEmpty(t, result.Cursor)
}

func TestUpdateStatus_TransitionRules(t *testing.T) {
	f := newSubmitFixture(t)
	id := uuid.New()
	f.repo.leads[id] = models.Lead{ID: id, Status: enums.LeadStatusNew}
	f.repo.updateResult = statusUpdateResult{Updated: true, Found: true}

	lead, err := f.svc.UpdateStatus(context.Background(), id, enums.LeadStatusForwarded)
	require.NoError(t, err)
	assert.Equal(t, enums.LeadStatusForwarded, lead.Status)

	// new → won skips the middle of the lifecycle.
	_, err = f.svc.UpdateStatus(context.Background(), id, enums.LeadStatusWon)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	f := newSubmitFixture(t)
	id := uuid.New()
	f.repo.leads[id] = models.Lead{ID: id, Status: enums.LeadStatusNew}
	f.repo.updateResult = statusUpdateResult{Updated: false, Found: true}

	_, err := f.svc.UpdateStatus(context.Background(), id, enums.LeadStatusForwarded)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), enums.LeadStatusForwarded)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
