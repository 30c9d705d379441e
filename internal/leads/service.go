// Package leads orchestrates lead submission: credit check, price estimate,
// contractor matching, atomic credit consumption, and persistence, in that
// order. It also carries the back-office lead lifecycle reads and status
// transitions.
package leads

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renomatch/renomatch-backend/internal/contractors"
	"github.com/renomatch/renomatch-backend/internal/credits"
	"github.com/renomatch/renomatch-backend/internal/pricing"
	"github.com/renomatch/renomatch-backend/pkg/db/models"
	dbtypes "github.com/renomatch/renomatch-backend/pkg/db/types"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/metrics"
	"github.com/renomatch/renomatch-backend/pkg/pagination"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

// Submission outcome labels for metrics.
const (
	outcomeSuccess           = "success"
	outcomeValidationFailed  = "validation_failed"
	outcomeCreditExhausted   = "credit_exhausted"
	outcomePersistenceFailed = "persistence_failed"
	outcomeDependencyFailed  = "dependency_failed"

	defaultSubmissionSource = "web"

	oldestAcceptedYearBuilt = 1900
	maxExtraInfoLength      = 500
)

// Service defines lead submission and lifecycle operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to enums.LeadStatus) (*models.Lead, error)
}

// SubmitInput is the validated lead form plus the submitting session.
type SubmitInput struct {
	SessionToken string

	FirstName string
	LastName  string
	Email     string
	Phone     string

	Address    string
	PostalCode string
	City       string
	Region     string

	ProjectType  enums.ProjectType
	BuildingType enums.BuildingType
	YearBuilt    *int
	Urgency      enums.Urgency
	Budget       types.MoneyRange
	Priority     enums.Priority
	ExtraInfo    *string

	Source string
}

// SubmitResult is the success payload of a submission.
type SubmitResult struct {
	LeadID      uuid.UUID           `json:"leadId"`
	Estimate    pricing.Estimate    `json:"estimate"`
	Contractors []models.Contractor `json:"contractors"`
	Credits     credits.Status      `json:"credits"`
}

// Detail is a stored lead with its breakdown recomputed from the persisted
// bounds.
type Detail struct {
	Lead      models.Lead       `json:"lead"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// ListParams configures the back-office lead listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult wraps returned leads and the cursor for the next page.
type ListResult struct {
	Items  []models.Lead `json:"items"`
	Cursor string        `json:"cursor"`
}

type service struct {
	repo        Repository
	credits     credits.Service
	contractors contractors.Service
	pricing     *pricing.Engine
	log         *logger.Logger
	metrics     *metrics.SubmissionMetrics
	now         func() time.Time
}

// NewService wires the submission orchestrator.
func NewService(
	repo Repository,
	creditsSvc credits.Service,
	contractorsSvc contractors.Service,
	engine *pricing.Engine,
	log *logger.Logger,
	submissionMetrics *metrics.SubmissionMetrics,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "leads repository required")
	}
	if creditsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "credits service required")
	}
	if contractorsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contractors service required")
	}
	if engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pricing engine required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:        repo,
		credits:     creditsSvc,
		contractors: contractorsSvc,
		pricing:     engine,
		log:         log,
		metrics:     submissionMetrics,
		now:         time.Now,
	}, nil
}

// Submit runs the submission saga. Each numbered step either fails the whole
// submission or commits the next piece of state; only the final persistence
// step can leave the ledger ahead of the lead table.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	started := s.now()
	outcome := outcomeDependencyFailed
	defer func() {
		s.metrics.IncSubmission(outcome)
		s.metrics.ObserveDuration(outcome, s.now().Sub(started))
	}()

	if err := validateSubmit(input); err != nil {
		outcome = outcomeValidationFailed
		return nil, err
	}
	ctx = s.log.WithSessionToken(ctx, input.SessionToken)

	// Fail fast before doing any pricing or matching work.
	status, err := s.credits.Status(ctx, input.SessionToken)
	if err != nil {
		return nil, err
	}
	if !status.CanUseCredit {
		outcome = outcomeCreditExhausted
		return nil, pkgerrors.New(pkgerrors.CodeCreditExhausted, "no credits available for session")
	}

	// Pricing and matching have no data dependency on each other, so the
	// matcher runs concurrently. Matching is best-effort: a matcher failure
	// degrades the submission to zero contractors instead of aborting it.
	type matchOutcome struct {
		contractors []models.Contractor
		err         error
	}
	matchCh := make(chan matchOutcome, 1)
	go func() {
		matched, matchErr := s.contractors.Match(ctx, contractors.MatchCriteria{
			ProjectType: input.ProjectType,
			Region:      input.Region,
			Budget:      input.Budget,
			Priority:    input.Priority,
		})
		matchCh <- matchOutcome{contractors: matched, err: matchErr}
	}()

	estimate, err := s.pricing.Estimate(input.ProjectType, input.BuildingType, input.YearBuilt)
	if err != nil {
		outcome = outcomeValidationFailed
		return nil, err
	}

	match := <-matchCh
	if match.err != nil {
		s.log.Error(ctx, "contractor matching failed; continuing without matches", match.err)
		match.contractors = nil
	}

	consumed, err := s.credits.Consume(ctx, input.SessionToken)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeCreditExhausted) {
			outcome = outcomeCreditExhausted
		}
		return nil, err
	}
	s.metrics.IncCreditConsumed()

	matchedIDs := make(dbtypes.UUIDArray, 0, len(match.contractors))
	for _, contractor := range match.contractors {
		matchedIDs = append(matchedIDs, contractor.ID)
	}

	source := input.Source
	if source == "" {
		source = defaultSubmissionSource
	}

	lead := &models.Lead{
		ID:        uuid.New(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,

		Address:    input.Address,
		PostalCode: input.PostalCode,
		City:       input.City,

		ProjectType:  input.ProjectType,
		BuildingType: input.BuildingType,
		YearBuilt:    input.YearBuilt,
		Urgency:      input.Urgency,
		BudgetMin:    input.Budget.Min,
		BudgetMax:    input.Budget.Max,
		Priority:     input.Priority,
		ExtraInfo:    input.ExtraInfo,

		EstimateMin:      estimate.Min,
		EstimateMax:      estimate.Max,
		EstimateCurrency: estimate.Currency,

		MatchedContractorIDs: matchedIDs,
		Source:               source,
		Status:               enums.LeadStatusNew,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		// The credit is already spent and there is no compensating refund;
		// flag the orphaned credit for manual reconciliation.
		// TODO: add a refund path once the ledger grows an adjustment column.
		outcome = outcomePersistenceFailed
		s.metrics.IncOrphanedCredit()
		s.log.Error(ctx, "lead persistence failed after credit consumption", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeLeadPersistence, err, "persist lead").
			WithDetails(map[string]any{"creditConsumed": true})
	}

	outcome = outcomeSuccess
	s.log.Info(s.log.WithLeadID(ctx, lead.ID.String()), "lead submitted")

	return &SubmitResult{
		LeadID:      lead.ID,
		Estimate:    estimate,
		Contractors: match.contractors,
		Credits:     *consumed,
	}, nil
}

// GetByID loads a lead and recomputes its breakdown from the stored bounds.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead id required")
	}
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lead")
	}
	if lead == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return &Detail{
		Lead:      *lead,
		Breakdown: s.pricing.BreakdownFor(lead.ProjectType, lead.EstimateMin, lead.EstimateMax),
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listLeadsParams{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParseLeadStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// UpdateStatus advances a lead through its lifecycle, rejecting transitions
// the state machine does not allow.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, to enums.LeadStatus) (*models.Lead, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead id required")
	}
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown lead status").
			WithDetails(map[string]any{"status": string(to)})
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lead")
	}
	if lead == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	if !lead.Status.CanTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "lead status transition not allowed").
			WithDetails(map[string]any{"from": string(lead.Status), "to": string(to)})
	}

	update, err := s.repo.UpdateStatus(ctx, id, lead.Status, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update lead status")
	}
	if !update.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	if !update.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "lead status changed concurrently")
	}

	lead.Status = to
	return lead, nil
}

func validateSubmit(input SubmitInput) error {
	problems := map[string]string{}

	if strings.TrimSpace(input.FirstName) == "" {
		problems["firstName"] = "required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		problems["lastName"] = "required"
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		problems["email"] = "must be a valid email address"
	}
	if strings.TrimSpace(input.Address) == "" {
		problems["address"] = "required"
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		problems["postalCode"] = "required"
	}
	if strings.TrimSpace(input.City) == "" {
		problems["city"] = "required"
	}
	if !input.ProjectType.IsValid() {
		problems["projectType"] = "unknown value"
	}
	if !input.BuildingType.IsValid() {
		problems["buildingType"] = "unknown value"
	}
	if !input.Urgency.IsValid() {
		problems["urgency"] = "unknown value"
	}
	if !input.Priority.IsValid() {
		problems["priority"] = "unknown value"
	}
	if !input.Budget.Valid() || input.Budget.Max == 0 {
		problems["budget"] = "must be an ordered non-negative range"
	}
	if input.YearBuilt != nil {
		year := *input.YearBuilt
		if year < oldestAcceptedYearBuilt || year > time.Now().Year() {
			problems["yearBuilt"] = "implausible construction year"
		}
	}
	if input.ExtraInfo != nil && len(*input.ExtraInfo) > maxExtraInfoLength {
		problems["extraInfo"] = "too long"
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid lead submission").WithDetails(problems)
	}
	return nil
}
