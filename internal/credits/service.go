// Package credits manages the per-session free credit ledger. Sessions are
// anonymous counting keys; a row is only materialized once a visitor actually
// tries to spend a credit.
package credits

import (
	"context"
	"time"

	"github.com/renomatch/renomatch-backend/pkg/config"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/session"
)

// Service defines credit status and consumption operations.
type Service interface {
	Status(ctx context.Context, sessionToken string) (*Status, error)
	Consume(ctx context.Context, sessionToken string) (*Status, error)
}

// Status is the externally visible state of a session's ledger.
type Status struct {
	SessionToken string `json:"sessionToken"`
	CreditsTotal int    `json:"creditsTotal"`
	CreditsUsed  int    `json:"creditsUsed"`
	CanUseCredit bool   `json:"canUseCredit"`
}

type service struct {
	repo Repository
	cfg  config.CreditsConfig
	now  func() time.Time
}

// NewService wires credit ledger dependencies.
func NewService(repo Repository, cfg config.CreditsConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "credits repository required")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// Status reports the ledger state without writing anything. Unknown tokens get
// the virtual untouched ledger, so merely checking never creates rows.
func (s *service) Status(ctx context.Context, sessionToken string) (*Status, error) {
	if !session.IsWellFormed(sessionToken) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed session token")
	}

	row, err := s.repo.Get(ctx, sessionToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load credit session")
	}
	if row == nil {
		return &Status{
			SessionToken: sessionToken,
			CreditsTotal: s.cfg.PerSession,
			CreditsUsed:  0,
			CanUseCredit: s.cfg.PerSession > 0,
		}, nil
	}

	return &Status{
		SessionToken: row.SessionToken,
		CreditsTotal: row.CreditsTotal,
		CreditsUsed:  row.CreditsUsed,
		CanUseCredit: row.CanUseCredit(),
	}, nil
}

// Consume spends one credit atomically. When no credit remains it fails with
// the credit-exhausted code and leaves the ledger untouched.
func (s *service) Consume(ctx context.Context, sessionToken string) (*Status, error) {
	if !session.IsWellFormed(sessionToken) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed session token")
	}

	result, err := s.repo.Consume(ctx, sessionToken, s.cfg.PerSession, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume credit")
	}
	if !result.Consumed {
		return nil, pkgerrors.New(pkgerrors.CodeCreditExhausted, "no credits available for session").
			WithDetails(map[string]any{
				"creditsTotal": result.Session.CreditsTotal,
				"creditsUsed":  result.Session.CreditsUsed,
			})
	}

	return &Status{
		SessionToken: result.Session.SessionToken,
		CreditsTotal: result.Session.CreditsTotal,
		CreditsUsed:  result.Session.CreditsUsed,
		CanUseCredit: result.Session.CanUseCredit(),
	}, nil
}
