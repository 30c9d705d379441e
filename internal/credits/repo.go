package credits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renomatch/renomatch-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the credit ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, sessionToken string) (*models.CreditSession, error)
	Consume(ctx context.Context, sessionToken string, creditsTotal int, now time.Time) (consumeResult, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a credit ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type consumeResult struct {
	Consumed bool
	Session  models.CreditSession
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

// Get returns the ledger row for a token, or nil when the token has never
// consumed a credit.
func (r *repositoryImpl) Get(ctx context.Context, sessionToken string) (*models.CreditSession, error) {
	var session models.CreditSession
	err := r.db.WithContext(ctx).
		Where("session_token = ?", sessionToken).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Consume materializes the ledger row if needed and then advances credits_used
// with a conditional update. The WHERE clause carries the availability check,
// so two concurrent consumers race on the row update and exactly one of them
// sees RowsAffected > 0 once the last credit goes.
func (r *repositoryImpl) Consume(ctx context.Context, sessionToken string, creditsTotal int, now time.Time) (consumeResult, error) {
	seed := models.CreditSession{
		ID:           uuid.New(),
		SessionToken: sessionToken,
		CreditsTotal: creditsTotal,
		CreditsUsed:  0,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_token"}},
			DoNothing: true,
		}).
		Create(&seed).Error; err != nil {
		return consumeResult{}, err
	}

	result := r.db.WithContext(ctx).
		Model(&models.CreditSession{}).
		Where("session_token = ? AND credits_used < credits_total", sessionToken).
		UpdateColumns(map[string]any{
			"credits_used":  gorm.Expr("credits_used + 1"),
			"first_used_at": gorm.Expr("COALESCE(first_used_at, ?)", now),
			"last_used_at":  now,
		})
	if result.Error != nil {
		return consumeResult{}, result.Error
	}

	var session models.CreditSession
	if err := r.db.WithContext(ctx).
		Where("session_token = ?", sessionToken).
		First(&session).Error; err != nil {
		return consumeResult{}, err
	}

	return consumeResult{Consumed: result.RowsAffected > 0, Session: session}, nil
}
