package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditSession is the per-visitor credit ledger entry. One row per anonymous
// session token, created lazily on first consumption attempt. credits_used is
// only ever advanced by the conditional consume update, so
// 0 <= credits_used <= credits_total holds at all times.
type CreditSession struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionToken string     `gorm:"column:session_token;not null;unique"`
	CreditsTotal int        `gorm:"column:credits_total;not null;default:1"`
	CreditsUsed  int        `gorm:"column:credits_used;not null;default:0"`
	FirstUsedAt  *time.Time `gorm:"column:first_used_at"`
	LastUsedAt   *time.Time `gorm:"column:last_used_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// CanUseCredit is the derived availability flag; it is never stored.
func (c CreditSession) CanUseCredit() bool {
	return c.CreditsUsed < c.CreditsTotal
}
