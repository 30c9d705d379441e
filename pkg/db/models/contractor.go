package models

import (
	"time"

	"github.com/google/uuid"
)

// Contractor is a vetted company record. Rows are curated out-of-band; the API
// only ever reads them.
type Contractor struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name    string    `gorm:"column:name;not null"`
	City    string    `gorm:"column:city;not null"`
	Region  string    `gorm:"column:region;not null"`
	Website *string   `gorm:"column:website"`
	Email   *string   `gorm:"column:email"`
	Phone   *string   `gorm:"column:phone"`

	Verified             bool `gorm:"column:verified;not null;default:false"`
	FinanciallyHealthy   bool `gorm:"column:financially_healthy;not null;default:false"`
	FullGuidancePremiums bool `gorm:"column:full_guidance_premiums;not null;default:false"`

	OffersRoof       bool `gorm:"column:offers_roof;not null;default:false"`
	OffersFacade     bool `gorm:"column:offers_facade;not null;default:false"`
	OffersInsulation bool `gorm:"column:offers_insulation;not null;default:false"`
	OffersSolar      bool `gorm:"column:offers_solar;not null;default:false"`

	AvgProjectValueMin *int     `gorm:"column:avg_project_value_min"`
	AvgProjectValueMax *int     `gorm:"column:avg_project_value_max"`
	AvgProjectsPerYear *int     `gorm:"column:avg_projects_per_year"`
	Rating             *float64 `gorm:"column:rating;type:numeric(2,1)"`
	Notes              *string  `gorm:"column:notes"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
