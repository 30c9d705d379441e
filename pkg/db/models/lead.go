package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/renomatch/renomatch-backend/pkg/db/types"
	"github.com/renomatch/renomatch-backend/pkg/enums"
)

// Lead is the persisted outcome of a successful submission. Only the estimate
// bounds and currency are stored; the category breakdown is recomputed from
// the stored project parameters on read so it cannot drift from the pricing
// engine.
type Lead struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"column:email;not null"`
	Phone     string `gorm:"column:phone"`

	Address    string `gorm:"column:address;not null"`
	PostalCode string `gorm:"column:postal_code;not null"`
	City       string `gorm:"column:city;not null"`

	ProjectType  enums.ProjectType  `gorm:"column:project_type;not null"`
	BuildingType enums.BuildingType `gorm:"column:building_type;not null"`
	YearBuilt    *int               `gorm:"column:year_built"`
	Urgency      enums.Urgency      `gorm:"column:urgency;not null"`
	BudgetMin    int                `gorm:"column:budget_min;not null"`
	BudgetMax    int                `gorm:"column:budget_max;not null"`
	Priority     enums.Priority     `gorm:"column:priority;not null"`
	ExtraInfo    *string            `gorm:"column:extra_info"`

	EstimateMin      int    `gorm:"column:estimate_min;not null"`
	EstimateMax      int    `gorm:"column:estimate_max;not null"`
	EstimateCurrency string `gorm:"column:estimate_currency;not null"`

	MatchedContractorIDs dbtypes.UUIDArray `gorm:"column:matched_contractor_ids;type:uuid[]"`
	ChosenContractorID   *uuid.UUID        `gorm:"column:chosen_contractor_id;type:uuid"`

	Source string           `gorm:"column:source;not null;default:'web'"`
	Status enums.LeadStatus `gorm:"column:status;not null;default:'new'"`
	Notes  *string          `gorm:"column:notes"`
}
