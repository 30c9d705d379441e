package leads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/renomatch/renomatch-backend/pkg/db/models"
	dbtypes "github.com/renomatch/renomatch-backend/pkg/db/types"
	"github.com/renomatch/renomatch-backend/pkg/enums"
)

func setupLeadsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:leads_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE leads (
  id TEXT PRIMARY KEY,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  address TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  city TEXT NOT NULL,
  project_type TEXT NOT NULL,
  building_type TEXT NOT NULL,
  year_built INTEGER,
  urgency TEXT NOT NULL,
  budget_min INTEGER NOT NULL,
  budget_max INTEGER NOT NULL,
  priority TEXT NOT NULL,
  extra_info TEXT,
  estimate_min INTEGER NOT NULL,
  estimate_max INTEGER NOT NULL,
  estimate_currency TEXT NOT NULL,
  matched_contractor_ids TEXT,
  chosen_contractor_id TEXT,
  source TEXT NOT NULL DEFAULT 'web',
  status TEXT NOT NULL DEFAULT 'new',
  notes TEXT
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func storedLead(t *testing.T, repo Repository, createdAt time.Time, status enums.LeadStatus) models.Lead {
	t.Helper()

	lead := models.Lead{
		ID:        uuid.New(),
		CreatedAt: createdAt,
		FirstName: "An",
		LastName:  "Peeters",
		Email:     "an.peeters@example.be",

		Address:    "Veldstraat 12",
		PostalCode: "9000",
		City:       "Gent",

		ProjectType:  enums.ProjectTypeRoof,
		BuildingType: enums.BuildingTypeRow,
		Urgency:      enums.UrgencyExploring,
		BudgetMin:    15000,
		BudgetMax:    30000,
		Priority:     enums.PriorityBalance,

		EstimateMin:      12000,
		EstimateMax:      35000,
		EstimateCurrency: "EUR",

		MatchedContractorIDs: dbtypes.UUIDArray{uuid.New(), uuid.New()},
		Source:               "web",
		Status:               status,
	}
	require.NoError(t, repo.Create(context.Background(), &lead))
	return lead
}

func TestLeadRoundTrip(t *testing.T) {
	repo := NewRepository(setupLeadsTestDB(t))

	created := storedLead(t, repo, time.Now().UTC(), enums.LeadStatusNew)

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.ProjectType, got.ProjectType)
	assert.Equal(t, created.EstimateMin, got.EstimateMin)
	assert.ElementsMatch(t, created.MatchedContractorIDs, got.MatchedContractorIDs)
}

func TestLeadGetByID_NotFoundReturnsNil(t *testing.T) {
	repo := NewRepository(setupLeadsTestDB(t))

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLeadList_StatusFilterAndCursor(t *testing.T) {
	repo := NewRepository(setupLeadsTestDB(t))
	base := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

	var newest models.Lead
	for i := 0; i < 3; i++ {
		newest = storedLead(t, repo, base.Add(time.Duration(i)*time.Hour), enums.LeadStatusNew)
	}
	storedLead(t, repo, base.Add(12*time.Hour), enums.LeadStatusForwarded)

	status := enums.LeadStatusNew
	firstPage, next, err := repo.List(context.Background(), listLeadsParams{Status: &status, Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	require.NotNil(t, next)
	assert.Equal(t, newest.ID, firstPage[0].ID, "newest first")

	secondPage, next, err := repo.List(context.Background(), listLeadsParams{Status: &status, Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Nil(t, next)
}

func TestLeadUpdateStatus_Conditional(t *testing.T) {
	repo := NewRepository(setupLeadsTestDB(t))
	lead := storedLead(t, repo, time.Now().UTC(), enums.LeadStatusNew)

	update, err := repo.UpdateStatus(context.Background(), lead.ID, enums.LeadStatusNew, enums.LeadStatusForwarded)
	require.NoError(t, err)
	assert.True(t, update.Updated)
	assert.True(t, update.Found)

	// Stale expected status: the row exists but nothing changes.
	update, err = repo.UpdateStatus(context.Background(), lead.ID, enums.LeadStatusNew, enums.LeadStatusForwarded)
	require.NoError(t, err)
	assert.False(t, update.Updated)
	assert.True(t, update.Found)

	update, err = repo.UpdateStatus(context.Background(), uuid.New(), enums.LeadStatusNew, enums.LeadStatusForwarded)
	require.NoError(t, err)
	assert.False(t, update.Updated)
	assert.False(t, update.Found)
}
