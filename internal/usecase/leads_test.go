package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

func TestLeadCreate_RequiresName(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())

	_, _, err := uc.Create(context.Background(), usecase.CreateLeadInput{Name: "  ", Email: "a@b.com"})

	assertCode(t, err, usecase.CodeValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadCreate_Defaults(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	var in usecase.CreateLeadInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Asha","value":"1500.50","quantity":"12 boxes"}`), &in))

	lead, created, err := uc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, entity.IsPrimaryLeadID(lead.ID))
	assert.Equal(t, entity.LeadSourceWebsite, lead.Source)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, 1500.50, lead.Value)
	require.NotNil(t, lead.Quantity)
	assert.Equal(t, 12, *lead.Quantity)
}

func TestLeadCreate_ReturnsExistingForKnownMySQLID(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())
	existing := &entity.Lead{ID: "c9a4", Name: "Asha", MySQLID: strPtr("31")}
	repo.On("FindByMySQLID", mock.Anything, "31").Return(existing, nil)

	lead, created, err := uc.Create(context.Background(), usecase.CreateLeadInput{Name: "Asha", MySQLID: strPtr("31")})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, lead)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadCreate_DuplicateRaceReturnsWinner(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())
	winner := &entity.Lead{ID: "w", MySQLID: strPtr("31")}
	repo.On("FindByMySQLID", mock.Anything, "31").Return(nil, entity.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDuplicateMySQLID)
	repo.On("FindByMySQLID", mock.Anything, "31").Return(winner, nil).Once()

	lead, created, err := uc.Create(context.Background(), usecase.CreateLeadInput{Name: "Asha", MySQLID: strPtr("31")})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, winner, lead)
}

func TestLeadUpdate_PromotesLegacyLead(t *testing.T) {
	repo := new(MockLeadRepository)
	legacy := new(MockLegacyLeadRepository)
	uc := usecase.NewLeadUseCase(repo, legacy, zap.NewNop())

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	qty := 4
	legacy.On("FindByID", mock.Anything, int64(31)).Return(&entity.LegacyLead{
		ID: 31, FullName: "Ravi", EmailAddress: "ravi@example.com", ProductName: "Mugs",
		QuantityRequired: &qty, CreatedDate: &created,
	}, nil)
	repo.On("FindByMySQLID", mock.Anything, "31").Return(nil, entity.ErrNotFound)

	var promotedID string
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Name == "Ravi" && l.Source == entity.LeadSourceWebsite &&
			l.Status == entity.LeadStatusImported && *l.MySQLID == "31" &&
			l.CreatedAt == "2024-03-01" && *l.Quantity == 4
	})).Run(func(args mock.Arguments) {
		promotedID = args.Get(1).(*entity.Lead).ID
	}).Return(nil)
	repo.On("Update", mock.Anything, mock.Anything, map[string]any{"status": "Contacted"}).
		Return(&entity.Lead{ID: "promoted", Status: "Contacted", MySQLID: strPtr("31")}, nil)

	lead, err := uc.Update(context.Background(), "31", map[string]any{"id": "31", "status": "Contacted"})

	require.NoError(t, err)
	assert.Equal(t, "Contacted", lead.Status)
	repo.AssertCalled(t, "Update", mock.Anything, promotedID, map[string]any{"status": "Contacted"})
}

func TestLeadUpdate_ReusesPromotedRow(t *testing.T) {
	repo := new(MockLeadRepository)
	legacy := new(MockLegacyLeadRepository)
	uc := usecase.NewLeadUseCase(repo, legacy, zap.NewNop())

	repo.On("FindByMySQLID", mock.Anything, "31").Return(&entity.Lead{ID: "p1", MySQLID: strPtr("31")}, nil)
	repo.On("Update", mock.Anything, "p1", map[string]any{"notes": "called"}).Return(&entity.Lead{ID: "p1", Notes: "called"}, nil)

	lead, err := uc.Update(context.Background(), "31", map[string]any{"notes": "called"})

	require.NoError(t, err)
	assert.Equal(t, "p1", lead.ID)
	legacy.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestLeadUpdate_RejectsUnknownField(t *testing.T) {
	uc := usecase.NewLeadUseCase(new(MockLeadRepository), nil, zap.NewNop())

	_, err := uc.Update(context.Background(), "6f1c6f3e-8a43-4d5b-9a53-1d2b3c4d5e6f", map[string]any{"mysql_id": "1"})

	assertCode(t, err, usecase.CodeInvalidField)
}

func TestLeadDelete_NotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())
	id := "6f1c6f3e-8a43-4d5b-9a53-1d2b3c4d5e6f"
	repo.On("Delete", mock.Anything, id).Return(false, nil)

	assertCode(t, uc.Delete(context.Background(), id), usecase.CodeNotFound)
}

func TestLeadDelete_LegacyIDIsNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())

	assertCode(t, uc.Delete(context.Background(), "123"), usecase.CodeNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLeadCreate_BlankQuantityIsNotGiven(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := usecase.NewLeadUseCase(repo, nil, zap.NewNop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	var in usecase.CreateLeadInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Asha","quantity":""}`), &in))

	lead, _, err := uc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Nil(t, lead.Quantity)
}

func TestMergeLeads_HidesPromotedLegacyRows(t *testing.T) {
	primary := []entity.Lead{
		{ID: "p1", CreatedAt: "2024-05-01", MySQLID: strPtr("2")},
		{ID: "p2", CreatedAt: "2024-01-01"},
	}
	legacy := []entity.Lead{
		{ID: "1", Source: entity.LeadSourceMySQL, CreatedAt: "2024-03-01"},
		{ID: "2", Source: entity.LeadSourceMySQL, CreatedAt: "2024-06-01"},
	}

	merged := usecase.MergeLeads(primary, legacy)

	require.Len(t, merged, 3)
	ids := []string{merged[0].ID, merged[1].ID, merged[2].ID}
	assert.Equal(t, []string{"p1", "1", "p2"}, ids)
	assert.Equal(t, entity.LeadSourceWebsite, merged[1].Source)
}

func TestLeadMerged_ToleratesLegacyFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	legacy := new(MockLegacyLeadRepository)
	uc := usecase.NewLeadUseCase(repo, legacy, zap.NewNop())

	repo.On("List", mock.Anything).Return([]entity.Lead{{ID: "p1", Status: "New"}, {ID: "p2", Status: "Closed Won"}}, nil)
	legacy.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	leads, err := uc.Merged(context.Background(), usecase.LeadFilter{Status: "New"})

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "p1", leads[0].ID)
}

func TestComputeLeadStats(t *testing.T) {
	stats := usecase.ComputeLeadStats([]entity.Lead{
		{Status: "New", Value: 100},
		{Status: "Closed Won", Value: 250},
		{Status: "Contacted"},
	})

	assert.Equal(t, 3, stats.TotalLeads)
	assert.Equal(t, 1, stats.NewLeads)
	assert.Equal(t, 350.0, stats.TotalValue)
	assert.Equal(t, 33.3, stats.ConversionRate)
}
