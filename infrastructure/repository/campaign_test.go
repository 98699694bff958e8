package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/directpulse/direct-pulse-api/infrastructure/database/postgres"
	"github.com/directpulse/direct-pulse-api/internal/domain"
)

func newCampaignRepository(t *testing.T) (CampaignRepository, *postgres.Connection, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{DB: db}

	return NewCampaignRepository(conn), conn, mock
}

func TestCampaignListByToken(t *testing.T) {
	repo, _, mock := newCampaignRepository(t)

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM yandex_campaigns WHERE token_id = $1 ORDER BY cost DESC",
	)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token_id", "campaign_id", "name", "status", "state", "type",
			"daily_budget", "impressions", "clicks", "cost", "is_active",
			"last_updated", "created_at",
		}).
			AddRow(int64(1), int64(7), "101", "Campanha A", "ON", "ON", "TEXT_CAMPAIGN", 300.0, int64(1000), int64(50), 123.45, true, now, now).
			AddRow(int64(2), int64(7), "102", "Campanha B", "SUSPENDED", "SUSPENDED", "TEXT_CAMPAIGN", 0.0, int64(0), int64(0), 0.0, false, now, now))

	snapshots, err := repo.ListByToken(7)

	assert.NoError(t, err)
	assert.Len(t, snapshots, 2)
	assert.Equal(t, "101", snapshots[0].CampaignID)
	assert.Equal(t, 123.45, snapshots[0].Cost)
	assert.True(t, snapshots[0].IsActive)
	assert.False(t, snapshots[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignExistingIDsTx(t *testing.T) {
	repo, conn, mock := newCampaignRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT campaign_id FROM yandex_campaigns WHERE token_id = $1",
	)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"campaign_id"}).
			AddRow("101").
			AddRow("102"))

	tx, err := conn.Begin()
	assert.NoError(t, err)

	ids, err := repo.ExistingIDsTx(tx, 7)

	assert.NoError(t, err)
	assert.Equal(t, map[string]bool{"101": true, "102": true}, ids)
}

func TestCampaignUpsertTx(t *testing.T) {
	repo, conn, mock := newCampaignRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO yandex_campaigns (token_id,campaign_id,name,status,state,type,daily_budget,impressions,clicks,cost,is_active,last_updated)",
	)).
		WithArgs(
			int64(7), "101", "Campanha A", "ON", "ON", "TEXT_CAMPAIGN",
			300.0, int64(1000), int64(50), 123.45, true, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := conn.Begin()
	assert.NoError(t, err)

	err = repo.UpsertTx(tx, &domain.CampaignSnapshot{
		TokenID:     7,
		CampaignID:  "101",
		Name:        "Campanha A",
		Status:      "ON",
		State:       "ON",
		Type:        "TEXT_CAMPAIGN",
		DailyBudget: 300,
		Impressions: 1000,
		Clicks:      50,
		Cost:        123.45,
		IsActive:    true,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
