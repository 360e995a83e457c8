package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-ledger-go/internal/models"
)

func TestPortfolioSummary_EmptyForUserWithoutTrades(t *testing.T) {
	svc := setupTest(t)

	summary, err := svc.PortfolioSummary(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, summary)
	assert.Empty(t, summary)
}

func TestPortfolioSummary_OrderedByInstrument(t *testing.T) {
	svc := setupTest(t)
	ctx := context.Background()

	for _, instrument := range []string{"MSFT", "AAPL", "GOOG"} {
		_, err := svc.ExecuteTrade(ctx, 1, instrument, dec("1"), dec("10"), models.TradeTypeBuy)
		require.NoError(t, err)
	}

	summary, err := svc.PortfolioSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "AAPL", summary[0].Instrument)
	assert.Equal(t, "GOOG", summary[1].Instrument)
	assert.Equal(t, "MSFT", summary[2].Instrument)
}

func TestPortfolioSummary_DoesNotLeakOtherUsers(t *testing.T) {
	svc := setupTest(t)
	ctx := context.Background()

	_, err := svc.ExecuteTrade(ctx, 1, "AAPL", dec("1"), dec("10"), models.TradeTypeBuy)
	require.NoError(t, err)
	_, err = svc.ExecuteTrade(ctx, 2, "MSFT", dec("2"), dec("20"), models.TradeTypeBuy)
	require.NoError(t, err)

	summary, err := svc.PortfolioSummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "AAPL", summary[0].Instrument)
}

func TestUserTrades_NewestFirstAndPaged(t *testing.T) {
	svc := setupTest(t)
	ctx := context.Background()

	var ids []uint64
	for i := 0; i < 5; i++ {
		trade, err := svc.ExecuteTrade(ctx, 1, "AAPL", dec("1"), dec("10"), models.TradeTypeBuy)
		require.NoError(t, err)
		ids = append(ids, trade.ID)
	}

	page, err := svc.UserTrades(ctx, 1, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, err = svc.UserTrades(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = svc.UserTrades(ctx, 1, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	// Another user's history stays empty.
	page, err = svc.UserTrades(ctx, 9, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestAuditEvents_FiltersCombineConjunctively(t *testing.T) {
	svc := setupTest(t)
	ctx := context.Background()

	user1, user2 := int64(1), int64(2)
	require.NoError(t, svc.audit.Record(svc.db, models.AuditTradeExecuted, &user1, nil, "trade one", false))
	require.NoError(t, svc.audit.Record(svc.db, models.AuditPortfolioUpdated, &user1, nil, "rebalance", false))
	require.NoError(t, svc.audit.Record(svc.db, models.AuditTradeExecuted, &user2, nil, "trade two", false))
	require.NoError(t, svc.audit.Record(svc.db, models.AuditSystemEvent, nil, nil, "eod", true))

	// No filter: everything, newest first.
	events, err := svc.AuditEvents(ctx, AuditEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.True(t, events[i-1].ID > events[i].ID, "expected newest-first ordering")
	}

	// By event type.
	tradeExecuted := models.AuditTradeExecuted
	events, err = svc.AuditEvents(ctx, AuditEventFilter{EventType: &tradeExecuted})
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, models.AuditTradeExecuted, e.EventType)
	}

	// By user and event type together.
	events, err = svc.AuditEvents(ctx, AuditEventFilter{UserID: &user1, EventType: &tradeExecuted})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "trade one", events[0].Description)

	// Limit truncates.
	events, err = svc.AuditEvents(ctx, AuditEventFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestAuditEvents_TimeWindowFilters(t *testing.T) {
	svc := setupTest(t)
	ctx := context.Background()

	user := int64(1)
	require.NoError(t, svc.audit.Record(svc.db, models.AuditSystemEvent, &user, nil, "marker", true))

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	events, err := svc.AuditEvents(ctx, AuditEventFilter{Since: &past})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = svc.AuditEvents(ctx, AuditEventFilter{Since: &future})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = svc.AuditEvents(ctx, AuditEventFilter{Until: &past})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = svc.AuditEvents(ctx, AuditEventFilter{Since: &past, Until: &future})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
