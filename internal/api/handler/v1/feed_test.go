package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mintly/mintly-api/internal/domain"
)

type mockEvents struct {
	known map[uuid.UUID]domain.Event
}

func (m *mockEvents) CreateEvent(context.Context, uuid.UUID, domain.Event) (domain.Event, error) {
	return domain.Event{}, nil
}

func (m *mockEvents) GetEvent(_ context.Context, id uuid.UUID) (domain.Event, error) {
	event, ok := m.known[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (m *mockEvents) ListMyEvents(context.Context, uuid.UUID) ([]domain.Event, error) {
	return nil, nil
}

func (m *mockEvents) UpdateEvent(context.Context, uuid.UUID, uuid.UUID, domain.EventUpdate) (domain.Event, error) {
	return domain.Event{}, nil
}

func (m *mockEvents) GetEventStats(context.Context, uuid.UUID, uuid.UUID) (domain.EventStats, error) {
	return domain.EventStats{}, nil
}

func startFeed(t *testing.T, events EventService) (*FeedHub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewFeedHub(events, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/events/:eventID/feed", hub.HandleFeed)
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return hub, srv
}

func TestFeedHub_StreamsEventsOfTheWatchedEvent(t *testing.T) {
	eventID, otherID := uuid.New(), uuid.New()
	hub, srv := startFeed(t, &mockEvents{known: map[uuid.UUID]domain.Event{
		eventID: {ID: eventID},
		otherID: {ID: otherID},
	}})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/" + eventID.String() + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(eventID) == 1 }, 2*time.Second, 10*time.Millisecond)

	txnID := uuid.New()
	hub.Broadcast(domain.LedgerEvent{Kind: domain.KindReward, EventID: otherID, Amount: decimal.NewFromInt(1)})
	hub.Broadcast(domain.LedgerEvent{Kind: domain.KindPayment, EventID: eventID, TransactionID: &txnID, Amount: decimal.NewFromInt(5)})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.LedgerEvent
	require.NoError(t, json.Unmarshal(message, &got))
	assert.Equal(t, domain.KindPayment, got.Kind)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, txnID, *got.TransactionID)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount(eventID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeedHub_UnknownEvent(t *testing.T) {
	_, srv := startFeed(t, &mockEvents{})

	resp, err := http.Get(srv.URL + "/events/" + uuid.NewString() + "/feed")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/events/not-a-uuid/feed")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	check := checkOrigin([]string{"https://fair.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://fair.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, checkOrigin(nil)(req))
}
