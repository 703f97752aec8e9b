package activitylog_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/require"

	usecases "github.com/hilthontt/visper-admin/application/usecases/activitylog"
	"github.com/hilthontt/visper-admin/domain/filter"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/presentation/controllers/activitylog"
	"github.com/hilthontt/visper-admin/presentation/middlewares"
	"github.com/hilthontt/visper-admin/presentation/routes"
)

type activityLogUseCaseStub struct {
	recordFn func(ctx context.Context, params usecases.RecordParams) (*model.RoomActivityLog, error)
	listFn   func(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error)
	purgeFn  func(ctx context.Context, maxAge time.Duration) (int64, error)
}

var _ usecases.ActivityLogUseCase = (*activityLogUseCaseStub)(nil)

func (s *activityLogUseCaseStub) Record(ctx context.Context, params usecases.RecordParams) (*model.RoomActivityLog, error) {
	return s.recordFn(ctx, params)
}

func (s *activityLogUseCaseStub) List(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
	return s.listFn(ctx, f)
}

func (s *activityLogUseCaseStub) PurgeOlderThan(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.purgeFn(ctx, maxAge)
}

func newActivityLogRouter(t *testing.T, stub *activityLogUseCaseStub) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.New()
	v1 := router.Group("/api/v1")
	routes.ActivityLogRoutes(v1, activitylog.NewActivityLogController(stub))

	return router
}

func logEntry(id int64, roomID string, action model.ActivityAction) model.RoomActivityLog {
	return model.RoomActivityLog{
		ID:               id,
		EventID:          "evt-" + roomID,
		RoomID:           roomID,
		Action:           action,
		Timestamp:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Second),
		ParticipantCount: 2,
	}
}

func TestListActivityLogsMapsOptionalFields(t *testing.T) {
	withIP := logEntry(2, "room-a", model.ActionJoined)
	withIP.IPAddress = sql.NullString{String: "203.0.113.7", Valid: true}
	withIP.UserAgentHash = sql.NullString{String: "deadbeef", Valid: true}
	bare := logEntry(1, "room-a", model.ActionCreated)

	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		listFn: func(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
			return []model.RoomActivityLog{withIP, bare}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity-logs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data        []map[string]any `json:"data"`
		Count       int              `json:"count"`
		NextSinceID int64            `json:"next_since_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Data, 2)

	require.Equal(t, "203.0.113.7", resp.Data[0]["ip_address"])
	require.Equal(t, "deadbeef", resp.Data[0]["user_agent_hash"])

	_, hasIP := resp.Data[1]["ip_address"]
	require.False(t, hasIP, "null ip must be omitted, not rendered as empty string")
	_, hasUA := resp.Data[1]["user_agent_hash"]
	require.False(t, hasUA)

	// Two entries against a default page of 100 is the last page.
	require.Zero(t, resp.NextSinceID)
}

func TestListActivityLogsForwardsFilters(t *testing.T) {
	var got filter.ActivityLogFilter
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		listFn: func(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
			got = f
			return []model.RoomActivityLog{
				logEntry(39, "room-a", model.ActionCreated),
				logEntry(37, "room-a", model.ActionCreated),
			}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity-logs?room_id=room-a&action=created&since_id=40&limit=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "room-a", got.RoomID)
	require.Equal(t, model.ActionCreated, got.Action)
	require.Equal(t, int64(40), got.SinceID)
	require.Equal(t, 2, got.Limit)

	var resp activitylog.ListActivityLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// A full page hands back the cursor for the next one.
	require.Equal(t, int64(37), resp.NextSinceID)
}

func TestListActivityLogsRejectsBadQueries(t *testing.T) {
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		listFn: func(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
			t.Fatal("usecase should not run on rejected input")
			return nil, nil
		},
	})

	for _, tt := range []struct {
		name  string
		query string
	}{
		{name: "unknown action", query: "action=renamed"},
		{name: "room id too long", query: "room_id=" + strings.Repeat("a", 37)},
		{name: "non numeric since id", query: "since_id=abc"},
		{name: "limit above cap", query: "limit=9999"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/activity-logs?"+tt.query, nil)
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp activitylog.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, "invalid_request", resp.Error)
		})
	}
}

func TestListActivityLogsReportsFailure(t *testing.T) {
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		listFn: func(ctx context.Context, f filter.ActivityLogFilter) ([]model.RoomActivityLog, error) {
			return nil, context.DeadlineExceeded
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity-logs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp activitylog.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "listing_failed", resp.Error)
}

func TestPurgeActivityLogsDefaultsToThirtyDays(t *testing.T) {
	var gotAge time.Duration
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		purgeFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
			gotAge = maxAge
			return 12, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activity-logs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 30*24*time.Hour, gotAge)

	var resp activitylog.PurgeActivityLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(12), resp.Deleted)
	require.Equal(t, 30, resp.OlderThanDays)
}

func TestPurgeActivityLogsHonorsQuery(t *testing.T) {
	var gotAge time.Duration
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		purgeFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
			gotAge = maxAge
			return 0, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activity-logs?older_than_days=7", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 7*24*time.Hour, gotAge)

	var resp activitylog.PurgeActivityLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Zero(t, resp.Deleted)
	require.Equal(t, 7, resp.OlderThanDays)
}

func TestPurgeActivityLogsReportsFailure(t *testing.T) {
	router := newActivityLogRouter(t, &activityLogUseCaseStub{
		purgeFn: func(ctx context.Context, maxAge time.Duration) (int64, error) {
			return 0, context.DeadlineExceeded
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/activity-logs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp activitylog.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "purge_failed", resp.Error)
}
