package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	wsAdapter "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/websocket"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/mocks"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

type fakeWarehouse struct {
	err      error
	epics    *mocks.MockEpicRepository
	subTasks *mocks.MockSubTaskRepository
	tickets  *mocks.MockTicketRepository
}

func newFakeWarehouse(err error) *fakeWarehouse {
	return &fakeWarehouse{
		err:      err,
		epics:    mocks.NewMockEpicRepository(),
		subTasks: mocks.NewMockSubTaskRepository(),
		tickets:  mocks.NewMockTicketRepository(),
	}
}

func (f *fakeWarehouse) Ping(context.Context) error { return f.err }
func (f *fakeWarehouse) Epics() ports.EpicRepository { return f.epics }
func (f *fakeWarehouse) SubTasks() ports.SubTaskRepository { return f.subTasks }
func (f *fakeWarehouse) Tickets() ports.TicketRepository { return f.tickets }

type testServer struct {
	handler   stdhttp.Handler
	dashboard *mocks.MockDashboardService
	gantt     *mocks.MockGanttService
	reports   *mocks.MockReportService
	ring      *logging.RingBuffer
}

func newTestServer(t *testing.T, tm *auth.TokenManager, wh WarehouseProbe) *testServer {
	t.Helper()

	ring := logging.NewRingBuffer(50)
	logger := logging.NewLogger(logging.Config{Level: "debug", Format: "json", Output: io.Discard, Ring: ring})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := wsAdapter.NewHub(ring, logger)
	go hub.Run(ctx)

	cfg := &config.Config{
		Warehouse: config.WarehouseConfig{Driver: config.DriverSQLite},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}, MaxAge: 300},
		WebSocket: config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024},
		App:       config.AppConfig{Version: "test", Environment: "development"},
	}

	s := &testServer{
		dashboard: mocks.NewMockDashboardService(),
		gantt:     mocks.NewMockGanttService(),
		reports:   mocks.NewMockReportService(),
		ring:      ring,
	}
	s.handler = NewRouter(RouterDeps{
		Config:           cfg,
		Logger:           logger,
		Ring:             ring,
		Hub:              hub,
		Warehouse:        wh,
		DashboardService: s.dashboard,
		GanttService:     s.gantt,
		ReportService:    s.reports,
		TokenManager:     tm,
	})
	return s
}

func (s *testServer) get(t *testing.T, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func dayPtr(s string) *time.Time {
	d, _ := time.Parse(domain.DateLayout, s)
	return &d
}

func TestDashboardHandler_OK(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))

	avg := 42.5
	stats := domain.EmptyStats()
	stats.Total = 3
	stats.StatusCounts.Done = 1
	stats.AverageCompletion = &avg
	stats.Teams = []domain.TeamRollup{{Team: "Platform", Count: 3, AverageCompletion: 42.5, Done: 1}}

	s.dashboard.On("GetDashboard", mock.Anything, mock.MatchedBy(func(q ports.DashboardQuery) bool {
		return q.Team == "Platform" && q.Period == domain.PeriodQ1 && q.Start == nil
	})).Return(&ports.Dashboard{
		Stats: stats,
		Period: ports.PeriodInfo{
			Key:         domain.PeriodQ1,
			Description: "Q1 2025",
			Range:       domain.DateRange{Start: *dayPtr("2025-01-01"), End: *dayPtr("2025-03-31")},
		},
		Query:       ports.DashboardQuery{Team: "Platform", Period: domain.PeriodQ1},
		Backlog:     4,
		GeneratedAt: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}, nil)

	rec := s.get(t, "/api/v1/dashboard?team=Platform&period=q1")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	statsJSON := body["stats"].(map[string]any)
	assert.EqualValues(t, 3, statsJSON["total"])
	assert.EqualValues(t, 42.5, statsJSON["averageCompletion"])
	assert.Nil(t, statsJSON["trendPercent"])
	assert.Equal(t, "2025-01-01", body["period"].(map[string]any)["start"])
	assert.Equal(t, "Platform", body["filters"].(map[string]any)["team"])
	assert.EqualValues(t, 4, body["backlog"])
	assert.NotContains(t, body, "error")
	s.dashboard.AssertExpectations(t)
}

func TestDashboardHandler_WarehouseDownReturnsEmptyStats(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.dashboard.On("GetDashboard", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConnectionError(errors.New("dial tcp: refused")))

	rec := s.get(t, "/api/v1/dashboard?team=Platform")

	require.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	statsJSON := body["stats"].(map[string]any)
	assert.EqualValues(t, 0, statsJSON["total"])
	assert.Equal(t, []any{}, statsJSON["teams"])
	assert.Equal(t, "CONNECTION_ERROR", body["error"].(map[string]any)["code"])
	assert.Equal(t, "Platform", body["filters"].(map[string]any)["team"])
}

func TestDashboardHandler_MalformedDate(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))

	rec := s.get(t, "/api/v1/dashboard?start=15/01/2025")

	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "start")
	s.dashboard.AssertNotCalled(t, "GetDashboard", mock.Anything, mock.Anything)
}

func TestDashboardHandler_FilterOptions(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.dashboard.On("GetFilterOptions", mock.Anything).Return(&domain.FilterOptions{Teams: []string{"Mobile", "Platform"}}, nil)

	rec := s.get(t, "/api/v1/dashboard/filters")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []any{"Mobile", "Platform"}, body["teams"])
	assert.Equal(t, []any{}, body["products"])
}

func TestDashboardHandler_Alerts(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.dashboard.On("GetAlertDetails", mock.Anything, domain.AlertKind("overdue"), mock.Anything).
		Return([]domain.AlertDetail{{Number: "PLT-1", Team: "Platform", Due: dayPtr("2025-06-01"), Days: 14}}, nil)
	s.dashboard.On("GetAlertDetails", mock.Anything, domain.AlertKind("bogus"), mock.Anything).
		Return(nil, apperrors.NewBadRequestError(apperrors.ErrUnknownAlertKind, "Unknown alert type: bogus"))

	rec := s.get(t, "/api/v1/alerts/overdue")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 1, body["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "2025-06-01", first["due"])
	assert.EqualValues(t, 14, first["days"])

	rec = s.get(t, "/api/v1/alerts/bogus")
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestGanttHandler(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	bar := domain.GanttBar{
		Label: "PLT-1", EpicNumber: "PLT-1", RecordType: domain.RecordTypeActualByTeam,
		Start: *dayPtr("2025-02-01"), Finish: *dayPtr("2025-03-01"),
		Style: domain.StyleFor(domain.RecordTypeActualByTeam, domain.IndicatorDone), ShowLegend: true,
	}
	s.gantt.On("GetGantt", mock.Anything, mock.MatchedBy(func(q ports.GanttQuery) bool {
		return q.Status == "Done" && q.Start != nil && q.End != nil
	})).Return(&ports.GanttView{
		Chart: domain.GanttChart{
			Bars:         []domain.GanttBar{bar},
			VisibleRange: domain.DateRange{Start: *dayPtr("2025-01-17"), End: *dayPtr("2025-03-16")},
			Today:        *dayPtr("2025-06-15"),
			TotalEpics:   1,
		},
		Period: ports.PeriodInfo{Key: domain.PeriodCustom},
		Query:  ports.GanttQuery{Status: "Done", Period: domain.PeriodCustom},
	}, nil)

	rec := s.get(t, "/api/v1/gantt?status=Done&start=2025-01-01&end=2025-06-30")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "2025-01-17", body["visibleStart"])
	bars := body["bars"].([]any)
	require.Len(t, bars, 1)
	assert.Equal(t, domain.ColorActualDone, bars[0].(map[string]any)["color"])
	assert.Equal(t, "actual_by_team", bars[0].(map[string]any)["recordType"])
}

func TestGanttHandler_RecordTypeFilter(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.gantt.On("GetGantt", mock.Anything, mock.MatchedBy(func(q ports.GanttQuery) bool {
		return q.RecordType == domain.RecordTypeActualByTeam
	})).Return(&ports.GanttView{
		Chart: domain.GanttChart{Today: *dayPtr("2025-06-15")},
		Query: ports.GanttQuery{RecordType: domain.RecordTypeActualByTeam, Period: domain.PeriodCurrentYear},
	}, nil)

	rec := s.get(t, "/api/v1/gantt?record_type=actual_by_team")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "actual_by_team", decode(t, rec)["filters"].(map[string]any)["recordType"])

	rec = s.get(t, "/api/v1/gantt?record_type=forecast")
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	s.gantt.AssertNumberOfCalls(t, "GetGantt", 1)
}

func TestReportHandler_ListEpics(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	pct := 80.0
	s.reports.On("ListEpics", mock.Anything, mock.MatchedBy(func(f domain.EpicFilter) bool {
		return f.Search == "billing" && f.Bounds.Start != nil && f.Bounds.End != nil
	})).Return([]domain.Epic{{
		Number: "PLT-1", Summary: "Billing", Status: "", CompletionPercentage: &pct,
		RecordType: domain.RecordTypePlannedByTeam, Indicator: domain.IndicatorLate,
	}}, nil)

	rec := s.get(t, "/api/v1/reports/epics?search=billing&period=current_year")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	row := decode(t, rec)["data"].([]any)[0].(map[string]any)
	assert.Equal(t, domain.NoTeamLabel, row["team"])
	assert.Equal(t, domain.UndefinedStatusLabel, row["status"])
	assert.Equal(t, "late", row["indicator"])
	assert.Equal(t, "danger", row["tone"])
}

func TestReportHandler_ExportTickets(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	created := time.Date(2025, 3, 2, 9, 15, 0, 0, time.UTC)
	s.reports.On("ListTickets", mock.Anything, mock.MatchedBy(func(f domain.TicketFilter) bool {
		return f.Team == "Support" && f.Created.Start != nil && f.Created.End == nil
	})).Return([]domain.MaintenanceTicket{{Number: "MAN-1", Summary: "Crash", Team: "Support", CreatedAt: &created}}, nil)

	rec := s.get(t, "/api/v1/reports/manutencao/export?team=Support&start=2025-03-01")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, `attachment; filename="tickets_report_team_Support_since_2025-03-01_`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeffTicket;Summary;"))
	assert.Contains(t, rec.Body.String(), "MAN-1;Crash;Support")
}

func TestReportHandler_ExportFailureIsNotCSV(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.reports.On("ListSubTasks", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConnectionError(errors.New("timeout")))

	rec := s.get(t, "/api/v1/reports/subtasks/export")

	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

func TestReportHandler_UnknownReport(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))

	rec := s.get(t, "/api/v1/reports/users")

	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["code"])
}

func TestRouter_BearerAuthAndScopes(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	s := newTestServer(t, tm, newFakeWarehouse(nil))
	s.reports.On("ListTickets", mock.Anything, mock.Anything).Return([]domain.MaintenanceTicket{}, nil)

	rec := s.get(t, "/api/v1/reports/tickets")
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	token, err := tm.GenerateToken("support-bot", "tickets")
	require.NoError(t, err)

	rec = s.get(t, "/api/v1/reports/tickets", "Authorization", "Bearer "+token)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])

	rec = s.get(t, "/api/v1/reports/epics", "Authorization", "Bearer "+token)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	// Probes stay public.
	assert.Equal(t, stdhttp.StatusOK, s.get(t, "/health/live").Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	up := newTestServer(t, nil, newFakeWarehouse(nil))
	rec := up.get(t, "/health/ready")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	wh := decode(t, rec)["warehouse"].(map[string]any)
	assert.Equal(t, "sqlite", wh["driver"])
	assert.Equal(t, "healthy", wh["status"])
	assert.Nil(t, wh["rows"])

	down := newTestServer(t, nil, newFakeWarehouse(errors.New("connection refused")))
	rec = down.get(t, "/health/ready")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "connection refused", body["warehouse"].(map[string]any)["error"])
}

func TestHealthHandler_CountsWarehouseRows(t *testing.T) {
	wh := newFakeWarehouse(nil)
	wh.epics.On("CountEpics", mock.Anything, domain.EpicFilter{}).Return(12, nil)
	wh.subTasks.On("CountSubTasks", mock.Anything).Return(30, nil)
	wh.tickets.On("CountTickets", mock.Anything, domain.TicketFilter{OpenOnly: true}).Return(4, nil)
	s := newTestServer(t, nil, wh)

	rec := s.get(t, "/health")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	rows := body["warehouse"].(map[string]any)["rows"].(map[string]any)
	assert.Equal(t, 12.0, rows["epic_rows"])
	assert.Equal(t, 30.0, rows["subtasks"])
	assert.Equal(t, 4.0, rows["open_tickets"])
}

func TestHealthHandler_EmptyWarehouseIsDegraded(t *testing.T) {
	wh := newFakeWarehouse(nil)
	wh.epics.On("CountEpics", mock.Anything, domain.EpicFilter{}).Return(0, nil)
	wh.subTasks.On("CountSubTasks", mock.Anything).Return(0, nil)
	wh.tickets.On("CountTickets", mock.Anything, mock.Anything).Return(0, nil)
	s := newTestServer(t, nil, wh)

	rec := s.get(t, "/health")

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "empty", body["warehouse"].(map[string]any)["status"])
}

func TestHealthHandler_CountFailure(t *testing.T) {
	wh := newFakeWarehouse(nil)
	wh.epics.On("CountEpics", mock.Anything, mock.Anything).Return(0, errors.New("relation does not exist"))
	s := newTestServer(t, nil, wh)

	rec := s.get(t, "/health")

	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "failing", body["warehouse"].(map[string]any)["status"])
	wh.subTasks.AssertNotCalled(t, "CountSubTasks", mock.Anything)
}

func TestLogHandler_List(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.ring.Add(logging.Entry{Level: "INFO", Message: "dashboard computed"})
	s.ring.Add(logging.Entry{Level: "ERROR", Message: "server error"})

	rec := s.get(t, "/logs?level=warn")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "server error", data[0].(map[string]any)["message"])

	rec = s.get(t, "/logs?level=loud")
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestLogHandler_Stream(t *testing.T) {
	s := newTestServer(t, nil, newFakeWarehouse(nil))
	s.ring.Add(logging.Entry{Level: "INFO", Message: "seeded"})

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/logs/stream?level=info"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first wsAdapter.ServerMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, wsAdapter.MessageLog, first.Type)
	require.NotNil(t, first.Entry)
	assert.Equal(t, "seeded", first.Entry.Message)

	// The viewer registers asynchronously; keep adding until it sees one.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.ring.Add(logging.Entry{Level: "ERROR", Message: "live"})
		var msg wsAdapter.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Entry != nil && msg.Entry.Message == "live" {
			return
		}
	}
	t.Fatal("live entry not streamed")
}
