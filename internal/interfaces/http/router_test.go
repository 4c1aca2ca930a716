package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/application/analytics"
	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/memstore"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/club-cuotas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/club-cuotas-api/pkg/jwt"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre memstore: dos socios inscriptos desde enero, hoy 20/03/2024
// ──────────────────────────────────────────────────────────────────────────────

type server struct {
	t       *testing.T
	app     *fiber.App
	queries *billing.DueQueryUseCase
	a, b    string
}

func newServer(t *testing.T) *server {
	t.Helper()
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := memstore.New()
	engine := billing.NewEngine(store, billing.Settings{
		ClubName:          "Club Atlético",
		DefaultPlan:       "default",
		CurrencyCode:      "ARS",
		MonthlyAmount:     decimal.NewFromInt(1000),
		DueDay:            10,
		GracePeriodDays:   5,
		LateFeePercentage: decimal.NewFromInt(10),
		LifetimeThreshold: 120,
		Location:          time.UTC,
	}, clock, logger.Nop())

	s := &server{t: t, queries: billing.NewDueQueryUseCase(engine)}
	members := billing.NewMemberUseCase(engine)
	enrollments := billing.NewEnrollmentUseCase(engine)
	repos := store.Repos()
	deps := apphttp.RouterDeps{
		Configs:     billing.NewConfigProvider(engine, repos.Configs),
		Members:     members,
		Enrollments: enrollments,
		Generator:   billing.NewDueGenerator(engine),
		Dues:        s.queries,
		Payments:    billing.NewPaymentUseCase(engine),
		Snapshots:   billing.NewSnapshotUseCase(engine),
		Lifecycle:   billing.NewLifecycleUseCase(engine),
		Integrity:   billing.NewIntegrityUseCase(engine),
		Statements:  billing.NewStatementUseCase(engine, pdf.NewStatementPDFGenerator("es")),
		Dashboard:   analytics.NewDashboardUseCase(repos.Members, repos.Enrollments, store.Reports(), s.queries, nil, time.Minute, clock),
		Reports:     analytics.NewReportUseCase(store.Reports(), nil, time.Minute, clock),
		Logger:      logger.Nop(),
		JWTSecret:   testJWTSecret,
		ServiceName: "club-cuotas",
	}
	s.app = fiber.New()
	apphttp.Router(s.app, deps)

	ctx := context.Background()
	for _, doc := range []string{"100", "200"} {
		m, err := members.Create(ctx, dto.CreateMemberRequest{DocumentNumber: doc, FirstName: "Socio"})
		require.NoError(t, err)
		_, err = enrollments.Create(ctx, dto.CreateEnrollmentRequest{MemberID: m.ID, StartDate: "2024-01-01"})
		require.NoError(t, err)
		if s.a == "" {
			s.a = m.ID
		} else {
			s.b = m.ID
		}
	}
	return s
}

func (s *server) admin() string {
	return tokenFor(s.t, pkgjwt.Identity{UserID: "u-admin", Role: pkgjwt.RoleAdmin})
}

func (s *server) memberToken(memberID string) string {
	return tokenFor(s.t, pkgjwt.Identity{UserID: "u-" + memberID, MemberID: memberID, Role: pkgjwt.RoleMember})
}

func (s *server) do(method, path, token string, body interface{}) *http.Response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func (s *server) dueIDs(memberID string) []string {
	s.t.Helper()
	out, err := s.queries.List(context.Background(), dto.ListDuesRequest{MemberID: memberID})
	require.NoError(s.t, err)
	ids := make([]string, 0, len(out.Items))
	for _, d := range out.Items {
		ids = append(ids, d.ID)
	}
	return ids
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthSinToken(t *testing.T) {
	s := newServer(t)
	resp := s.do(http.MethodGet, "/api/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_AltaDeSocio(t *testing.T) {
	s := newServer(t)
	in := dto.CreateMemberRequest{DocumentNumber: "300", FirstName: "Ana", LastName: "Pérez"}

	resp := s.do(http.MethodPost, "/api/members", s.admin(), in)
	var created dto.MemberResponse
	decode(t, resp, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "INACTIVE", created.Status)

	resp = s.do(http.MethodPost, "/api/members", s.admin(), in)
	var dup dto.ErrorResponse
	decode(t, resp, &dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", dup.Code)

	resp = s.do(http.MethodPost, "/api/members", s.admin(), dto.CreateMemberRequest{FirstName: "Sin documento"})
	var invalid dto.ErrorResponse
	decode(t, resp, &invalid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", invalid.Code)

	resp = s.do(http.MethodPost, "/api/members", s.memberToken(s.a), in)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_SocioSoloVeSusDatos(t *testing.T) {
	s := newServer(t)

	resp := s.do(http.MethodGet, "/api/members/"+s.a+"/snapshot", s.memberToken(s.a), nil)
	var snap dto.SnapshotResponse
	decode(t, resp, &snap)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, snap.Counts.Overdue)
	assert.True(t, snap.Totals.Overdue.Equal(decimal.NewFromInt(3000)))

	resp = s.do(http.MethodGet, "/api/members/"+s.b+"/snapshot", s.memberToken(s.a), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/dues?member_id="+s.b, s.memberToken(s.a), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/dues", s.memberToken(s.a), nil)
	var list dto.DueListResponse
	decode(t, resp, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Items, 3)
	for _, d := range list.Items {
		assert.Equal(t, s.a, d.MemberID)
		assert.Equal(t, "OVERDUE", d.Status)
	}

	resp = s.do(http.MethodGet, "/api/dues/"+s.dueIDs(s.b)[0], s.memberToken(s.a), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/dues/no-existe", s.admin(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_PagoDirigido(t *testing.T) {
	s := newServer(t)
	foreign := s.dueIDs(s.b)

	resp := s.do(http.MethodPost, "/api/dues/pay", s.memberToken(s.a), dto.PayDuesRequest{DueIDs: foreign[:1]})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/dues/pay", s.memberToken(s.a), dto.PayDuesRequest{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	own := s.dueIDs(s.a)
	resp = s.do(http.MethodPost, "/api/dues/pay", s.memberToken(s.a), dto.PayDuesRequest{DueIDs: own[:2], Method: "TRANSFER"})
	var batch dto.PaymentBatchResponse
	decode(t, resp, &batch)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, batch.Payments, 2)
	assert.True(t, batch.Total.Equal(decimal.NewFromInt(2000)))

	// la misma cuota no se puede pagar dos veces
	resp = s.do(http.MethodPost, "/api/dues/pay", s.admin(), dto.PayDuesRequest{DueIDs: own[:1]})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_PagoSecuencialDelSocio(t *testing.T) {
	s := newServer(t)

	resp := s.do(http.MethodPost, "/api/dues/pay-sequential", s.memberToken(s.a), map[string]interface{}{"count": 2})
	var batch dto.PaymentBatchResponse
	decode(t, resp, &batch)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, s.a, batch.MemberID)
	require.Len(t, batch.Dues, 2)
	assert.Equal(t, "2024-01-10", batch.Dues[0].DueDate)
	assert.Equal(t, "2024-02-10", batch.Dues[1].DueDate)

	resp = s.do(http.MethodPost, "/api/dues/pay-sequential", s.memberToken(s.a), map[string]interface{}{"member_id": s.b, "count": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/dues/pay-sequential", s.admin(), map[string]interface{}{"count": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RegistrarPagoConMontoDistinto(t *testing.T) {
	s := newServer(t)
	due := s.dueIDs(s.a)[0]

	resp := s.do(http.MethodPost, "/api/payments", s.admin(), map[string]interface{}{"due_id": due, "amount": "999"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/payments", s.admin(), map[string]interface{}{"due_id": due, "amount": "1000"})
	var out dto.RecordPaymentResponse
	decode(t, resp, &out)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PAID", out.Due.Status)
}

func TestRouter_ConfiguracionEconomica(t *testing.T) {
	s := newServer(t)

	resp := s.do(http.MethodPut, "/api/configs/default", s.memberToken(s.a), map[string]interface{}{"due_day": 15})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodPut, "/api/configs/default", s.admin(), map[string]interface{}{"due_day": 40})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPut, "/api/configs/default", s.admin(), map[string]interface{}{"grace_period_days": 30})
	var cfg dto.EconomicConfigResponse
	decode(t, resp, &cfg)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 30, cfg.GracePeriodDays)

	resp = s.do(http.MethodGet, "/api/configs/default", s.memberToken(s.a), nil)
	decode(t, resp, &cfg)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, cfg.DueDay)
}

func TestRouter_InscripcionCancelarYReactivar(t *testing.T) {
	s := newServer(t)
	resp := s.do(http.MethodPost, "/api/members", s.admin(), dto.CreateMemberRequest{DocumentNumber: "300", FirstName: "Nuevo"})
	var m dto.MemberResponse
	decode(t, resp, &m)

	resp = s.do(http.MethodPost, "/api/enrollments", s.admin(), dto.CreateEnrollmentRequest{MemberID: m.ID, StartDate: "2024-02-01"})
	var enr dto.EnrollmentResponse
	decode(t, resp, &enr)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, enr.GeneratedDues)

	resp = s.do(http.MethodPost, "/api/enrollments", s.admin(), dto.CreateEnrollmentRequest{MemberID: m.ID, StartDate: "2024-02-01"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/enrollments/"+enr.ID+"/cancel", s.admin(), nil)
	decode(t, resp, &enr)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", enr.Status)

	resp = s.do(http.MethodGet, "/api/dues?member_id="+m.ID+"&status=FROZEN", s.admin(), nil)
	var frozen dto.DueListResponse
	decode(t, resp, &frozen)
	assert.Len(t, frozen.Items, 2)

	resp = s.do(http.MethodPost, "/api/enrollments/"+enr.ID+"/reactivate", s.admin(), nil)
	decode(t, resp, &enr)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", enr.Status)
}

func TestRouter_EstadoDeCuentaPDF(t *testing.T) {
	s := newServer(t)
	resp := s.do(http.MethodGet, "/api/members/"+s.a+"/statement.pdf", s.memberToken(s.a), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_DashboardSoloAdmin(t *testing.T) {
	s := newServer(t)

	resp := s.do(http.MethodGet, "/api/dashboard/summary", s.memberToken(s.a), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/dashboard/summary", s.admin(), nil)
	var summary dto.DashboardSummaryDTO
	decode(t, resp, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, summary.MembersTotal)
	assert.Equal(t, 6, summary.OverdueDues)
	assert.Equal(t, 2, summary.OverdueMembers)

	resp = s.do(http.MethodGet, "/api/reports/collections?date_from=2024-01-01&date_to=2024-03-31", s.admin(), nil)
	var report dto.CollectionsReportDTO
	decode(t, resp, &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, report.Rows, 3)
	assert.True(t, report.Billed.Equal(decimal.NewFromInt(6000)))

	resp = s.do(http.MethodGet, "/api/reports/collections?date_from=2024-01-01", s.admin(), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ProcesosAdmin(t *testing.T) {
	s := newServer(t)

	resp := s.do(http.MethodPost, "/api/admin/generate-dues", s.admin(), nil)
	var gen dto.GenerateAllResponse
	decode(t, resp, &gen)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, gen.Enrollments)
	assert.Equal(t, 0, gen.Created)

	resp = s.do(http.MethodPost, "/api/admin/integrity-check?fix=true", s.admin(), nil)
	var report dto.IntegrityReport
	decode(t, resp, &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, report.Issues)

	resp = s.do(http.MethodPost, "/api/admin/recompute-statuses", s.memberToken(s.a), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
