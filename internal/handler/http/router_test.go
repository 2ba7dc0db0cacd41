package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/driver-settlement-go/internal/config"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	authService "github.com/cmlabs-hris/driver-settlement-go/internal/service/auth"
	deductionService "github.com/cmlabs-hris/driver-settlement-go/internal/service/deduction"
	driverService "github.com/cmlabs-hris/driver-settlement-go/internal/service/driver"
	fuelService "github.com/cmlabs-hris/driver-settlement-go/internal/service/fuel"
	loadService "github.com/cmlabs-hris/driver-settlement-go/internal/service/load"
	settlementService "github.com/cmlabs-hris/driver-settlement-go/internal/service/settlement"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router          *chi.Mux
	adminToken      string
	dispatcherToken string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		App:        config.AppConfig{Name: "driver-settlement-test", Env: "test", LogLevel: "error"},
		JWT:        config.JWTConfig{Secret: handlerTestSecret, AccessExpiration: "1h"},
		Settlement: config.SettlementConfig{AmortizationEnabled: true},
	}
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	userRepo := sqlite.NewUserRepository(store)
	driverRepo := sqlite.NewDriverRepository(store)
	loadRepo := sqlite.NewLoadRepository(store)
	fuelRepo := sqlite.NewFuelRepository(store)
	feeRepo := sqlite.NewFeeRepository(store)
	advanceRepo := sqlite.NewAdvanceRepository(store)
	installmentRepo := sqlite.NewInstallmentRepository(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	dispatcher, err := userRepo.Create(ctx, user.User{Email: "dispatch@example.com", PasswordHash: string(hash), Role: user.RoleDispatcher})
	require.NoError(t, err)
	admin, err := userRepo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: string(hash), Role: user.RoleAdmin})
	require.NoError(t, err)

	adminToken, _, err := jwtService.GenerateAccessToken(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)
	dispatcherToken, _, err := jwtService.GenerateAccessToken(dispatcher.ID, dispatcher.Email, dispatcher.Role)
	require.NoError(t, err)

	router := NewRouter(
		cfg,
		jwtService,
		NewAuthHandler(authService.NewAuthService(userRepo, jwtService)),
		NewDriverHandler(driverService.NewDriverService(store, driverRepo)),
		NewLoadHandler(loadService.NewLoadService(store, loadRepo)),
		NewFuelHandler(fuelService.NewFuelService(store, fuelRepo, driverRepo)),
		NewDeductionHandler(deductionService.NewDeductionService(store, feeRepo, advanceRepo, driverRepo)),
		NewSettlementHandler(settlementService.NewSettlementService(
			store, driverRepo, loadRepo, fuelRepo, feeRepo, advanceRepo, installmentRepo, cfg.Settlement,
		)),
	)

	return &testServer{router: router, adminToken: adminToken, dispatcherToken: dispatcherToken}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (s *testServer) createDriver(t *testing.T, name, unit string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/drivers", s.dispatcherToken, map[string]interface{}{
		"name":           name,
		"truck_unit":     unit,
		"driver_percent": "75",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	return created.ID
}

func (s *testServer) createDeliveredLoad(t *testing.T, driverID, number, amount, date string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/loads", s.dispatcherToken, map[string]interface{}{
		"load_number":   number,
		"customer":      "Acme Freight",
		"driver_id":     driverID,
		"status":        "DELIVERED",
		"gross_amount":  amount,
		"delivery_date": date,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "Dispatch@Example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var token struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &token))
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "dispatcher", token.Role)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "dispatch@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_ValidationError(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/drivers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/drivers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDriverHandler_CreateAndConflict(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Alice Smith", "T-101")

	w := s.do(t, http.MethodGet, "/api/v1/drivers/"+id, s.dispatcherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/drivers", s.dispatcherToken, map[string]interface{}{
		"name":           " alice smith ",
		"truck_unit":     "T-202",
		"driver_percent": "70",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDriverHandler_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/drivers", s.dispatcherToken, map[string]interface{}{
		"name":           "Bob",
		"truck_unit":     "T-9",
		"driver_percent": "1,000",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error.Details, "driver_percent")
}

func TestDriverHandler_GetUnknown(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/drivers/0190d6f4-0000-7000-8000-000000000000", s.dispatcherToken, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDriverHandler_DeleteRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Carol", "T-3")

	w := s.do(t, http.MethodDelete, "/api/v1/drivers/"+id, s.dispatcherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/drivers/"+id, s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDriverHandler_DeleteReferencedDriver(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Dave", "T-4")
	s.createDeliveredLoad(t, id, "L-1", "1000", "2025-01-08")

	w := s.do(t, http.MethodDelete, "/api/v1/drivers/"+id, s.adminToken, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSettlementHandler_Calculate_DryRunAllowedForDispatcher(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Alice Smith", "T-101")
	s.createDeliveredLoad(t, id, "L-100", "1000", "2025-01-08")

	w := s.do(t, http.MethodPost, "/api/v1/settlements/calculate", s.dispatcherToken, map[string]interface{}{
		"period_start": "2025-01-06",
		"period_end":   "2025-01-12",
		"dry_run":      true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		DryRun  bool `json:"dry_run"`
		Entries []struct {
			DriverName string          `json:"driver_name"`
			GrossPay   decimal.Decimal `json:"gross_pay"`
			NetPay     decimal.Decimal `json:"net_pay"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.True(t, result.DryRun)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "Alice Smith", result.Entries[0].DriverName)
	assert.True(t, decimal.RequireFromString("750").Equal(result.Entries[0].GrossPay))
	assert.True(t, decimal.RequireFromString("750").Equal(result.Entries[0].NetPay))
}

func TestSettlementHandler_Calculate_AmortizingRunRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{
		"period_start": "2025-01-06",
		"period_end":   "2025-01-12",
	}

	w := s.do(t, http.MethodPost, "/api/v1/settlements/calculate", s.dispatcherToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/settlements/calculate", s.adminToken, body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettlementHandler_Calculate_InvalidPeriod(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/settlements/calculate", s.adminToken, map[string]interface{}{
		"period_start": "2025-01-12",
		"period_end":   "2025-01-06",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandler_BatchFeesRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	s.createDriver(t, "Alice Smith", "T-101")
	body := map[string]interface{}{
		"amounts": map[string]string{"ELD": "45"},
		"month":   1,
		"year":    2025,
	}

	w := s.do(t, http.MethodPost, "/api/v1/fees/batch", s.dispatcherToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/fees/batch", s.adminToken, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Fees applied for 1 drivers", decodeEnvelope(t, w).Message)
}

func TestSettlementHandler_ExportCSV(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Alice Smith", "T-101")
	s.createDeliveredLoad(t, id, "L-100", "1000", "2025-01-08")

	w := s.do(t, http.MethodGet, "/api/v1/settlements/export?start=2025-01-06&end=2025-01-12&format=csv", s.dispatcherToken, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "settlement_2025-01-06_to_2025-01-12.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Alice Smith,T-101,750.00,0.00,0.00,0.00,750.00", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "TOTAL,"))
}

func TestSettlementHandler_ExportUnknownFormat(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/settlements/export?start=2025-01-06&end=2025-01-12&format=pdf", s.dispatcherToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettlementHandler_Overview(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/loads", s.dispatcherToken, map[string]interface{}{
		"load_number":   "L-ORPHAN",
		"customer":      "Acme Freight",
		"status":        "DELIVERED",
		"gross_amount":  "500",
		"delivery_date": "2025-01-07",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/settlements/overview?start=2025-01-06&end=2025-01-12", s.dispatcherToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var overview struct {
		UnassignedLoads []struct {
			LoadNumber string `json:"load_number"`
		} `json:"unassigned_loads"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &overview))
	require.Len(t, overview.UnassignedLoads, 1)
	assert.Equal(t, "L-ORPHAN", overview.UnassignedLoads[0].LoadNumber)
}

func TestFuelHandler_ImportAndAssign(t *testing.T) {
	s := newTestServer(t)
	id := s.createDriver(t, "Alice Smith", "T-101")
	row := map[string]interface{}{
		"tran_date":     "2025-01-07",
		"invoice":       "INV-1",
		"unit":          "T-101",
		"driver_name":   "ALICE SMITH",
		"location_name": "Pilot #12",
		"amt":           "210.55",
	}

	w := s.do(t, http.MethodPost, "/api/v1/fuel-transactions/import", s.dispatcherToken, map[string]interface{}{
		"transactions": []interface{}{row, row},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Imported   int `json:"imported"`
		Duplicates int `json:"duplicates"`
		Linked     int `json:"linked"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Linked)

	w = s.do(t, http.MethodGet, "/api/v1/fuel-transactions?driver_id="+id, s.dispatcherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txs []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &txs))
	require.Len(t, txs, 1)

	w = s.do(t, http.MethodPut, "/api/v1/fuel-transactions/"+txs[0].ID+"/driver", s.dispatcherToken, map[string]interface{}{
		"driver_id": nil,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
