package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	agentrepo "github.com/smallbiznis/karatledger/internal/agent/repository"
	agentsvc "github.com/smallbiznis/karatledger/internal/agent/service"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	auditrepo "github.com/smallbiznis/karatledger/internal/audit/repository"
	auditsvc "github.com/smallbiznis/karatledger/internal/audit/service"
	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	authrepo "github.com/smallbiznis/karatledger/internal/auth/repository"
	authsvc "github.com/smallbiznis/karatledger/internal/auth/service"
	"github.com/smallbiznis/karatledger/internal/auth/session"
	"github.com/smallbiznis/karatledger/internal/authorization"
	billdomain "github.com/smallbiznis/karatledger/internal/bill/domain"
	billrepo "github.com/smallbiznis/karatledger/internal/bill/repository"
	billsvc "github.com/smallbiznis/karatledger/internal/bill/service"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	customerrepo "github.com/smallbiznis/karatledger/internal/customer/repository"
	customersvc "github.com/smallbiznis/karatledger/internal/customer/service"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	jobworkerrepo "github.com/smallbiznis/karatledger/internal/jobworker/repository"
	jobworkersvc "github.com/smallbiznis/karatledger/internal/jobworker/service"
	"github.com/smallbiznis/karatledger/internal/observability"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
	orderrepo "github.com/smallbiznis/karatledger/internal/order/repository"
	ordersvc "github.com/smallbiznis/karatledger/internal/order/service"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
	transactionrepo "github.com/smallbiznis/karatledger/internal/transaction/repository"
	transactionsvc "github.com/smallbiznis/karatledger/internal/transaction/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	engine *gin.Engine
	auth   authdomain.Service
}

type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t,
		&sequence.Counter{},
		&authdomain.User{},
		&authdomain.Session{},
		&auditdomain.AuditLog{},
		&customerdomain.Customer{},
		&jobworkerdomain.JobWorker{},
		&agentdomain.Agent{},
		&transactiondomain.Transaction{},
		&orderdomain.Order{},
		&billdomain.Bill{},
	)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	node := testutil.Node(t)
	log := zap.NewNop()
	cfg := config.Config{AuthSessionTTL: time.Hour, CORSOrigin: "*", AppVersion: "test"}

	userRepo, sessionRepo := authrepo.New(db)
	auth := authsvc.New(authsvc.Params{Log: log, Repo: userRepo, SessionRepo: sessionRepo, GenID: node, Cfg: cfg, Clock: clk})

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	authz := authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer})
	audit := auditsvc.NewService(auditsvc.Params{DB: db, Log: log, Repo: auditrepo.Provide(), Clock: clk})

	seq := sequence.New(sequence.Params{DB: db, Log: log, Clock: clk})
	customers := customersvc.New(customersvc.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide(), Seq: seq, Clock: clk})
	workers := jobworkersvc.New(jobworkersvc.Params{DB: db, Log: log, GenID: node, Repo: jobworkerrepo.Provide(), Seq: seq, Clock: clk})
	agents := agentsvc.New(agentsvc.Params{DB: db, Log: log, GenID: node, Repo: agentrepo.Provide(), Seq: seq, Clock: clk})
	parties := party.New(party.Params{Customers: customers, JobWorkers: workers, Agents: agents})
	shop := config.NewStaticShopSettings(config.DefaultShopSettings())
	ledger := transactionsvc.New(transactionsvc.Params{DB: db, Log: log, GenID: node, Repo: transactionrepo.Provide(), Seq: seq, Clock: clk})
	orders := ordersvc.New(ordersvc.Params{
		DB: db, Log: log, GenID: node, Repo: orderrepo.Provide(), Seq: seq,
		Parties: parties, Agents: agents, Shop: shop, Clock: clk,
	})
	bills := billsvc.New(billsvc.Params{
		DB: db, Log: log, GenID: node, Repo: billrepo.Provide(), Seq: seq,
		Parties: parties, Customers: customers, Orders: orders, Ledger: ledger,
		Shop: shop, Clock: clk,
	})

	engine := NewEngine(cfg, observability.Config{}, nil)
	srv := NewServer(ServerParams{
		Gin:            engine,
		Cfg:            cfg,
		Log:            log,
		Clock:          clk,
		Authsvc:        auth,
		Sessions:       session.NewManager(session.Params{Cfg: cfg}),
		AuthzSvc:       authz,
		AuditSvc:       audit,
		Sequences:      seq,
		CustomerSvc:    customers,
		JobWorkerSvc:   workers,
		AgentSvc:       agents,
		OrderSvc:       orders,
		BillSvc:        bills,
		TransactionSvc: ledger,
	})
	return &testServer{engine: srv.Engine(), auth: auth}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (ts *testServer) login(t *testing.T, email, role string) string {
	t.Helper()
	_, err := ts.auth.Register(context.Background(), authdomain.RegisterRequest{
		Name:     "Meera",
		Email:    email,
		Password: "correct-password",
		Role:     role,
	})
	require.NoError(t, err)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: email, Password: "correct-password"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = ts.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ledger API Server")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "admin@example.com", "admin")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Error)

	rec, env = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide an email and password", env.Error)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgNotAuthorized, env.Error)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/customers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := ts.login(t, "staff@example.com", "staff")
	rec, env = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "staff@example.com", decode(t, env.Data)["email"])

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffCannotDelete(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "staff@example.com", "staff")

	rec, env := ts.do(t, http.MethodDelete, "/api/v1/customers/123456", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role staff is not authorized to access this route", env.Error)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", token, authdomain.RegisterRequest{
		Name: "New", Email: "new@example.com", Password: "secret99",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCustomerEnvelopeAndNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "admin@example.com", "admin")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/customers", token, map[string]any{
		"name":    "Asha",
		"phone":   "9876543210",
		"address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	created := decode(t, env.Data)
	assert.Equal(t, "CUST-1001", created["customer_number"])

	rec, env = ts.do(t, http.MethodGet, "/api/v1/customers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Count)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/customers/123456", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Customer not found with id of 123456", env.Error)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/customers/not-an-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found with id of not-an-id", env.Error)

	rec, env = ts.do(t, http.MethodPost, "/api/v1/customers", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/customers/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide a search query", env.Error)

	rec, env = ts.do(t, http.MethodDelete, "/api/v1/customers/"+created["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, string(env.Data))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", env.Error)
}

func TestBillLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "admin@example.com", "admin")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/customers", token, map[string]any{
		"name":    "Asha",
		"phone":   "9876543210",
		"address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customerID := decode(t, env.Data)["id"].(string)

	rec, env = ts.do(t, http.MethodPost, "/api/v1/bills", token, map[string]any{
		"customer":  customerID,
		"bill_date": "2024-05-30",
		"items": []map[string]any{{
			"item_name":      "Bridal ring",
			"quantity":       1,
			"weight":         map[string]any{"value": 10},
			"rate":           6000,
			"making_charges": 5000,
			"stone_charges":  500,
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bill := decode(t, env.Data)
	assert.Equal(t, "INV-10001", bill["bill_number"])
	assert.Equal(t, 67465.0, bill["total_amount"])
	billPath := "/api/v1/bills/" + bill["id"].(string)

	rec, env = ts.do(t, http.MethodPost, billPath+"/payment", token, map[string]any{"amount": 100000, "payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Payment amount exceeds balance", env.Error)

	rec, env = ts.do(t, http.MethodPost, billPath+"/payment", token, map[string]any{"amount": 7465, "payment_method": "upi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode(t, env.Data)
	assert.Equal(t, 60000.0, paid["balance_amount"])
	assert.Equal(t, "partial", paid["payment_status"])

	rec, env = ts.do(t, http.MethodGet, "/api/v1/bills/unpaid", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.Count)

	rec, env = ts.do(t, http.MethodPut, billPath+"/finalize", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "finalized", decode(t, env.Data)["status"])

	rec, env = ts.do(t, http.MethodPut, billPath+"/finalize", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bill is already finalized", env.Error)

	rec, env = ts.do(t, http.MethodPut, billPath, token, map[string]any{"notes": "late edit"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot update finalized bill", env.Error)

	rec, env = ts.do(t, http.MethodDelete, billPath, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete finalized bill", env.Error)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/transactions/daybook/2024-05-30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, env.Count)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/transactions/daterange", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide startDate and endDate", env.Error)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/transactions/daterange?startDate=2024-05-01&endDate=2024-06-30", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, env.Count)

	rec, env = ts.do(t, http.MethodGet, "/api/v1/sequences/invoice/next", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "INV-10002", decode(t, env.Data)["next"])
}

func TestChangePasswordRotatesSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "staff@example.com", "staff")

	rec, env := ts.do(t, http.MethodPut, "/api/v1/auth/password", token, ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "fresh-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Error)

	rec, env = ts.do(t, http.MethodPut, "/api/v1/auth/password", token, ChangePasswordRequest{
		CurrentPassword: "correct-password",
		NewPassword:     "fresh-password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decode(t, env.Data)["token"].(string)
	assert.NotEqual(t, token, fresh)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", fresh, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
