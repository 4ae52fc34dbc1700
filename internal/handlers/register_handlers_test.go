package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/temple_ledger/internal/adapters/statement"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/handlers"
	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/SscSPs/temple_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiClient drives the fully wired router over an in-memory store.
type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:               testJWTSecret,
		IsProduction:            true,
		IntegrityHashAlgorithm:  "sha256",
		ReconciliationTolerance: decimal.Zero,
		AutoMatchWindowDays:     3,
	}
	repos := memory.NewStore().Provider(nil)
	container, err := services.NewServiceContainer(cfg, repos, statement.DefaultRegistry())
	require.NoError(t, err)

	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container)
	return &apiClient{t: t, router: r, token: generateTestToken("treasurer")}
}

func (a *apiClient) send(req *http.Request, out any) int {
	a.t.Helper()
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (a *apiClient) call(method, path, body string, out any) int {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func TestHealth(t *testing.T) {
	api := newAPIClient(t)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestLedgerRoundTrip(t *testing.T) {
	api := newAPIClient(t)

	var temple dto.TempleResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/api/v1/temples",
		`{"name":"Sri Kamakshi Amman Temple","seedDefaultChart":true}`, &temple))
	assert.Equal(t, 4, temple.FiscalYearStartMonth)
	base := "/api/v1/temples/" + temple.TempleID

	var cash, bank, donations dto.AccountResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, base+"/accounts/by-code/1100", "", &cash))
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, base+"/accounts/by-code/1200", "", &bank))
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, base+"/accounts/by-code/4100", "", &donations))

	var entry dto.EntryResponse
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, base+"/entries", `{
		"entryDate": "2025-04-10T00:00:00Z",
		"narration": "Annadanam donation",
		"lines": [
			{"accountID": "`+bank.AccountID+`", "debit": "2500.50", "credit": "0"},
			{"accountID": "`+donations.AccountID+`", "debit": "0", "credit": "2500.50"}
		]
	}`, &entry))
	assert.Equal(t, int64(1), entry.EntryNumber)
	assert.NotEmpty(t, entry.IntegrityHash)

	assert.Equal(t, http.StatusBadRequest, api.call(http.MethodPost, base+"/entries", `{
		"entryDate": "2025-04-11T00:00:00Z",
		"narration": "Unbalanced",
		"lines": [
			{"accountID": "`+cash.AccountID+`", "debit": "100", "credit": "0"},
			{"accountID": "`+donations.AccountID+`", "debit": "0", "credit": "90"}
		]
	}`, nil))

	var tb domain.TrialBalance
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, base+"/reports/trial-balance?asOf=2025-04-30", "", &tb))
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.TotalDebit.Equal(decimal.RequireFromString("2500.50")))

	assert.Equal(t, http.StatusBadRequest, api.call(http.MethodGet, base+"/reports/day-book?from=2025-05-01&to=2025-04-01", "", nil))

	var verify dto.ChainVerificationResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, base+"/integrity/verify", "", &verify))
	assert.True(t, verify.Valid)
	assert.Equal(t, 1, verify.EntriesChecked)
	assert.Equal(t, entry.IntegrityHash, verify.HeadHash)

	// Statement upload matched against the bank receipt.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("accountID", bank.AccountID))
	require.NoError(t, mw.WriteField("periodStart", "2025-04-01"))
	require.NoError(t, mw.WriteField("periodEnd", "2025-04-30"))
	require.NoError(t, mw.WriteField("closingBalance", "2500.50"))
	fw, err := mw.CreateFormFile("file", "april.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("Date,Description,Debit,Credit,Balance\n11/04/2025,NEFT devotee,,2500.50,2500.50\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/statements/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var stmt domain.StatementWithEntries
	require.Equal(t, http.StatusCreated, api.send(req, &stmt))
	require.Len(t, stmt.Entries, 1)

	var auto dto.AutoMatchResponse
	require.Equal(t, http.StatusOK, api.call(http.MethodPost, base+"/statements/"+stmt.Statement.StatementID+"/auto-match", "", &auto))
	assert.Equal(t, 1, auto.Matched)

	var summary domain.ReconciliationSummary
	require.Equal(t, http.StatusOK, api.call(http.MethodPost, base+"/statements/"+stmt.Statement.StatementID+"/complete", "", &summary))
	assert.True(t, summary.Difference.IsZero())
}

func TestUnknownTempleIsNotFound(t *testing.T) {
	api := newAPIClient(t)
	assert.Equal(t, http.StatusNotFound, api.call(http.MethodGet, "/api/v1/temples/does-not-exist/accounts", "", nil))
}
