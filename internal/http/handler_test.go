package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-panel/internal/auth"
	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/consistency"
	"github.com/nurpe/contracts-panel/internal/http/middleware"
	"github.com/nurpe/contracts-panel/internal/model"
	"github.com/nurpe/contracts-panel/internal/service"
)

const testSecret = "test-secret"

type stubStore struct {
	contracts []model.Contract
	err       error
}

func (s *stubStore) ListPage(_ context.Context, page, size int) ([]model.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	start := (page - 1) * size
	if start >= len(s.contracts) {
		return []model.Contract{}, nil
	}
	end := min(start+size, len(s.contracts))
	return s.contracts[start:end], nil
}

func (s *stubStore) Count(context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.contracts)), nil
}

func (s *stubStore) Get(_ context.Context, id int64) (*model.Contract, error) {
	for _, c := range s.contracts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubGenerator struct{}

func (stubGenerator) Generate(model.TableReport) ([]byte, error) {
	return []byte("file"), nil
}

func newTestRouter(store *stubStore, limiters ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Table: config.TableConfig{PageSize: 10, MaxPageSize: 50, CacheTTL: time.Millisecond}}
	svc := service.NewContractService(store, consistency.NewChecker(zerolog.Nop()), stubGenerator{}, stubGenerator{}, cfg, zerolog.Nop())
	parser := auth.NewParser(testSecret)
	return NewRouter(NewHandler(svc, parser, zerolog.Nop()), parser, "test", []string{"*"}, zerolog.Nop(), limiters...)
}

func bearer(t *testing.T, role model.UserRole) string {
	t.Helper()
	token, err := auth.NewParser(testSecret).Issue(model.Principal{UserID: uuid.New(), Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func seedContracts() []model.Contract {
	return []model.Contract{
		{ID: 1, NrContrat: 1001, NmClient: "João Silva", NrCpfCnpj: "52998224725", QtPrestacoes: 1, VlTotal: 100},
		{ID: 2, NrContrat: 1002, NmClient: "Maria Souza", NrCpfCnpj: "11222333000181", QtPrestacoes: 1, VlTotal: 300},
		{ID: 3, NrContrat: 1003, NmClient: "Pedro Lima", NrCpfCnpj: "bad", QtPrestacoes: 1, VlTotal: 200},
	}
}

func get(router *gin.Engine, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newTestRouter(&stubStore{}), "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestContractsPage_RendersTable(t *testing.T) {
	rec := get(newTestRouter(&stubStore{contracts: seedContracts()}), "/contracts", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Pesquise por página")
	assert.Contains(t, body, `id="contract-1"`)
	assert.Contains(t, body, `id="contract-3"`)
	assert.Contains(t, body, "529.982.247-25")
	assert.Contains(t, body, `class="inconsistent"`)
	assert.Contains(t, body, "<button disabled>Anterior</button>")
	assert.NotContains(t, body, "Ocorreu um erro")
}

func TestContractsPage_Search(t *testing.T) {
	rec := get(newTestRouter(&stubStore{contracts: seedContracts()}), "/contracts?q=jo%C3%A3o", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="contract-1"`)
	assert.NotContains(t, body, `id="contract-2"`)
	assert.NotContains(t, body, `id="contract-3"`)
}

func TestContractsPage_ToggleSort(t *testing.T) {
	rec := get(newTestRouter(&stubStore{contracts: seedContracts()}), "/contracts?order=asc&action=toggle", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	first := strings.Index(body, `id="contract-2"`)
	second := strings.Index(body, `id="contract-3"`)
	third := strings.Index(body, `id="contract-1"`)
	require.True(t, first > 0 && second > 0 && third > 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Contains(t, body, "↑")
}

func TestContractsPage_Navigation(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})

	rec := get(router, "/contracts?page=1&size=2&action=next", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="contract-3"`)
	assert.NotContains(t, body, `id="contract-1"`)
	assert.Contains(t, body, "action=prev")

	rec = get(router, "/contracts?page=1&action=prev", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="contract-1"`)
}

func TestContractsPage_LoadFailure(t *testing.T) {
	rec := get(newTestRouter(&stubStore{err: errors.New("network error")}), "/contracts", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ocorreu um erro: network error")
}

func TestContractsPage_InvalidQuery(t *testing.T) {
	router := newTestRouter(&stubStore{})
	assert.Equal(t, http.StatusBadRequest, get(router, "/contracts?page=abc", bearer(t, model.UserRoleViewer)).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/contracts?order=sideways", bearer(t, model.UserRoleViewer)).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/contracts?action=jump", bearer(t, model.UserRoleViewer)).Code)
}

func TestAPI_RequiresToken(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})
	assert.Equal(t, http.StatusUnauthorized, get(router, "/api/contracts", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/api/contracts", "Bearer nope").Code)
}

func TestRateLimitedBeforeAuth(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()}, middleware.RateLimit(0.001, 1, zerolog.Nop()))
	assert.Equal(t, http.StatusUnauthorized, get(router, "/api/contracts", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/api/contracts", bearer(t, model.UserRoleViewer)).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/contracts", bearer(t, model.UserRoleViewer)).Code)
	assert.Equal(t, http.StatusOK, get(router, "/healthz", "").Code)
}

func TestContractsPage_RateLimited(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()}, middleware.RateLimit(0.001, 2, zerolog.Nop()))
	token := bearer(t, model.UserRoleViewer)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(router, "/contracts?size=50", token).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAPI_ListContracts(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})

	rec := get(router, "/api/contracts?page=1&size=2", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":3`)
	assert.Contains(t, rec.Body.String(), `"nmClient":"João Silva"`)

	rec = get(router, "/api/contracts?page=0", bearer(t, model.UserRoleViewer))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetContract(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})
	token := bearer(t, model.UserRoleViewer)

	rec := get(router, "/api/contracts/3", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"issues"`)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/contracts/99", token).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/contracts/x", token).Code)
}

func TestAPI_Export(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})

	rec := get(router, "/api/contracts/export", bearer(t, model.UserRoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = get(router, "/api/contracts/export?q=Souza", bearer(t, model.UserRoleAnalyst))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "-souza.xlsx")
	assert.Equal(t, "file", rec.Body.String())

	rec = get(router, "/api/contracts/export/pdf", bearer(t, model.UserRoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestAPI_ExportUnavailable(t *testing.T) {
	router := newTestRouter(&stubStore{err: errors.New("down")})
	rec := get(router, "/api/contracts/export", bearer(t, model.UserRoleAdmin))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContractsPage_RequiresToken(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})

	rec := get(router, "/contracts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "529.982.247-25")

	assert.Equal(t, http.StatusUnauthorized, get(router, "/contracts", "Bearer nope").Code)
}

func TestSession_SetsCookieForPage(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})
	token := strings.TrimPrefix(bearer(t, model.UserRoleViewer), "Bearer ")

	rec := get(router, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/session"`)

	rec = postForm(router, "/session", url.Values{"token": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token inválido")
	assert.Empty(t, rec.Result().Cookies())

	rec = postForm(router, "/session", url.Values{"token": {token}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contracts", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	req.AddCookie(cookies[0])
	page := httptest.NewRecorder()
	router.ServeHTTP(page, req)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `id="contract-1"`)
}

func TestContractsPage_NextAtLastPossiblePage(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})

	rec := get(router, "/contracts?page=9223372036854775807&action=next", bearer(t, model.UserRoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "Ocorreu um erro")
	assert.NotContains(t, body, "page=-")
	assert.Contains(t, body, "page=2147483647")
	assert.NotContains(t, body, `id="contract-`)
}

func TestAPI_ListContractsHugePage(t *testing.T) {
	router := newTestRouter(&stubStore{contracts: seedContracts()})
	token := bearer(t, model.UserRoleViewer)

	for _, page := range []string{"9223372036854775807", "100000000000000000000"} {
		rec := get(router, "/api/contracts?page="+page+"&size=50", token)
		require.Equal(t, http.StatusOK, rec.Code, page)
		assert.Contains(t, rec.Body.String(), `"page":2147483647`)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	}

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/contracts?page=-100000000000000000000", token).Code)
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
