package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-panel/internal/http/middleware"
	"github.com/nurpe/contracts-panel/internal/model"
	"github.com/nurpe/contracts-panel/internal/service"
	"github.com/nurpe/contracts-panel/internal/table"
)

type Handler struct {
	contracts *service.ContractService
	tokens    middleware.TokenParser
	log       zerolog.Logger
}

func NewHandler(contracts *service.ContractService, tokens middleware.TokenParser, log zerolog.Logger) *Handler {
	return &Handler{contracts: contracts, tokens: tokens, log: log}
}

// Guards are the middleware in front of the route groups. Limit runs on
// every route except /healthz, before authentication.
type Guards struct {
	Limit []gin.HandlerFunc
	Page  gin.HandlerFunc
	API   gin.HandlerFunc
}

func (h *Handler) Register(router *gin.Engine, guards Guards) {
	router.GET("/healthz", h.health)

	limited := router.Group("", guards.Limit...)
	limited.GET("/session", h.sessionForm)
	limited.POST("/session", h.createSession)

	pages := limited.Group("", guards.Page)
	pages.GET("/contracts", h.contractsPage)

	api := limited.Group("/api", guards.API)
	api.GET("/contracts", h.listContracts)
	api.GET("/contracts/export", h.exportXLSX)
	api.GET("/contracts/export/pdf", h.exportPDF)
	api.GET("/contracts/:id", h.getContract)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sessionView struct {
	Error string
}

func (h *Handler) sessionForm(c *gin.Context) {
	c.HTML(http.StatusOK, "session.tmpl", sessionView{})
}

// createSession checks a pasted access token and stores it in the page
// cookie, then sends the browser to the table.
func (h *Handler) createSession(c *gin.Context) {
	token := strings.TrimSpace(c.PostForm("token"))
	if _, err := h.tokens.Parse(token); token == "" || err != nil {
		c.HTML(http.StatusUnauthorized, "session.tmpl", sessionView{Error: "Token inválido"})
		return
	}

	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, 0, "/", "", secure, true)
	c.Redirect(http.StatusSeeOther, "/contracts")
}

type pageView struct {
	Title         string
	Search        string
	Page          int
	Size          int
	Order         model.SortOrder
	Sorted        bool
	SortIndicator string
	Loading       bool
	Error         string
	Columns       []string
	Rows          []table.Row
	HasPrevious   bool
	PreviousURL   string
	NextURL       string
	ToggleURL     string
	SizeOptions   []int
}

func (h *Handler) contractsPage(c *gin.Context) {
	query, err := parseTableQuery(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	vm, err := h.contracts.OpenTable(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	st := vm.Status()
	view := pageView{
		Title:         "Pesquise por página",
		Search:        vm.Search(),
		Page:          vm.Page(),
		Size:          vm.PageSize(),
		Order:         vm.Order(),
		Sorted:        vm.Sorted(),
		SortIndicator: vm.SortIndicator(),
		Loading:       st.Loading(),
		Columns:       table.Columns,
		Rows:          vm.Rows(),
		HasPrevious:   vm.Page() > 1,
		PreviousURL:   pageURL(vm, service.TableActionPrevious),
		NextURL:       pageURL(vm, service.TableActionNext),
		ToggleURL:     pageURL(vm, service.TableActionToggle),
		SizeOptions:   []int{10, 25, 50, 100},
	}
	if st.Failed() {
		view.Error = table.ErrorText(st.Message)
	}
	c.HTML(http.StatusOK, "contracts.tmpl", view)
}

func (h *Handler) listContracts(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, err := intQuery(c, "size", h.contracts.DefaultPageSize())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}

	result, err := h.contracts.ListPage(c.Request.Context(), page, size)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getContract(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) exportXLSX(c *gin.Context) {
	h.export(c, service.ExportXLSX)
}

func (h *Handler) exportPDF(c *gin.Context) {
	h.export(c, service.ExportPDF)
}

func (h *Handler) export(c *gin.Context, format service.ExportFormat) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	query, err := parseTableQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.contracts.Export(c.Request.Context(), service.ExportInput{
		Query:     query,
		Format:    format,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("contracts request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseTableQuery(c *gin.Context) (service.TableQuery, error) {
	page, err := pageQuery(c)
	if err != nil {
		return service.TableQuery{}, errors.New("invalid page")
	}
	size, err := intQuery(c, "size", 0)
	if err != nil {
		return service.TableQuery{}, errors.New("invalid size")
	}
	order, err := parseSortOrder(c.Query("order"))
	if err != nil {
		return service.TableQuery{}, err
	}
	sorted, _ := strconv.ParseBool(c.DefaultQuery("sorted", "false"))

	return service.TableQuery{
		Page:   page,
		Size:   size,
		Search: c.Query("q"),
		Order:  order,
		Sorted: sorted,
		Action: service.TableAction(strings.ToLower(strings.TrimSpace(c.Query("action")))),
	}, nil
}

func parseSortOrder(raw string) (model.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc":
		return model.SortAsc, nil
	case "desc":
		return model.SortDesc, nil
	default:
		return "", errors.New("invalid order")
	}
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, service.ErrInvalidInput
	}
	return value, nil
}

// pageQuery reads the page number. Pages above table.MaxPage, including ones
// too large for an int, are read as table.MaxPage.
func pageQuery(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("page"))
	if raw == "" {
		return 1, nil
	}
	value, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return table.MaxPage, nil
	}
	if err != nil || value < 1 {
		return 0, service.ErrInvalidInput
	}
	return min(value, table.MaxPage), nil
}

// pageURL links to the page as it is now, plus one action.
func pageURL(vm *table.ViewModel, action service.TableAction) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(vm.Page()))
	values.Set("size", strconv.Itoa(vm.PageSize()))
	values.Set("order", string(vm.Order()))
	values.Set("sorted", strconv.FormatBool(vm.Sorted()))
	if vm.Search() != "" {
		values.Set("q", vm.Search())
	}
	values.Set("action", string(action))
	return "/contracts?" + values.Encode()
}
