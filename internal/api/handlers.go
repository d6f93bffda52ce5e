package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"popdash/internal/chart"
	"popdash/internal/engine"
	"popdash/internal/models"
)

// Handler serves the dashboard queries. It starts without a table and
// answers 503 until SetData is called.
type Handler struct {
	table atomic.Pointer[engine.Table]
	topN  int
}

func NewHandler(t *engine.Table, topN int) *Handler {
	if topN <= 0 {
		topN = engine.DefaultTopN
	}
	h := &Handler{topN: topN}
	if t != nil {
		h.table.Store(t)
	}
	return h
}

// SetData publishes the loaded table to all subsequent requests.
func (h *Handler) SetData(t *engine.Table) {
	h.table.Store(t)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.GetHealth)

	api := e.Group("/api")
	api.GET("/years", h.GetYears)
	api.GET("/countries", h.GetCountries)
	api.GET("/top", h.GetTopCountries)
	api.GET("/shares", h.GetAreaShares)
	api.GET("/series", h.GetSeries)
	api.GET("/distribution", h.GetDistribution)
	api.GET("/choropleth", h.GetChoropleth)
	api.GET("/charts/growth.svg", h.GetGrowthChart)
	api.GET("/charts/top.svg", h.GetTopChart)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errLoading = errors.New("dataset is still loading")

func statusFor(code engine.Code) int {
	switch code {
	case engine.CodeInvalidYear, engine.CodeInvalidN, engine.CodeInvalidData:
		return http.StatusBadRequest
	case engine.CodeUnknownCountry:
		return http.StatusNotFound
	case engine.CodeEmptyTable:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail writes engine errors as JSON; anything else goes to echo's error handler.
func fail(c echo.Context, err error) error {
	if errors.Is(err, errLoading) {
		return c.JSON(http.StatusServiceUnavailable, errorBody{Code: "LOADING", Message: err.Error()})
	}
	var e *engine.Error
	if !errors.As(err, &e) {
		return err
	}
	log.WithFields(log.Fields{"path": c.Path(), "code": e.Code}).Debug(e.Error())
	return c.JSON(statusFor(e.Code), errorBody{Code: string(e.Code), Message: e.Error()})
}

func (h *Handler) loaded() (*engine.Table, error) {
	t := h.table.Load()
	if t == nil {
		return nil, errLoading
	}
	return t, nil
}

// --- PARAMS ---

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// getYear reads ?year=, defaulting to the dashboard's preselected year.
func getYear(c echo.Context, t *engine.Table) (int, error) {
	s := c.QueryParam("year")
	if s == "" {
		return t.DefaultSelection().Year, nil
	}
	return engine.ParseYear(s)
}

func (h *Handler) getN(c echo.Context) (int, error) {
	s := c.QueryParam("n")
	if s == "" {
		return h.topN, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &engine.Error{Code: engine.CodeInvalidN, Message: fmt.Sprintf("n %q", s), Cause: err}
	}
	return n, nil
}

func getCountry(c echo.Context, t *engine.Table) string {
	if s := c.QueryParam("country"); s != "" {
		return s
	}
	return t.DefaultSelection().Country
}

// getYears reads ?years=1980,2023. Empty items are skipped; no items
// means all years.
func getYears(c echo.Context) ([]int, error) {
	var years []int
	for _, f := range strings.Split(c.QueryParam("years"), ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		y, err := engine.ParseYear(f)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	if h.table.Load() == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetYears fills the year dropdown.
func (h *Handler) GetYears(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"years":   t.Years(),
		"default": t.DefaultSelection().Year,
	})
}

// GetCountries fills the country dropdown.
func (h *Handler) GetCountries(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"countries": t.Countries(),
		"default":   t.DefaultSelection().Country,
	})
}

func (h *Handler) GetTopCountries(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	year, err := getYear(c, t)
	if err != nil {
		return fail(c, err)
	}
	n, err := h.getN(c)
	if err != nil {
		return fail(c, err)
	}
	rows, err := t.TopNByYear(year, n)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GetAreaShares pages through the share of every country.
func (h *Handler) GetAreaShares(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	shares, err := t.AreaShares()
	if err != nil {
		return fail(c, err)
	}

	total := len(shares)
	limit, offset := getPaginationParams(c, total)
	page := []models.AreaShare{}
	if offset < total {
		// Clamp before adding so a huge limit cannot overflow.
		if limit > total-offset {
			limit = total - offset
		}
		page = shares[offset : offset+limit]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   page,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetSeries(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	years, err := getYears(c)
	if err != nil {
		return fail(c, err)
	}
	series, err := t.SeriesForCountry(getCountry(c, t), years)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

func (h *Handler) GetDistribution(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	years, err := getYears(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := t.DistributionForCountry(getCountry(c, t), years)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetChoropleth(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	year, err := getYear(c, t)
	if err != nil {
		return fail(c, err)
	}
	n, err := h.getN(c)
	if err != nil {
		return fail(c, err)
	}
	v, err := t.ChoroplethSeries(year, n)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// --- CHARTS ---

const svgMIME = "image/svg+xml"

func (h *Handler) GetGrowthChart(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	country := getCountry(c, t)
	series, err := t.SeriesForCountry(country, nil)
	if err != nil {
		return fail(c, err)
	}
	svg, err := chart.Growth(country, series)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, svgMIME, svg)
}

func (h *Handler) GetTopChart(c echo.Context) error {
	t, err := h.loaded()
	if err != nil {
		return fail(c, err)
	}
	year, err := getYear(c, t)
	if err != nil {
		return fail(c, err)
	}
	n, err := h.getN(c)
	if err != nil {
		return fail(c, err)
	}
	rows, err := t.TopNByYear(year, n)
	if err != nil {
		return fail(c, err)
	}
	if len(rows) == 0 {
		return fail(c, &engine.Error{Code: engine.CodeEmptyTable, Message: "no countries to rank"})
	}
	svg, err := chart.Top(year, rows)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, svgMIME, svg)
}
