package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/animecatalog/catalog-api/internal/api/metrics"
	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// HeaderIdempotencyKey names the optional create deduplication header.
const HeaderIdempotencyKey = "Idempotency-Key"

// EntryHandler handles HTTP requests for catalog entries.
type EntryHandler struct {
	service ports.CatalogService
	logger  zerolog.Logger
}

func NewEntryHandler(service ports.CatalogService, logger zerolog.Logger) *EntryHandler {
	return &EntryHandler{service: service, logger: logger}
}

// List handles GET /items.
//
// @Summary      List entries, one page at a time
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Param        page  query     int     false  "Zero-based page number"  default(0)
// @Param        size  query     int     false  "Page size (max 2000)"    default(20)
// @Param        sort  query     string  false  "Sort as field[,asc|desc], field is id or name"
// @Success      200   {object}  pageResponse
// @Failure      401   {object}  errorResponse
// @Router       /items [get]
func (h *EntryHandler) List(c echo.Context) error {
	page := domain.NewPageRequest(
		queryInt(c, "page", 0),
		queryInt(c, "size", domain.DefaultPageSize),
		c.QueryParam("sort"),
	)

	result, err := h.service.ListAll(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(result))
}

// All handles GET /items/all.
//
// @Summary      List every entry
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   entryResponse
// @Failure      401  {object}  errorResponse
// @Router       /items/all [get]
func (h *EntryHandler) All(c echo.Context) error {
	entries, err := h.service.ListAllUnpaged(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// Get handles GET /items/:id.
//
// @Summary      Get an entry by id
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Entry id"
// @Success      200  {object}  entryResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /items/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	entry, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(*entry))
}

// GetWithPrincipal handles GET /items/by-id/:id. Same as Get, but the caller
// is logged.
//
// @Summary      Get an entry by id, logging the caller
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Entry id"
// @Success      200  {object}  entryResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /items/by-id/{id} [get]
func (h *EntryHandler) GetWithPrincipal(c echo.Context) error {
	username, authorities, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("username", username).
		Strs("authorities", authorities).
		Int64("entry_id", id).
		Msg("entry lookup by principal")

	entry, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(*entry))
}

// Find handles GET /items/find?name=.
//
// @Summary      Find entries by exact name
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Param        name  query     string  true  "Entry name"
// @Success      200   {array}   entryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /items/find [get]
func (h *EntryHandler) Find(c echo.Context) error {
	name, ok := c.QueryParams()["name"]
	if !ok || len(name) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter name is required")
	}

	entries, err := h.service.FindByName(c.Request().Context(), name[0])
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponses(entries))
}

// Create handles POST /items.
//
// @Summary      Create an entry
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createEntryRequest  true   "Entry"
// @Success      201              {object}  entryResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Router       /items [post]
func (h *EntryHandler) Create(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	idempotencyKey := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))

	result, err := h.service.Create(c.Request().Context(), toCreateInput(req, idempotencyKey))
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.EntriesWrittenTotal.WithLabelValues("replay").Inc()
		c.Response().Header().Set("Idempotent-Replayed", "true")
	} else {
		metrics.EntriesWrittenTotal.WithLabelValues("create").Inc()
	}
	return c.JSON(http.StatusCreated, toEntryResponse(result.Entry))
}

// Replace handles PUT /items.
//
// @Summary      Replace an existing entry
// @Tags         items
// @Accept       json
// @Security     BasicAuth
// @Param        body  body  replaceEntryRequest  true  "Entry with id"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /items [put]
func (h *EntryHandler) Replace(c echo.Context) error {
	var req replaceEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Replace(c.Request().Context(), toReplaceInput(req)); err != nil {
		return err
	}

	metrics.EntriesWrittenTotal.WithLabelValues("replace").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /items/:id.
//
// @Summary      Delete an entry
// @Tags         items
// @Security     BasicAuth
// @Param        id   path  int  true  "Entry id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /items/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.EntriesWrittenTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// queryInt returns the integer query parameter name, or def when it is absent
// or not a number.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
