package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Stub
// ---------------------------------------------------------------------------

type stubCatalogService struct {
	listFn     func(ctx context.Context, page domain.PageRequest) (*domain.EntryPage, error)
	listAllFn  func(ctx context.Context) ([]domain.Entry, error)
	findNameFn func(ctx context.Context, name string) ([]domain.Entry, error)
	findIDFn   func(ctx context.Context, id int64) (*domain.Entry, error)
	createFn   func(ctx context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error)
	replaceFn  func(ctx context.Context, input ports.ReplaceEntryInput) error
	deleteFn   func(ctx context.Context, id int64) error
}

func (s *stubCatalogService) ListAll(ctx context.Context, page domain.PageRequest) (*domain.EntryPage, error) {
	return s.listFn(ctx, page)
}

func (s *stubCatalogService) ListAllUnpaged(ctx context.Context) ([]domain.Entry, error) {
	return s.listAllFn(ctx)
}

func (s *stubCatalogService) FindByName(ctx context.Context, name string) ([]domain.Entry, error) {
	return s.findNameFn(ctx, name)
}

func (s *stubCatalogService) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	return s.findIDFn(ctx, id)
}

func (s *stubCatalogService) Create(ctx context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
	return s.createFn(ctx, input)
}

func (s *stubCatalogService) Replace(ctx context.Context, input ports.ReplaceEntryInput) error {
	return s.replaceFn(ctx, input)
}

func (s *stubCatalogService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestEntryHandler_List_DefaultsAndEnvelope(t *testing.T) {
	var got domain.PageRequest
	stub := &stubCatalogService{
		listFn: func(_ context.Context, page domain.PageRequest) (*domain.EntryPage, error) {
			got = page
			return &domain.EntryPage{
				Content:       []domain.Entry{{ID: 1, Name: "Naruto"}},
				TotalElements: 1,
				Request:       page,
			}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodGet, "/items", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got.Page != 0 || got.Size != domain.DefaultPageSize || got.SortBy != domain.SortByID || got.Descending {
		t.Fatalf("unexpected page request: %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalElements != 1 || resp.TotalPages != 1 || resp.NumberOfElements != 1 {
		t.Fatalf("unexpected counts: %+v", resp)
	}
	if !resp.First || !resp.Last || resp.Empty {
		t.Fatalf("unexpected flags: %+v", resp)
	}
	if len(resp.Content) != 1 || resp.Content[0].Name != "Naruto" {
		t.Fatalf("unexpected content: %+v", resp.Content)
	}
}

func TestEntryHandler_List_ParsesQuery(t *testing.T) {
	var got domain.PageRequest
	stub := &stubCatalogService{
		listFn: func(_ context.Context, page domain.PageRequest) (*domain.EntryPage, error) {
			got = page
			return &domain.EntryPage{Content: []domain.Entry{}, Request: page}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, _ := newTestContext(http.MethodGet, "/items?page=2&size=5000&sort=name,desc", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got.Page != 2 || got.Size != domain.MaxPageSize || got.SortBy != domain.SortByName || !got.Descending {
		t.Fatalf("unexpected page request: %+v", got)
	}
}

func TestEntryHandler_All(t *testing.T) {
	stub := &stubCatalogService{
		listAllFn: func(context.Context) ([]domain.Entry, error) {
			return []domain.Entry{{ID: 1, Name: "Naruto"}, {ID: 2, Name: "Bleach"}}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodGet, "/items/all", "")
	if err := h.All(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
}

func TestEntryHandler_Get(t *testing.T) {
	stub := &stubCatalogService{
		findIDFn: func(_ context.Context, id int64) (*domain.Entry, error) {
			if id != 7 {
				return nil, domain.ErrEntryNotFound
			}
			return &domain.Entry{ID: 7, Name: "Naruto"}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodGet, "/items/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Naruto"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	c, _ = newTestContext(http.MethodGet, "/items/8", "")
	c.SetParamNames("id")
	c.SetParamValues("8")
	if err := h.Get(c); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryHandler_Get_BadID(t *testing.T) {
	stub := &stubCatalogService{
		findIDFn: func(context.Context, int64) (*domain.Entry, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, _ := newTestContext(http.MethodGet, "/items/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	expectHTTPError(t, h.Get(c), http.StatusBadRequest)
}

func TestEntryHandler_GetWithPrincipal(t *testing.T) {
	stub := &stubCatalogService{
		findIDFn: func(_ context.Context, id int64) (*domain.Entry, error) {
			return &domain.Entry{ID: id, Name: "Naruto"}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, _ := newTestContext(http.MethodGet, "/items/by-id/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	expectHTTPError(t, h.GetWithPrincipal(c), http.StatusUnauthorized)

	c, rec := newTestContext(http.MethodGet, "/items/by-id/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("username", "andrew")
	c.Set("authorities", []string{domain.RoleUser})
	if err := h.GetWithPrincipal(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEntryHandler_Find(t *testing.T) {
	stub := &stubCatalogService{
		findNameFn: func(_ context.Context, name string) ([]domain.Entry, error) {
			if name == "Naruto" {
				return []domain.Entry{{ID: 1, Name: "Naruto"}}, nil
			}
			return []domain.Entry{}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodGet, "/items/find?name=dbz", "")
	if err := h.Find(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}

	c, _ = newTestContext(http.MethodGet, "/items/find", "")
	expectHTTPError(t, h.Find(c), http.StatusBadRequest)
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

func TestEntryHandler_Create(t *testing.T) {
	var got ports.CreateEntryInput
	stub := &stubCatalogService{
		createFn: func(_ context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
			got = input
			return &ports.CreateEntryResult{Entry: domain.Entry{ID: 1, Name: input.Name}}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodPost, "/items", `{"name":"Naruto"}`)
	c.Request().Header.Set(HeaderIdempotencyKey, "key-1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Name != "Naruto" || got.IdempotencyKey != "key-1" {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 1 || resp.Name != "Naruto" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEntryHandler_Create_Replay(t *testing.T) {
	stub := &stubCatalogService{
		createFn: func(_ context.Context, input ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
			return &ports.CreateEntryResult{Entry: domain.Entry{ID: 9, Name: input.Name}, AlreadyExisted: true}, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodPost, "/items", `{"name":"Naruto"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestEntryHandler_Create_Invalid(t *testing.T) {
	stub := &stubCatalogService{
		createFn: func(context.Context, ports.CreateEntryInput) (*ports.CreateEntryResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, _ := newTestContext(http.MethodPost, "/items", `{}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	c, _ = newTestContext(http.MethodPost, "/items", `not-json`)
	expectHTTPError(t, h.Create(c), http.StatusBadRequest)
}

func TestEntryHandler_Replace(t *testing.T) {
	var got ports.ReplaceEntryInput
	stub := &stubCatalogService{
		replaceFn: func(_ context.Context, input ports.ReplaceEntryInput) error {
			got = input
			if input.ID != 1 {
				return domain.ErrEntryNotFound
			}
			return nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodPut, "/items", `{"id":1,"name":"Naruto Shippuden"}`)
	if err := h.Replace(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.ID != 1 || got.Name != "Naruto Shippuden" {
		t.Fatalf("unexpected input: %+v", got)
	}

	c, _ = newTestContext(http.MethodPut, "/items", `{"id":2,"name":"x"}`)
	if err := h.Replace(c); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	c, _ = newTestContext(http.MethodPut, "/items", `{"name":"no id"}`)
	if err := h.Replace(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEntryHandler_Delete(t *testing.T) {
	deleted := int64(0)
	stub := &stubCatalogService{
		deleteFn: func(_ context.Context, id int64) error {
			if id != 3 {
				return domain.ErrEntryNotFound
			}
			deleted = id
			return nil
		},
	}
	h := NewEntryHandler(stub, discardLogger)

	c, rec := newTestContext(http.MethodDelete, "/items/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 3 {
		t.Fatalf("expected 204 and delete of 3, got %d / %d", rec.Code, deleted)
	}

	c, _ = newTestContext(http.MethodDelete, "/items/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := h.Delete(c); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}
