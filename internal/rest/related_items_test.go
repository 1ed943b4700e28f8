package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"relatedItems/domain"

	"github.com/labstack/echo/v4"
)

type stubRelatedService struct {
	related []domain.Association
	err     error
	gotSKU  string
	gotN    int
}

func (s *stubRelatedService) GetRelated(ctx context.Context, baseSKU string, limit int) ([]domain.Association, error) {
	s.gotSKU = baseSKU
	s.gotN = limit
	return s.related, s.err
}

func performGet(handler *RelatedItemsHandler, target, sku string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/related-items/:sku")
	c.SetParamNames("sku")
	c.SetParamValues(sku)
	_ = handler.GetBySKU(c)
	return rec
}

func TestRelatedItemsHandler(t *testing.T) {
	t.Run("returns ranked related items", func(t *testing.T) {
		svc := &stubRelatedService{related: []domain.Association{
			{RelatedSKU: "HON-01", Confidence: 0.5},
			{RelatedSKU: "TEA-02", Confidence: 0.25},
		}}
		handler := NewRelatedItemsHandler(svc)

		rec := performGet(handler, "/related-items/TEA-01?n=5", "TEA-01")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if svc.gotSKU != "TEA-01" || svc.gotN != 5 {
			t.Errorf("service called with (%s, %d), want (TEA-01, 5)", svc.gotSKU, svc.gotN)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "HON-01") || !strings.Contains(body, "0.5") {
			t.Errorf("body missing associations: %s", body)
		}
	})

	t.Run("unknown sku returns empty list not error", func(t *testing.T) {
		handler := NewRelatedItemsHandler(&stubRelatedService{})

		rec := performGet(handler, "/related-items/NOPE", "NOPE")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"related":[]`) {
			t.Errorf("body = %s, want empty related list", rec.Body.String())
		}
	})

	t.Run("rejects non-positive n", func(t *testing.T) {
		handler := NewRelatedItemsHandler(&stubRelatedService{})

		rec := performGet(handler, "/related-items/TEA-01?n=-1", "TEA-01")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects non-numeric n", func(t *testing.T) {
		handler := NewRelatedItemsHandler(&stubRelatedService{})

		rec := performGet(handler, "/related-items/TEA-01?n=ten", "TEA-01")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing n falls back to service default", func(t *testing.T) {
		svc := &stubRelatedService{}
		handler := NewRelatedItemsHandler(svc)

		rec := performGet(handler, "/related-items/TEA-01", "TEA-01")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if svc.gotN != 0 {
			t.Errorf("service called with n=%d, want 0 (service applies K)", svc.gotN)
		}
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		handler := NewRelatedItemsHandler(&stubRelatedService{err: errors.New("boom")})

		rec := performGet(handler, "/related-items/TEA-01", "TEA-01")

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
