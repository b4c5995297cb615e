package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	draftsvc "github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/pkg/db/models"
)

type stubDraftService struct {
	drafts  []models.CartDraft
	byKey   map[draftsvc.SessionKey]*models.CartDraft
	cleared []draftsvc.SessionKey
}

func (s *stubDraftService) Save(ctx context.Context, key draftsvc.SessionKey, lines []models.CartLine) error {
	return nil
}

func (s *stubDraftService) Load(ctx context.Context, key draftsvc.SessionKey) (*models.CartDraft, bool) {
	draft, ok := s.byKey[key]
	return draft, ok
}

func (s *stubDraftService) Clear(ctx context.Context, key draftsvc.SessionKey) {
	s.cleared = append(s.cleared, key)
}

func (s *stubDraftService) ClearAll(ctx context.Context) {}

func (s *stubDraftService) List(ctx context.Context) []models.CartDraft {
	return s.drafts
}

func sampleDraft() models.CartDraft {
	return models.CartDraft{
		TableNumber: "7",
		GroupName:   "window",
		Lines: models.CartLines{
			{ProductID: "p1", Name: "Momo", UnitPrice: decimal.RequireFromString("250"), Quantity: 2},
			{ProductID: "p2", Name: "Tea", UnitPrice: decimal.RequireFromString("50.50"), Quantity: 1},
		},
		SavedAt: time.Now(),
	}
}

func TestDraftsListSuccess(t *testing.T) {
	draft := sampleDraft()
	handler := DraftsList(&stubDraftService{drafts: []models.CartDraft{draft}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/drafts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []draftResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(envelope.Data))
	}
	got := envelope.Data[0]
	if got.TableNumber != "7" || got.GroupName != "window" {
		t.Fatalf("unexpected key: %s/%s", got.TableNumber, got.GroupName)
	}
	if !got.Subtotal.Equal(decimal.RequireFromString("550.50")) {
		t.Fatalf("expected subtotal 550.50, got %s", got.Subtotal)
	}
	if !got.Lines[0].LineTotal.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected line total 500, got %s", got.Lines[0].LineTotal)
	}
}

func TestDraftsListUnavailableService(t *testing.T) {
	handler := DraftsList(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/drafts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
