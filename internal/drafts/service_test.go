package drafts

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/khajaghar/pos-terminal/pkg/db/models"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
)

type fakeRepository struct {
	upsertFn    func(ctx context.Context, draft *models.CartDraft) error
	getFn       func(ctx context.Context, key SessionKey) (*models.CartDraft, error)
	deleteFn    func(ctx context.Context, key SessionKey) error
	deleteAllFn func(ctx context.Context) error
	listFn      func(ctx context.Context) ([]models.CartDraft, error)
}

func (f *fakeRepository) Upsert(ctx context.Context, draft *models.CartDraft) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, draft)
	}
	return nil
}

func (f *fakeRepository) Get(ctx context.Context, key SessionKey) (*models.CartDraft, error) {
	if f.getFn != nil {
		return f.getFn(ctx, key)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Delete(ctx context.Context, key SessionKey) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, key)
	}
	return nil
}

func (f *fakeRepository) DeleteAll(ctx context.Context) error {
	if f.deleteAllFn != nil {
		return f.deleteAllFn(ctx)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.CartDraft, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func cartLine(productID string, qty int, price string) models.CartLine {
	return models.CartLine{
		ProductID: productID,
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestService_SavePersistsDraftWholesale(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var stored *models.CartDraft
	repo.upsertFn = func(ctx context.Context, draft *models.CartDraft) error {
		stored = draft
		return nil
	}

	key := SessionKey{TableNumber: "5", GroupName: "GroupA"}
	lines := []models.CartLine{cartLine("momo", 2, "250"), cartLine("tea", 1, "60")}

	if err := svc.Save(context.Background(), key, lines); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected draft to be persisted")
	}
	if stored.TableNumber != "5" || stored.GroupName != "GroupA" {
		t.Fatalf("unexpected key on stored draft: %+v", stored)
	}
	if len(stored.Lines) != 2 || stored.Lines[0].ProductID != "momo" || stored.Lines[1].ProductID != "tea" {
		t.Fatalf("lines not stored in insertion order: %+v", stored.Lines)
	}
	if stored.SavedAt.IsZero() {
		t.Fatal("expected saved_at to be set")
	}
}

func TestService_SaveRejectsInvalidLines(t *testing.T) {
	repo := &fakeRepository{
		upsertFn: func(ctx context.Context, draft *models.CartDraft) error {
			t.Error("invalid lines must not reach the repository")
			return nil
		},
	}
	svc, _ := NewService(repo, nil, nil)
	key := SessionKey{TableNumber: "5"}

	tests := []struct {
		name  string
		lines []models.CartLine
	}{
		{name: "zero quantity", lines: []models.CartLine{cartLine("momo", 0, "250")}},
		{name: "negative quantity", lines: []models.CartLine{cartLine("momo", -1, "250")}},
		{name: "duplicate product", lines: []models.CartLine{cartLine("momo", 1, "250"), cartLine("momo", 2, "250")}},
		{name: "missing product", lines: []models.CartLine{cartLine("", 1, "250")}},
		{name: "negative price", lines: []models.CartLine{cartLine("momo", 1, "-5")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Save(context.Background(), key, tt.lines)
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_SaveEmptyLinesClearsDraft(t *testing.T) {
	deleted := false
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, key SessionKey) error {
			deleted = true
			return nil
		},
		upsertFn: func(ctx context.Context, draft *models.CartDraft) error {
			t.Error("empty save should not upsert")
			return nil
		},
	}
	svc, _ := NewService(repo, nil, nil)

	if err := svc.Save(context.Background(), SessionKey{TableNumber: "5"}, nil); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !deleted {
		t.Fatal("expected empty save to clear the draft")
	}
}

func TestService_SaveSwallowsPersistenceErrors(t *testing.T) {
	repo := &fakeRepository{
		upsertFn: func(ctx context.Context, draft *models.CartDraft) error {
			return errors.New("disk full")
		},
	}
	svc, _ := NewService(repo, nil, nil)

	err := svc.Save(context.Background(), SessionKey{TableNumber: "5"}, []models.CartLine{cartLine("momo", 1, "250")})
	if err != nil {
		t.Fatalf("persistence errors must not surface from Save, got %v", err)
	}
}

func TestService_LoadAbsentAndDegraded(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo, nil, nil)
	key := SessionKey{TableNumber: "9"}

	if _, ok := svc.Load(context.Background(), key); ok {
		t.Fatal("missing draft should load as absent")
	}

	repo.getFn = func(ctx context.Context, key SessionKey) (*models.CartDraft, error) {
		return nil, errors.New("corrupt payload")
	}
	if _, ok := svc.Load(context.Background(), key); ok {
		t.Fatal("store failure should degrade to absent")
	}
}

func TestService_ClearIsIdempotent(t *testing.T) {
	calls := 0
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, key SessionKey) error {
			calls++
			return nil
		},
	}
	svc, _ := NewService(repo, nil, nil)
	key := SessionKey{TableNumber: "5", GroupName: "GroupA"}

	svc.Clear(context.Background(), key)
	svc.Clear(context.Background(), key)
	if calls != 2 {
		t.Fatalf("expected both clears to pass through, got %d", calls)
	}
}

func TestService_ListDegradesToEmpty(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.CartDraft, error) {
			return nil, errors.New("io error")
		},
	}
	svc, _ := NewService(repo, nil, nil)
	if got := svc.List(context.Background()); got != nil {
		t.Fatalf("expected nil list on failure, got %v", got)
	}
}
