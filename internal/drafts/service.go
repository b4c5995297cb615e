package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/khajaghar/pos-terminal/pkg/db/models"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/metrics"
)

// Service is the durable store for in-progress carts. Persistence failures
// degrade to "draft absent"; they are logged and counted because that
// degradation can silently lose an order, but they never crash a sale in
// progress.
type Service interface {
	Save(ctx context.Context, key SessionKey, lines []models.CartLine) error
	Load(ctx context.Context, key SessionKey) (*models.CartDraft, bool)
	Clear(ctx context.Context, key SessionKey)
	ClearAll(ctx context.Context)
	List(ctx context.Context) []models.CartDraft
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
	now     func() time.Time
}

// NewService wires a draft service with the provided repository.
func NewService(repo Repository, logg *logger.Logger, m *metrics.TerminalMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	return &service{
		repo:    repo,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Save replaces any existing draft for the key wholesale, last writer wins.
// Saving zero lines deletes the draft, mirroring the rule that an emptied
// cart is removed rather than stored with zero quantities.
func (s *service) Save(ctx context.Context, key SessionKey, lines []models.CartLine) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := validateLines(lines); err != nil {
		return err
	}

	if len(lines) == 0 {
		s.Clear(ctx, key)
		return nil
	}

	draft := &models.CartDraft{
		TableNumber: key.TableNumber,
		GroupName:   key.GroupName,
		Lines:       lines,
		SavedAt:     s.now(),
	}
	if err := s.repo.Upsert(ctx, draft); err != nil {
		s.observeFailure(ctx, key, "draft save failed, order exists only in memory", err)
	}
	return nil
}

func (s *service) Load(ctx context.Context, key SessionKey) (*models.CartDraft, bool) {
	if validateKey(key) != nil {
		return nil, false
	}
	draft, err := s.repo.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.observeFailure(ctx, key, "draft load failed, treating as absent", err)
		}
		return nil, false
	}
	return draft, true
}

// Clear removes the draft. Clearing twice, or clearing a key that never
// existed, is not an error.
func (s *service) Clear(ctx context.Context, key SessionKey) {
	if validateKey(key) != nil {
		return
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		s.observeFailure(ctx, key, "draft clear failed", err)
	}
}

func (s *service) ClearAll(ctx context.Context) {
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.observeFailure(ctx, SessionKey{}, "draft reset failed", err)
	}
}

func (s *service) List(ctx context.Context) []models.CartDraft {
	draftList, err := s.repo.List(ctx)
	if err != nil {
		s.observeFailure(ctx, SessionKey{}, "draft list failed, returning none", err)
		return nil
	}
	return draftList
}

func (s *service) observeFailure(ctx context.Context, key SessionKey, msg string, err error) {
	s.metrics.IncDraftWriteFailure()
	if s.logg == nil {
		return
	}
	if key.TableNumber != "" {
		ctx = s.logg.WithTable(ctx, key.TableNumber)
		if key.GroupName != "" {
			ctx = s.logg.WithField(ctx, "group", key.GroupName)
		}
	}
	s.logg.Error(ctx, msg, err)
}

func validateKey(key SessionKey) error {
	if strings.TrimSpace(key.TableNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "table number is required")
	}
	return nil
}

func validateLines(lines []models.CartLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart line is missing a product reference")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %s has non-positive quantity %d", line.ProductID, line.Quantity))
		}
		if line.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %s has negative unit price", line.ProductID))
		}
		if _, dup := seen[line.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %s appears more than once", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}
