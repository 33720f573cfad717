package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/mock-interview/internal/backend"
	"github.com/spigell/mock-interview/internal/logger"
)

type HistoryAPI interface {
	ListInterviews(ctx context.Context) (*backend.Interviews, error)
	DeleteInterview(ctx context.Context, id int) error
}

// History is the displayed list of past interviews.
type History struct {
	api    HistoryAPI
	logger *zap.Logger

	mu    sync.RWMutex
	items []*backend.Interview
}

func NewHistory(api HistoryAPI, log *zap.Logger) *History {
	return &History{api: api, logger: logger.WithFields(log)}
}

func (h *History) Load(ctx context.Context) error {
	list, err := h.api.ListInterviews(ctx)
	if err != nil {
		return fmt.Errorf("load interview history: %w", err)
	}

	h.mu.Lock()
	h.items = list.Items
	h.mu.Unlock()

	h.logger.Debug("interview history loaded", zap.Int("count", len(list.Items)))
	return nil
}

// Items returns a copy of the displayed list.
func (h *History) Items() *backend.Interviews {
	h.mu.RLock()
	defer h.mu.RUnlock()

	items := make([]*backend.Interview, len(h.items))
	copy(items, h.items)
	return &backend.Interviews{Items: items}
}

// Delete issues one delete request and removes exactly that entry once the
// backend confirms. A failed request leaves the list unchanged.
func (h *History) Delete(ctx context.Context, id int) error {
	if h.Items().FindByID(id) == nil {
		return fmt.Errorf("interview %d is not in the list", id)
	}

	if err := h.api.DeleteInterview(ctx, id); err != nil {
		return fmt.Errorf("delete interview %d: %w", id, err)
	}

	h.mu.Lock()
	list := &backend.Interviews{Items: h.items}
	list.Remove(id)
	h.items = list.Items
	h.mu.Unlock()

	h.logger.Info("interview deleted", logger.InterviewFields(id, 0)...)
	return nil
}
