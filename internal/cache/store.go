// Package cache holds the query-keyed record cache and the reconciler the
// submission pipeline triggers after successful writes.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/core/ports/upstream"
)

// Store is an LRU-backed query cache. Values are read-through by the reader
// services and refreshed by the reconciler after writes. Brief staleness
// between invalidate and refetch completion is part of the contract.
type Store struct {
	entries *lru.Cache[string, any]
	clients upstream.ClientAPI
	tasks   upstream.TaskAPI
	logger  *slog.Logger
}

// NewStore builds a Store with the given capacity.
func NewStore(size int, clients upstream.ClientAPI, tasks upstream.TaskAPI, logger *slog.Logger) (*Store, error) {
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return &Store{entries: entries, clients: clients, tasks: tasks, logger: logger}, nil
}

func pageKey(list portssvc.QueryKey, limit, offset int) string {
	return list.String() + "/l" + strconv.Itoa(limit) + "/o" + strconv.Itoa(offset)
}

// GetClient returns a cached single client.
func (s *Store) GetClient(id int64) (*domain.Client, bool) {
	v, ok := s.entries.Get(portssvc.ClientKey(id).String())
	if !ok {
		return nil, false
	}
	c, ok := v.(domain.Client)
	if !ok {
		return nil, false
	}
	return &c, true
}

// PutClient caches a single client under its query key.
func (s *Store) PutClient(c domain.Client) {
	s.entries.Add(portssvc.ClientKey(c.UID).String(), c)
}

// GetClientPage returns a cached client list page.
func (s *Store) GetClientPage(limit, offset int) ([]domain.Client, bool) {
	v, ok := s.entries.Get(pageKey(portssvc.ClientsKey(), limit, offset))
	if !ok {
		return nil, false
	}
	page, ok := v.([]domain.Client)
	return page, ok
}

// PutClientPage caches a client list page.
func (s *Store) PutClientPage(limit, offset int, page []domain.Client) {
	s.entries.Add(pageKey(portssvc.ClientsKey(), limit, offset), page)
}

// GetTask returns a cached single task.
func (s *Store) GetTask(id int64) (*domain.Task, bool) {
	v, ok := s.entries.Get(portssvc.TaskKey(id).String())
	if !ok {
		return nil, false
	}
	t, ok := v.(domain.Task)
	if !ok {
		return nil, false
	}
	return &t, true
}

// PutTask caches a single task under its query key.
func (s *Store) PutTask(t domain.Task) {
	s.entries.Add(portssvc.TaskKey(t.UID).String(), t)
}

// GetTaskPage returns a cached task list page.
func (s *Store) GetTaskPage(limit, offset int) ([]domain.Task, bool) {
	v, ok := s.entries.Get(pageKey(portssvc.TasksKey(), limit, offset))
	if !ok {
		return nil, false
	}
	page, ok := v.([]domain.Task)
	return page, ok
}

// PutTaskPage caches a task list page.
func (s *Store) PutTaskPage(limit, offset int, page []domain.Task) {
	s.entries.Add(pageKey(portssvc.TasksKey(), limit, offset), page)
}

// Invalidate drops the entry for key and, for list keys, every cached page
// under it.
func (s *Store) Invalidate(key portssvc.QueryKey) {
	target := key.String()
	for _, k := range s.entries.Keys() {
		if k == target || strings.HasPrefix(k, target+"/") {
			s.entries.Remove(k)
		}
	}
}

// Refetch actively re-pulls a single-record key through the upstream port.
// List keys only invalidate; pages refill lazily on the next read. Failures
// are logged and swallowed: the cache stays stale until the next read-through.
func (s *Store) Refetch(ctx context.Context, key portssvc.QueryKey) {
	if len(key) != 2 {
		s.Invalidate(key)
		return
	}
	id, err := strconv.ParseInt(key[1], 10, 64)
	if err != nil {
		s.logger.Warn("Refetch got malformed query key", slog.String("key", key.String()))
		return
	}
	switch key[0] {
	case "client":
		c, err := s.clients.FetchClient(ctx, id)
		if err != nil {
			s.logger.Warn("Refetch of client failed", slog.Int64("uid", id), slog.String("error", err.Error()))
			return
		}
		s.PutClient(*c)
	case "task":
		t, err := s.tasks.FetchTask(ctx, id)
		if err != nil {
			s.logger.Warn("Refetch of task failed", slog.Int64("uid", id), slog.String("error", err.Error()))
			return
		}
		s.PutTask(*t)
	default:
		s.logger.Warn("Refetch got unknown query key", slog.String("key", key.String()))
	}
}

var _ portssvc.Reconciler = (*Store)(nil)
