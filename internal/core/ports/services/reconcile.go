package services

import (
	"context"
	"strconv"
	"strings"
)

// QueryKey identifies a cached query. List queries use a single segment
// ("clients"); single-record queries append the id.
type QueryKey []string

// ClientsKey is the client list query key.
func ClientsKey() QueryKey { return QueryKey{"clients"} }

// ClientKey is the single-client query key.
func ClientKey(id int64) QueryKey { return QueryKey{"client", strconv.FormatInt(id, 10)} }

// TasksKey is the task list query key.
func TasksKey() QueryKey { return QueryKey{"tasks"} }

// TaskKey is the single-task query key.
func TaskKey(id int64) QueryKey { return QueryKey{"task", strconv.FormatInt(id, 10)} }

// String renders the key for logging and map storage.
func (k QueryKey) String() string {
	return strings.Join(k, "/")
}

// Reconciler is the cache reconciliation contract a successful write triggers:
// invalidate the list and single-record keys, then actively refetch the
// single-record key. Refetch completion may land after the caller has moved
// on; readers tolerate briefly-stale data.
type Reconciler interface {
	Invalidate(key QueryKey)
	Refetch(ctx context.Context, key QueryKey)
}

// NotifyKind classifies a user-facing notification.
type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
	NotifyInfo    NotifyKind = "info"
)

// Notifier is the fire-and-forget notification sink. The pipeline never
// consumes a return value from it.
type Notifier interface {
	Notify(kind NotifyKind, message string)
}
