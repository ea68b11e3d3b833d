// Package upstream declares the contracts for the external collaborators the
// pipeline talks to. Implementations live under internal/adapters.
package upstream

import (
	"context"
	"io"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

// ClientAPI is the upstream records service, client side.
type ClientAPI interface {
	// CreateClient submits a full create payload and returns the persisted record.
	CreateClient(ctx context.Context, payload dto.ClientPayload) (*domain.Client, error)

	// UpdateClient submits a full update payload for an existing record.
	UpdateClient(ctx context.Context, id int64, payload dto.ClientPayload) (*domain.Client, error)

	// PatchClientStatus updates the status field alone, for quick actions.
	PatchClientStatus(ctx context.Context, id int64, status domain.ClientStatus) (*domain.Client, error)

	// FetchClient retrieves a single record by id.
	FetchClient(ctx context.Context, id int64) (*domain.Client, error)

	// ListClients retrieves a page of records.
	ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error)

	// DeleteClient removes a record. Terminal; callers must have confirmed.
	DeleteClient(ctx context.Context, id int64) error
}

// TaskAPI is the upstream records service, task side.
type TaskAPI interface {
	CreateTask(ctx context.Context, payload dto.TaskPayload) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, payload dto.TaskPayload) (*domain.Task, error)
	PatchTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
	FetchTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// AssetKind tags what an uploaded binary is.
type AssetKind string

// AssetKindImage is currently the only kind the pipeline uploads.
const AssetKindImage AssetKind = "image"

// AssetUploader pushes a staged binary to the external asset store and
// returns its public URL. The bearer token travels on ctx via the adapter's
// token provider; the pipeline only forwards it.
type AssetUploader interface {
	UploadAsset(ctx context.Context, filename string, content io.Reader, kind AssetKind) (string, error)
}

// TokenProvider supplies the bearer token forwarded on upstream calls. The
// pipeline never generates tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
