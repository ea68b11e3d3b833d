package services

import (
	"context"
	"io"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/orbitcrm/record_console_app/internal/schema"
)

// ClientSubmissionSvc drives the client edit/submit pipeline.
type ClientSubmissionSvc interface {
	// SubmitCreate validates, transforms and submits a new client. Field
	// errors come back as a schema.Errors without any collaborator call.
	SubmitCreate(ctx context.Context, form dto.ClientForm, sess *domain.Session) (*domain.Client, *schema.Errors, error)

	// SubmitUpdate validates, transforms and submits an edit of an existing
	// client, uploading a staged logo first when one is pending.
	SubmitUpdate(ctx context.Context, id int64, form dto.ClientForm, sess *domain.Session) (*domain.Client, *schema.Errors, error)

	// ChangeStatus is the one-field quick action. Requesting the current
	// status is a no-op: one informational notification, no network call.
	ChangeStatus(ctx context.Context, id int64, status domain.ClientStatus) (*domain.Client, error)

	// StageLogo stages a newly chosen logo for the record's next submission,
	// superseding any previously staged file.
	StageLogo(id int64, filename string, content io.Reader) error
}

// ClientDeleteSvc is the two-step delete confirmation machine. A delete can
// never fire without a pending confirmation issued by RequestDelete.
type ClientDeleteSvc interface {
	RequestDelete(ctx context.Context, id int64) (string, error)
	ConfirmDelete(ctx context.Context, id int64, confirmToken string) error
	CancelDelete(id int64)
}

// ClientReaderSvc serves the read path through the cache.
type ClientReaderSvc interface {
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error)
}

// ClientSvcFacade combines all client pipeline interfaces.
type ClientSvcFacade interface {
	ClientSubmissionSvc
	ClientDeleteSvc
	ClientReaderSvc
}

// TaskSubmissionSvc drives the task edit/submit pipeline.
type TaskSubmissionSvc interface {
	SubmitCreate(ctx context.Context, form dto.TaskForm, sess *domain.Session) (*domain.Task, *schema.Errors, error)
	SubmitUpdate(ctx context.Context, id int64, form dto.TaskForm, sess *domain.Session) (*domain.Task, *schema.Errors, error)
	ChangeStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
}

// TaskDeleteSvc mirrors ClientDeleteSvc for tasks.
type TaskDeleteSvc interface {
	RequestDelete(ctx context.Context, id int64) (string, error)
	ConfirmDelete(ctx context.Context, id int64, confirmToken string) error
	CancelDelete(id int64)
}

// TaskReaderSvc serves the task read path through the cache.
type TaskReaderSvc interface {
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error)
}

// TaskSvcFacade combines all task pipeline interfaces.
type TaskSvcFacade interface {
	TaskSubmissionSvc
	TaskDeleteSvc
	TaskReaderSvc
}

// ServiceContainer bundles the facades for route registration.
type ServiceContainer struct {
	Client ClientSvcFacade
	Task   TaskSvcFacade
}
