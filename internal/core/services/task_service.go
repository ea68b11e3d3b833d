package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/orbitcrm/record_console_app/internal/apperrors"
	"github.com/orbitcrm/record_console_app/internal/cache"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/core/ports/upstream"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/orbitcrm/record_console_app/internal/middleware"
	"github.com/orbitcrm/record_console_app/internal/schema"
	"github.com/orbitcrm/record_console_app/internal/transform"
)

func taskInflightKey(id int64) string {
	return fmt.Sprintf("task/%d", id)
}

// TaskService orchestrates the task edit/submit pipeline. Tasks carry no
// binary asset, so the machine never enters the uploading state.
type TaskService struct {
	api        upstream.TaskAPI
	notifier   portssvc.Notifier
	reconciler portssvc.Reconciler
	store      *cache.Store
	inflight   *inflightRegistry
	deletes    *pendingDeletes
}

// NewTaskService wires a TaskService.
func NewTaskService(api upstream.TaskAPI, notifier portssvc.Notifier, reconciler portssvc.Reconciler, store *cache.Store) *TaskService {
	return &TaskService{
		api:        api,
		notifier:   notifier,
		reconciler: reconciler,
		store:      store,
		inflight:   newInflightRegistry(),
		deletes:    newPendingDeletes(),
	}
}

var _ portssvc.TaskSvcFacade = (*TaskService)(nil)

// SubmitCreate validates, transforms and submits a new task.
func (s *TaskService) SubmitCreate(ctx context.Context, form dto.TaskForm, sess *domain.Session) (*domain.Task, *schema.Errors, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := taskInflightKey(0)
	if !s.inflight.begin(key) {
		return nil, nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	machine := newSubmission(logger)
	machine.to(StateValidating)
	if errs := schema.ValidateTask(&form); errs != nil {
		machine.to(StateIdle)
		return nil, errs, nil
	}

	machine.to(StateSubmitting)
	payload := transform.TaskPayload(form, transform.PayloadModeCreate, sess)
	created, err := s.api.CreateTask(ctx, payload)
	if err != nil {
		machine.to(StateFailed)
		machine.to(StateIdle)
		logger.Error("Failed to create task upstream", slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to create task"))
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	machine.to(StateSucceeded)
	s.reconciler.Invalidate(portssvc.TasksKey())
	s.store.PutTask(*created)
	s.notifier.Notify(portssvc.NotifySuccess, "Task created")
	logger.Info("Task created", slog.Int64("uid", created.UID), slog.String("ref", created.Ref))
	machine.to(StateIdle)
	return created, nil, nil
}

// SubmitUpdate validates, transforms and submits an edit of an existing task.
func (s *TaskService) SubmitUpdate(ctx context.Context, id int64, form dto.TaskForm, sess *domain.Session) (*domain.Task, *schema.Errors, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := taskInflightKey(id)
	if !s.inflight.begin(key) {
		return nil, nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	machine := newSubmission(logger)
	machine.to(StateValidating)
	if errs := schema.ValidateTask(&form); errs != nil {
		machine.to(StateIdle)
		return nil, errs, nil
	}

	machine.to(StateSubmitting)
	payload := transform.TaskPayload(form, transform.PayloadModeUpdate, sess)
	updated, err := s.api.UpdateTask(ctx, id, payload)
	if err != nil {
		machine.to(StateFailed)
		machine.to(StateIdle)
		logger.Error("Failed to update task upstream", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to update task"))
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	machine.to(StateSucceeded)
	s.reconcileAfterWrite(ctx, id)
	s.notifier.Notify(portssvc.NotifySuccess, "Task updated")
	logger.Info("Task updated", slog.Int64("uid", id))
	machine.to(StateIdle)
	return updated, nil, nil
}

// ChangeStatus is the one-field quick action with the same no-op guard as the
// client side.
func (s *TaskService) ChangeStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		s.notifier.Notify(portssvc.NotifyInfo, fmt.Sprintf("Task is already %s", domain.TaskStatusDisplay[status].Label))
		return nil, apperrors.ErrConflictNoop
	}

	key := taskInflightKey(id)
	if !s.inflight.begin(key) {
		return nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	updated, err := s.api.PatchTaskStatus(ctx, id, status)
	if err != nil {
		logger.Error("Failed to change task status", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to change task status"))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	s.reconcileAfterWrite(ctx, id)
	s.notifier.Notify(portssvc.NotifySuccess, fmt.Sprintf("Task marked %s", domain.TaskStatusDisplay[status].Label))
	logger.Info("Task status changed", slog.Int64("uid", id), slog.String("status", string(status)))
	return updated, nil
}

// RequestDelete opens the confirmation window and returns its token.
func (s *TaskService) RequestDelete(ctx context.Context, id int64) (string, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return "", err
	}
	token := uuid.NewString()
	s.deletes.request(id, token)
	return token, nil
}

// ConfirmDelete fires the delete when the token matches the pending request.
func (s *TaskService) ConfirmDelete(ctx context.Context, id int64, confirmToken string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.deletes.confirm(id, confirmToken) {
		return apperrors.ErrDeleteNotConfirmed
	}

	if err := s.api.DeleteTask(ctx, id); err != nil {
		logger.Error("Failed to delete task upstream", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to delete task"))
		return fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	s.reconciler.Invalidate(portssvc.TasksKey())
	s.reconciler.Invalidate(portssvc.TaskKey(id))
	s.notifier.Notify(portssvc.NotifySuccess, "Task deleted")
	logger.Info("Task deleted", slog.Int64("uid", id))
	return nil
}

// CancelDelete abandons a pending confirmation.
func (s *TaskService) CancelDelete(id int64) {
	s.deletes.cancel(id)
}

// GetTask reads through the cache.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if t, ok := s.store.GetTask(id); ok {
		return t, nil
	}
	t, err := s.api.FetchTask(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch task", slog.Int64("uid", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	s.store.PutTask(*t)
	return t, nil
}

// ListTasks reads a page through the cache.
func (s *TaskService) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	if page, ok := s.store.GetTaskPage(limit, offset); ok {
		return page, nil
	}
	page, err := s.api.ListTasks(ctx, limit, offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if page == nil {
		page = []domain.Task{}
	}
	s.store.PutTaskPage(limit, offset, page)
	return page, nil
}

func (s *TaskService) reconcileAfterWrite(ctx context.Context, id int64) {
	s.reconciler.Invalidate(portssvc.TasksKey())
	s.reconciler.Invalidate(portssvc.TaskKey(id))
	go s.reconciler.Refetch(context.WithoutCancel(ctx), portssvc.TaskKey(id))
}
