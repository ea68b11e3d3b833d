package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

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

// logoSlot keys the staging slot for a client's logo; uid 0 is the create
// form's slot.
func logoSlot(id int64) string {
	return fmt.Sprintf("client-logo/%d", id)
}

func clientInflightKey(id int64) string {
	return fmt.Sprintf("client/%d", id)
}

// ClientService orchestrates the client edit/submit pipeline against the
// upstream collaborators. One service instance serves all records; the
// in-flight registry keeps writes to a single record serialized.
type ClientService struct {
	api        upstream.ClientAPI
	uploader   upstream.AssetUploader
	notifier   portssvc.Notifier
	reconciler portssvc.Reconciler
	store      *cache.Store
	staging    *StagingStore
	inflight   *inflightRegistry
	deletes    *pendingDeletes
}

// NewClientService wires a ClientService.
func NewClientService(
	api upstream.ClientAPI,
	uploader upstream.AssetUploader,
	notifier portssvc.Notifier,
	reconciler portssvc.Reconciler,
	store *cache.Store,
	staging *StagingStore,
) *ClientService {
	return &ClientService{
		api:        api,
		uploader:   uploader,
		notifier:   notifier,
		reconciler: reconciler,
		store:      store,
		staging:    staging,
		inflight:   newInflightRegistry(),
		deletes:    newPendingDeletes(),
	}
}

var _ portssvc.ClientSvcFacade = (*ClientService)(nil)

// SubmitCreate runs the create pipeline: validate, upload any staged logo,
// transform, submit. On success the list query is invalidated and the create
// staging slot reset.
func (s *ClientService) SubmitCreate(ctx context.Context, form dto.ClientForm, sess *domain.Session) (*domain.Client, *schema.Errors, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := clientInflightKey(0)
	if !s.inflight.begin(key) {
		return nil, nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	machine := newSubmission(logger)
	machine.to(StateValidating)
	if errs := schema.ValidateClient(&form); errs != nil {
		machine.to(StateIdle)
		return nil, errs, nil
	}

	s.uploadStagedLogo(ctx, machine, logoSlot(0), &form)

	machine.to(StateSubmitting)
	payload := transform.ClientPayload(form, transform.PayloadModeCreate, sess)
	created, err := s.api.CreateClient(ctx, payload)
	if err != nil {
		machine.to(StateFailed)
		machine.to(StateIdle)
		logger.Error("Failed to create client upstream", slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to create client"))
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	machine.to(StateSucceeded)
	s.reconciler.Invalidate(portssvc.ClientsKey())
	s.store.PutClient(*created)
	s.staging.Clear(logoSlot(0))
	s.notifier.Notify(portssvc.NotifySuccess, "Client created")
	logger.Info("Client created", slog.Int64("uid", created.UID), slog.String("ref", created.Ref))
	machine.to(StateIdle)
	return created, nil, nil
}

// SubmitUpdate runs the edit pipeline for an existing record. The outgoing
// payload never carries a ref code; the transformer strips it for updates.
func (s *ClientService) SubmitUpdate(ctx context.Context, id int64, form dto.ClientForm, sess *domain.Session) (*domain.Client, *schema.Errors, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := clientInflightKey(id)
	if !s.inflight.begin(key) {
		return nil, nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	machine := newSubmission(logger)
	machine.to(StateValidating)
	if errs := schema.ValidateClient(&form); errs != nil {
		machine.to(StateIdle)
		return nil, errs, nil
	}

	s.uploadStagedLogo(ctx, machine, logoSlot(id), &form)

	machine.to(StateSubmitting)
	payload := transform.ClientPayload(form, transform.PayloadModeUpdate, sess)
	updated, err := s.api.UpdateClient(ctx, id, payload)
	if err != nil {
		machine.to(StateFailed)
		machine.to(StateIdle)
		logger.Error("Failed to update client upstream", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to update client"))
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	machine.to(StateSucceeded)
	s.reconcileAfterWrite(ctx, id)
	s.staging.Clear(logoSlot(id))
	s.notifier.Notify(portssvc.NotifySuccess, "Client updated")
	logger.Info("Client updated", slog.Int64("uid", id))
	machine.to(StateIdle)
	return updated, nil, nil
}

// uploadStagedLogo pushes a pending logo to the asset store and swaps the
// form's logical URL for the returned public one. A failed upload degrades:
// the user is notified, the previous URL stays, and the submission proceeds.
func (s *ClientService) uploadStagedLogo(ctx context.Context, machine *submission, slot string, form *dto.ClientForm) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reader, staged, err := s.staging.Open(slot)
	if errors.Is(err, os.ErrNotExist) {
		return // nothing staged
	}
	if err != nil {
		logger.Warn("Staged logo unreadable, continuing with previous value", slog.String("slot", slot), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, "Logo upload failed; the previous image was kept")
		return
	}
	defer reader.Close()

	machine.to(StateUploading)
	publicURL, err := s.uploader.UploadAsset(ctx, staged.Filename, reader, upstream.AssetKindImage)
	if err != nil || publicURL == "" {
		if err == nil {
			err = apperrors.ErrUpload
		}
		logger.Warn("Logo upload failed, continuing with previous value", slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, "Logo upload failed; the previous image was kept")
		return
	}
	form.LogoURL = publicURL
}

// ChangeStatus is the one-field quick action. Asking for the record's current
// status short-circuits with a single informational notification and no
// network call.
func (s *ClientService) ChangeStatus(ctx context.Context, id int64, status domain.ClientStatus) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidClientStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	current, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		s.notifier.Notify(portssvc.NotifyInfo, fmt.Sprintf("Client is already %s", domain.ClientStatusDisplay[status].Label))
		return nil, apperrors.ErrConflictNoop
	}

	key := clientInflightKey(id)
	if !s.inflight.begin(key) {
		return nil, apperrors.ErrSubmissionInFlight
	}
	defer s.inflight.end(key)

	updated, err := s.api.PatchClientStatus(ctx, id, status)
	if err != nil {
		logger.Error("Failed to change client status", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to change client status"))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	s.reconcileAfterWrite(ctx, id)
	s.notifier.Notify(portssvc.NotifySuccess, fmt.Sprintf("Client marked %s", domain.ClientStatusDisplay[status].Label))
	logger.Info("Client status changed", slog.Int64("uid", id), slog.String("status", string(status)))
	return updated, nil
}

// StageLogo stages a newly chosen logo for the record's next submission.
func (s *ClientService) StageLogo(id int64, filename string, content io.Reader) error {
	return s.staging.Stage(logoSlot(id), filename, content)
}

// RequestDelete opens the confirmation window and returns its token.
func (s *ClientService) RequestDelete(ctx context.Context, id int64) (string, error) {
	if _, err := s.GetClient(ctx, id); err != nil {
		return "", err
	}
	token := uuid.NewString()
	s.deletes.request(id, token)
	return token, nil
}

// ConfirmDelete fires the delete when the token matches the pending request.
// The confirmation is consumed either way the delete turns out.
func (s *ClientService) ConfirmDelete(ctx context.Context, id int64, confirmToken string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.deletes.confirm(id, confirmToken) {
		return apperrors.ErrDeleteNotConfirmed
	}

	if err := s.api.DeleteClient(ctx, id); err != nil {
		logger.Error("Failed to delete client upstream", slog.Int64("uid", id), slog.String("error", err.Error()))
		s.notifier.Notify(portssvc.NotifyError, collaboratorMessage(err, "Failed to delete client"))
		return fmt.Errorf("%w: %w", apperrors.ErrSubmission, err)
	}

	s.reconciler.Invalidate(portssvc.ClientsKey())
	s.reconciler.Invalidate(portssvc.ClientKey(id))
	s.staging.Clear(logoSlot(id))
	s.notifier.Notify(portssvc.NotifySuccess, "Client deleted")
	logger.Info("Client deleted", slog.Int64("uid", id))
	return nil
}

// CancelDelete abandons a pending confirmation.
func (s *ClientService) CancelDelete(id int64) {
	s.deletes.cancel(id)
}

// GetClient reads through the cache.
func (s *ClientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	if c, ok := s.store.GetClient(id); ok {
		return c, nil
	}
	c, err := s.api.FetchClient(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch client", slog.Int64("uid", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	s.store.PutClient(*c)
	return c, nil
}

// ListClients reads a page through the cache.
func (s *ClientService) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	if page, ok := s.store.GetClientPage(limit, offset); ok {
		return page, nil
	}
	page, err := s.api.ListClients(ctx, limit, offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list clients", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if page == nil {
		page = []domain.Client{}
	}
	s.store.PutClientPage(limit, offset, page)
	return page, nil
}

// reconcileAfterWrite invalidates both query keys and refetches the single
// record. The refetch is fire-and-forget; the caller does not wait for it.
func (s *ClientService) reconcileAfterWrite(ctx context.Context, id int64) {
	s.reconciler.Invalidate(portssvc.ClientsKey())
	s.reconciler.Invalidate(portssvc.ClientKey(id))
	go s.reconciler.Refetch(context.WithoutCancel(ctx), portssvc.ClientKey(id))
}

// collaboratorMessage surfaces the collaborator's message verbatim when it
// supplied one, falling back to the generic string otherwise.
func collaboratorMessage(err error, fallback string) string {
	var ue *upstream.Error
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return fallback
}
