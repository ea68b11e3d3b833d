package services_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/orbitcrm/record_console_app/internal/apperrors"
	"github.com/orbitcrm/record_console_app/internal/cache"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/core/ports/upstream"
	"github.com/orbitcrm/record_console_app/internal/core/services"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ClientAPI ---
type MockClientAPI struct {
	mock.Mock
}

func (m *MockClientAPI) CreateClient(ctx context.Context, payload dto.ClientPayload) (*domain.Client, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientAPI) UpdateClient(ctx context.Context, id int64, payload dto.ClientPayload) (*domain.Client, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientAPI) PatchClientStatus(ctx context.Context, id int64, status domain.ClientStatus) (*domain.Client, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientAPI) FetchClient(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientAPI) ListClients(ctx context.Context, limit, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientAPI) DeleteClient(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock TaskAPI (backs the shared cache store) ---
type MockTaskAPI struct {
	mock.Mock
}

func (m *MockTaskAPI) CreateTask(ctx context.Context, payload dto.TaskPayload) (*domain.Task, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskAPI) UpdateTask(ctx context.Context, id int64, payload dto.TaskPayload) (*domain.Task, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskAPI) PatchTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskAPI) FetchTask(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskAPI) ListTasks(ctx context.Context, limit, offset int) ([]domain.Task, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskAPI) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock AssetUploader ---
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadAsset(ctx context.Context, filename string, content io.Reader, kind upstream.AssetKind) (string, error) {
	args := m.Called(ctx, filename, content, kind)
	return args.String(0), args.Error(1)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(kind portssvc.NotifyKind, message string) {
	m.Called(kind, message)
}

// --- Mock Reconciler ---
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Invalidate(key portssvc.QueryKey) {
	m.Called(key)
}

func (m *MockReconciler) Refetch(ctx context.Context, key portssvc.QueryKey) {
	m.Called(ctx, key)
}

// --- Test Suite ---
type ClientServiceTestSuite struct {
	suite.Suite
	api        *MockClientAPI
	uploader   *MockUploader
	notifier   *MockNotifier
	reconciler *MockReconciler
	store      *cache.Store
	staging    *services.StagingStore
	service    portssvc.ClientSvcFacade
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.api = new(MockClientAPI)
	suite.uploader = new(MockUploader)
	suite.notifier = new(MockNotifier)
	suite.reconciler = new(MockReconciler)

	store, err := cache.NewStore(64, suite.api, new(MockTaskAPI), slog.New(slog.DiscardHandler))
	suite.Require().NoError(err)
	suite.store = store

	staging, err := services.NewStagingStore(suite.T().TempDir())
	suite.Require().NoError(err)
	suite.staging = staging

	suite.service = services.NewClientService(suite.api, suite.uploader, suite.notifier, suite.reconciler, store, staging)
}

func validForm() dto.ClientForm {
	return dto.ClientForm{
		CompanyName: "Acme Pty Ltd",
		ContactName: "Jordan Li",
		Status:      domain.ClientActive,
		Category:    domain.CategoryRetail,
		Address: domain.Address{
			Street: "1 Main St", Suburb: "Central", City: "Sydney",
			State: "NSW", Country: "Australia", PostalCode: "2000",
		},
	}
}

func (suite *ClientServiceTestSuite) TestSubmitCreate_Success() {
	ctx := context.Background()
	created := &domain.Client{UID: 11, Ref: "CL104452", CompanyName: "Acme Pty Ltd"}

	suite.api.On("CreateClient", mock.Anything, mock.MatchedBy(func(p dto.ClientPayload) bool {
		return p.CompanyName == "Acme Pty Ltd" && p.Ref != nil && *p.Ref != ""
	})).Return(created, nil).Once()
	suite.reconciler.On("Invalidate", portssvc.ClientsKey()).Return().Once()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client created").Return().Once()

	got, fieldErrs, err := suite.service.SubmitCreate(ctx, validForm(), nil)

	suite.Require().NoError(err)
	suite.Nil(fieldErrs)
	suite.Equal(created, got)
	suite.api.AssertExpectations(suite.T())
	suite.reconciler.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestSubmitCreate_ValidationFailsFast() {
	form := validForm()
	form.CompanyName = ""
	form.Email = "not-an-email"

	got, fieldErrs, err := suite.service.SubmitCreate(context.Background(), form, nil)

	suite.Require().NoError(err)
	suite.Nil(got)
	suite.Require().NotNil(fieldErrs)
	suite.Equal("Company name is required", fieldErrs.Field("companyName"))

	// Fail-fast: no upload, no submission, no notification of any kind.
	suite.api.AssertNotCalled(suite.T(), "CreateClient", mock.Anything, mock.Anything)
	suite.uploader.AssertNotCalled(suite.T(), "UploadAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.notifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_StripsRef() {
	form := validForm()
	form.UID = 11
	form.Ref = "CL104452"
	updated := &domain.Client{UID: 11, Ref: "CL104452"}

	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.MatchedBy(func(p dto.ClientPayload) bool {
		return p.Ref == nil
	})).Return(updated, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, portssvc.ClientKey(11)).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return().Once()

	got, fieldErrs, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Require().NoError(err)
	suite.Nil(fieldErrs)
	suite.Equal(updated, got)
	suite.api.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_UpstreamErrorSurfacedVerbatim() {
	form := validForm()
	upstreamErr := &upstream.Error{StatusCode: 422, Message: "Ref code already exists"}

	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.Anything).Return(nil, upstreamErr).Once()
	suite.notifier.On("Notify", portssvc.NotifyError, "Ref code already exists").Return().Once()

	got, fieldErrs, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Nil(got)
	suite.Nil(fieldErrs)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSubmission)
	suite.notifier.AssertExpectations(suite.T())
	suite.reconciler.AssertNotCalled(suite.T(), "Invalidate", mock.Anything)
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_UpstreamErrorWithoutMessageGetsFallback() {
	form := validForm()

	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.Anything).Return(nil, assert.AnError).Once()
	suite.notifier.On("Notify", portssvc.NotifyError, "Failed to update client").Return().Once()

	_, _, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Require().Error(err)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_UploadsStagedLogo() {
	suite.Require().NoError(suite.service.StageLogo(11, "logo.png", strings.NewReader("png-bytes")))

	form := validForm()
	updated := &domain.Client{UID: 11}

	suite.uploader.On("UploadAsset", mock.Anything, "logo.png", mock.Anything, upstream.AssetKindImage).
		Return("https://cdn.example/assets/logo.png", nil).Once()
	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.MatchedBy(func(p dto.ClientPayload) bool {
		return p.LogoURL == "https://cdn.example/assets/logo.png"
	})).Return(updated, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return().Once()

	_, fieldErrs, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Require().NoError(err)
	suite.Nil(fieldErrs)
	suite.uploader.AssertExpectations(suite.T())
	suite.api.AssertExpectations(suite.T())

	// The staged file is consumed by a successful submission.
	_, ok := suite.staging.Peek("client-logo/11")
	suite.False(ok)
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_UploadFailureDegrades() {
	suite.Require().NoError(suite.service.StageLogo(11, "logo.png", strings.NewReader("png-bytes")))

	form := validForm()
	form.LogoURL = "https://cdn.example/previous.png"
	updated := &domain.Client{UID: 11}

	suite.uploader.On("UploadAsset", mock.Anything, "logo.png", mock.Anything, upstream.AssetKindImage).
		Return("", assert.AnError).Once()
	suite.notifier.On("Notify", portssvc.NotifyError, "Logo upload failed; the previous image was kept").Return().Once()
	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.MatchedBy(func(p dto.ClientPayload) bool {
		return p.LogoURL == "https://cdn.example/previous.png"
	})).Return(updated, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return().Once()

	got, fieldErrs, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Require().NoError(err, "a failed upload must not abort the submission")
	suite.Nil(fieldErrs)
	suite.Equal(updated, got)
	suite.notifier.AssertExpectations(suite.T())
	suite.api.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_UnreadableStagedLogoDegrades() {
	suite.Require().NoError(suite.service.StageLogo(11, "logo.png", strings.NewReader("png-bytes")))

	// Break the staged file without unstaging it: the slot still points at a
	// path, but opening it now fails with something other than not-exist.
	staged, ok := suite.staging.Peek("client-logo/11")
	suite.Require().True(ok)
	suite.Require().NoError(os.Remove(staged.Path))
	suite.Require().NoError(os.Symlink(staged.Path, staged.Path))

	form := validForm()
	form.LogoURL = "https://cdn.example/previous.png"
	updated := &domain.Client{UID: 11}

	suite.notifier.On("Notify", portssvc.NotifyError, "Logo upload failed; the previous image was kept").Return().Once()
	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.MatchedBy(func(p dto.ClientPayload) bool {
		return p.LogoURL == "https://cdn.example/previous.png"
	})).Return(updated, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return().Once()

	got, fieldErrs, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)

	suite.Require().NoError(err, "an unreadable staged file must not abort the submission")
	suite.Nil(fieldErrs)
	suite.Equal(updated, got)
	suite.uploader.AssertNotCalled(suite.T(), "UploadAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.notifier.AssertExpectations(suite.T())
	suite.api.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestSubmitCreate_WarmsSingleRecordCache() {
	created := &domain.Client{UID: 11, Ref: "CL104452", CompanyName: "Acme Pty Ltd"}

	suite.api.On("CreateClient", mock.Anything, mock.Anything).Return(created, nil).Once()
	suite.reconciler.On("Invalidate", portssvc.ClientsKey()).Return().Once()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client created").Return().Once()

	_, _, err := suite.service.SubmitCreate(context.Background(), validForm(), nil)
	suite.Require().NoError(err)

	got, err := suite.service.GetClient(context.Background(), 11)
	suite.Require().NoError(err)
	suite.Equal("Acme Pty Ltd", got.CompanyName)
	suite.api.AssertNotCalled(suite.T(), "FetchClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_SecondSubmissionBlockedWhileInFlight() {
	form := validForm()
	entered := make(chan struct{})
	release := make(chan struct{})

	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).Return(&domain.Client{UID: 11}, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return().Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)
		suite.NoError(err)
	}()

	<-entered
	_, _, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)
	suite.ErrorIs(err, apperrors.ErrSubmissionInFlight)

	close(release)
	<-done
}

func (suite *ClientServiceTestSuite) TestSubmitUpdate_DifferentRecordsRunIndependently() {
	form := validForm()
	entered := make(chan struct{})
	release := make(chan struct{})

	suite.api.On("UpdateClient", mock.Anything, int64(11), mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).Return(&domain.Client{UID: 11}, nil).Once()
	suite.api.On("UpdateClient", mock.Anything, int64(12), mock.Anything).
		Return(&domain.Client{UID: 12}, nil).Once()
	suite.reconciler.On("Invalidate", mock.Anything).Return()
	suite.reconciler.On("Refetch", mock.Anything, mock.Anything).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client updated").Return()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := suite.service.SubmitUpdate(context.Background(), 11, form, nil)
		suite.NoError(err)
	}()

	<-entered
	_, _, err := suite.service.SubmitUpdate(context.Background(), 12, form, nil)
	suite.NoError(err, "submissions to other records are not serialized")

	close(release)
	<-done
}

func (suite *ClientServiceTestSuite) TestChangeStatus_NoopGuard() {
	current := &domain.Client{UID: 11, Status: domain.ClientActive}
	suite.api.On("FetchClient", mock.Anything, int64(11)).Return(current, nil).Once()
	suite.notifier.On("Notify", portssvc.NotifyInfo, "Client is already Active").Return().Once()

	got, err := suite.service.ChangeStatus(context.Background(), 11, domain.ClientActive)

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrConflictNoop)
	suite.api.AssertNotCalled(suite.T(), "PatchClientStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestChangeStatus_Success() {
	current := &domain.Client{UID: 11, Status: domain.ClientProspect}
	updated := &domain.Client{UID: 11, Status: domain.ClientActive}

	suite.api.On("FetchClient", mock.Anything, int64(11)).Return(current, nil).Once()
	suite.api.On("PatchClientStatus", mock.Anything, int64(11), domain.ClientActive).Return(updated, nil).Once()
	suite.reconciler.On("Invalidate", portssvc.ClientsKey()).Return().Once()
	suite.reconciler.On("Invalidate", portssvc.ClientKey(11)).Return().Once()
	suite.reconciler.On("Refetch", mock.Anything, portssvc.ClientKey(11)).Return().Maybe()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client marked Active").Return().Once()

	got, err := suite.service.ChangeStatus(context.Background(), 11, domain.ClientActive)

	suite.Require().NoError(err)
	suite.Equal(updated, got)
	suite.api.AssertExpectations(suite.T())
	suite.reconciler.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestChangeStatus_UnknownStatusRejected() {
	got, err := suite.service.ChangeStatus(context.Background(), 11, "paused")

	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.api.AssertNotCalled(suite.T(), "FetchClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestDelete_ConfirmationMachine() {
	ctx := context.Background()
	suite.api.On("FetchClient", mock.Anything, int64(11)).Return(&domain.Client{UID: 11}, nil).Once()

	token, err := suite.service.RequestDelete(ctx, 11)
	suite.Require().NoError(err)
	suite.NotEmpty(token)

	// Wrong token never fires the delete.
	err = suite.service.ConfirmDelete(ctx, 11, "wrong-token")
	suite.ErrorIs(err, apperrors.ErrDeleteNotConfirmed)
	suite.api.AssertNotCalled(suite.T(), "DeleteClient", mock.Anything, mock.Anything)

	suite.api.On("DeleteClient", mock.Anything, int64(11)).Return(nil).Once()
	suite.reconciler.On("Invalidate", portssvc.ClientsKey()).Return().Once()
	suite.reconciler.On("Invalidate", portssvc.ClientKey(11)).Return().Once()
	suite.notifier.On("Notify", portssvc.NotifySuccess, "Client deleted").Return().Once()

	suite.Require().NoError(suite.service.ConfirmDelete(ctx, 11, token))

	// The confirmation is consumed; replaying the token fails.
	err = suite.service.ConfirmDelete(ctx, 11, token)
	suite.ErrorIs(err, apperrors.ErrDeleteNotConfirmed)
	suite.api.AssertExpectations(suite.T())
}

func (suite *ClientServiceTestSuite) TestDelete_CancelAbandonsConfirmation() {
	ctx := context.Background()
	suite.api.On("FetchClient", mock.Anything, int64(11)).Return(&domain.Client{UID: 11}, nil).Once()

	token, err := suite.service.RequestDelete(ctx, 11)
	suite.Require().NoError(err)

	suite.service.CancelDelete(11)

	err = suite.service.ConfirmDelete(ctx, 11, token)
	suite.ErrorIs(err, apperrors.ErrDeleteNotConfirmed)
	suite.api.AssertNotCalled(suite.T(), "DeleteClient", mock.Anything, mock.Anything)
}

func (suite *ClientServiceTestSuite) TestDelete_RequestForMissingRecordFails() {
	suite.api.On("FetchClient", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	token, err := suite.service.RequestDelete(context.Background(), 99)
	suite.Empty(token)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ClientServiceTestSuite) TestGetClient_ReadsThroughCache() {
	fetched := &domain.Client{UID: 11, CompanyName: "Acme"}
	suite.api.On("FetchClient", mock.Anything, int64(11)).Return(fetched, nil).Once()

	first, err := suite.service.GetClient(context.Background(), 11)
	suite.Require().NoError(err)
	second, err := suite.service.GetClient(context.Background(), 11)
	suite.Require().NoError(err)

	suite.Equal(first.CompanyName, second.CompanyName)
	suite.api.AssertNumberOfCalls(suite.T(), "FetchClient", 1)
}

func (suite *ClientServiceTestSuite) TestListClients_CachesPages() {
	page := []domain.Client{{UID: 1}, {UID: 2}}
	suite.api.On("ListClients", mock.Anything, 20, 0).Return(page, nil).Once()

	first, err := suite.service.ListClients(context.Background(), 20, 0)
	suite.Require().NoError(err)
	suite.Len(first, 2)

	second, err := suite.service.ListClients(context.Background(), 20, 0)
	suite.Require().NoError(err)
	suite.Len(second, 2)
	suite.api.AssertNumberOfCalls(suite.T(), "ListClients", 1)
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}
