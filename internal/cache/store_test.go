package cache_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/orbitcrm/record_console_app/internal/cache"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
	"github.com/orbitcrm/record_console_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

// --- Mock TaskAPI ---
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

// --- Test Suite ---
type StoreTestSuite struct {
	suite.Suite
	clients *MockClientAPI
	tasks   *MockTaskAPI
	store   *cache.Store
}

func (suite *StoreTestSuite) SetupTest() {
	suite.clients = new(MockClientAPI)
	suite.tasks = new(MockTaskAPI)
	store, err := cache.NewStore(64, suite.clients, suite.tasks, slog.New(slog.DiscardHandler))
	suite.Require().NoError(err)
	suite.store = store
}

func (suite *StoreTestSuite) TestPutGetClient() {
	c := domain.Client{UID: 5, CompanyName: "Acme"}
	suite.store.PutClient(c)

	got, ok := suite.store.GetClient(5)
	suite.Require().True(ok)
	suite.Equal("Acme", got.CompanyName)

	_, ok = suite.store.GetClient(6)
	suite.False(ok)
}

func (suite *StoreTestSuite) TestInvalidateSingleKey() {
	suite.store.PutClient(domain.Client{UID: 5})
	suite.store.PutClient(domain.Client{UID: 6})

	suite.store.Invalidate(portssvc.ClientKey(5))

	_, ok := suite.store.GetClient(5)
	suite.False(ok)
	_, ok = suite.store.GetClient(6)
	suite.True(ok, "other records are untouched")
}

func (suite *StoreTestSuite) TestInvalidateListDropsAllPages() {
	suite.store.PutClientPage(20, 0, []domain.Client{{UID: 1}})
	suite.store.PutClientPage(20, 20, []domain.Client{{UID: 2}})
	suite.store.PutClient(domain.Client{UID: 1})
	suite.store.PutTaskPage(20, 0, []domain.Task{{UID: 9}})

	suite.store.Invalidate(portssvc.ClientsKey())

	_, ok := suite.store.GetClientPage(20, 0)
	suite.False(ok)
	_, ok = suite.store.GetClientPage(20, 20)
	suite.False(ok)
	_, ok = suite.store.GetClient(1)
	suite.True(ok, "single-record entries survive a list invalidation")
	_, ok = suite.store.GetTaskPage(20, 0)
	suite.True(ok, "task pages survive a client list invalidation")
}

func (suite *StoreTestSuite) TestRefetchClientRepopulates() {
	suite.store.PutClient(domain.Client{UID: 5, CompanyName: "Stale"})
	fresh := &domain.Client{UID: 5, CompanyName: "Fresh"}
	suite.clients.On("FetchClient", mock.Anything, int64(5)).Return(fresh, nil).Once()

	suite.store.Refetch(context.Background(), portssvc.ClientKey(5))

	got, ok := suite.store.GetClient(5)
	suite.Require().True(ok)
	suite.Equal("Fresh", got.CompanyName)
	suite.clients.AssertExpectations(suite.T())
}

func (suite *StoreTestSuite) TestRefetchTaskRepopulates() {
	fresh := &domain.Task{UID: 3, Title: "Fresh"}
	suite.tasks.On("FetchTask", mock.Anything, int64(3)).Return(fresh, nil).Once()

	suite.store.Refetch(context.Background(), portssvc.TaskKey(3))

	got, ok := suite.store.GetTask(3)
	suite.Require().True(ok)
	suite.Equal("Fresh", got.Title)
}

func (suite *StoreTestSuite) TestRefetchFailureLeavesCacheCold() {
	suite.store.PutClient(domain.Client{UID: 5, CompanyName: "Stale"})
	suite.store.Invalidate(portssvc.ClientKey(5))
	suite.clients.On("FetchClient", mock.Anything, int64(5)).Return(nil, assert.AnError).Once()

	suite.store.Refetch(context.Background(), portssvc.ClientKey(5))

	_, ok := suite.store.GetClient(5)
	suite.False(ok, "a failed refetch must not resurrect stale data")
}

func (suite *StoreTestSuite) TestRefetchListKeyOnlyInvalidates() {
	suite.store.PutClientPage(20, 0, []domain.Client{{UID: 1}})

	suite.store.Refetch(context.Background(), portssvc.ClientsKey())

	_, ok := suite.store.GetClientPage(20, 0)
	suite.False(ok)
	suite.clients.AssertNotCalled(suite.T(), "ListClients", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestStore_PageKeysIndependent(t *testing.T) {
	store, err := cache.NewStore(8, new(MockClientAPI), new(MockTaskAPI), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	store.PutClientPage(10, 0, []domain.Client{{UID: 1}})
	_, ok := store.GetClientPage(20, 0)
	assert.False(t, ok, "pages are keyed by limit and offset")
}
