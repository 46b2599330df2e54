package mock

import (
	context "context"
	io "io"
	reflect "reflect"
	time "time"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/willyosu/willybot/willybot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockUserPurger is a mock of UserPurger interface.
type MockUserPurger struct {
	ctrl     *gomock.Controller
	recorder *MockUserPurgerMockRecorder
	isgomock struct{}
}

// MockUserPurgerMockRecorder is the mock recorder for MockUserPurger.
type MockUserPurgerMockRecorder struct {
	mock *MockUserPurger
}

// NewMockUserPurger creates a new mock instance.
func NewMockUserPurger(ctrl *gomock.Controller) *MockUserPurger {
	mock := &MockUserPurger{ctrl: ctrl}
	mock.recorder = &MockUserPurgerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUserPurger) EXPECT() *MockUserPurgerMockRecorder {
	return m.recorder
}

// PurgeInactive mocks base method.
func (m *MockUserPurger) PurgeInactive(ctx context.Context, activeBefore int64) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PurgeInactive", ctx, activeBefore)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PurgeInactive indicates an expected call of PurgeInactive.
func (mr *MockUserPurgerMockRecorder) PurgeInactive(ctx, activeBefore any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PurgeInactive", reflect.TypeOf((*MockUserPurger)(nil).PurgeInactive), ctx, activeBefore)
}

// MockQuestStore is a mock of QuestStore interface.
type MockQuestStore struct {
	ctrl     *gomock.Controller
	recorder *MockQuestStoreMockRecorder
	isgomock struct{}
}

// MockQuestStoreMockRecorder is the mock recorder for MockQuestStore.
type MockQuestStoreMockRecorder struct {
	mock *MockQuestStore
}

// NewMockQuestStore creates a new mock instance.
func NewMockQuestStore(ctrl *gomock.Controller) *MockQuestStore {
	mock := &MockQuestStore{ctrl: ctrl}
	mock.recorder = &MockQuestStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockQuestStore) EXPECT() *MockQuestStoreMockRecorder {
	return m.recorder
}

// Delete mocks base method.
func (m *MockQuestStore) Delete(ctx context.Context, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockQuestStoreMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockQuestStore)(nil).Delete), ctx, id)
}

// GetExpiring mocks base method.
func (m *MockQuestStore) GetExpiring(ctx context.Context, grace time.Duration) ([]models.Quest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetExpiring", ctx, grace)
	ret0, _ := ret[0].([]models.Quest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetExpiring indicates an expected call of GetExpiring.
func (mr *MockQuestStoreMockRecorder) GetExpiring(ctx, grace any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetExpiring", reflect.TypeOf((*MockQuestStore)(nil).GetExpiring), ctx, grace)
}

// MockAnnouncementRemover is a mock of AnnouncementRemover interface.
type MockAnnouncementRemover struct {
	ctrl     *gomock.Controller
	recorder *MockAnnouncementRemoverMockRecorder
	isgomock struct{}
}

// MockAnnouncementRemoverMockRecorder is the mock recorder for MockAnnouncementRemover.
type MockAnnouncementRemoverMockRecorder struct {
	mock *MockAnnouncementRemover
}

// NewMockAnnouncementRemover creates a new mock instance.
func NewMockAnnouncementRemover(ctrl *gomock.Controller) *MockAnnouncementRemover {
	mock := &MockAnnouncementRemover{ctrl: ctrl}
	mock.recorder = &MockAnnouncementRemoverMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAnnouncementRemover) EXPECT() *MockAnnouncementRemoverMockRecorder {
	return m.recorder
}

// Remove mocks base method.
func (m *MockAnnouncementRemover) Remove(ctx context.Context, messageID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Remove", ctx, messageID)
	ret0, _ := ret[0].(error)
	return ret0
}

// Remove indicates an expected call of Remove.
func (mr *MockAnnouncementRemoverMockRecorder) Remove(ctx, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Remove", reflect.TypeOf((*MockAnnouncementRemover)(nil).Remove), ctx, messageID)
}

// MockUploader is a mock of Uploader interface.
type MockUploader struct {
	ctrl     *gomock.Controller
	recorder *MockUploaderMockRecorder
	isgomock struct{}
}

// MockUploaderMockRecorder is the mock recorder for MockUploader.
type MockUploaderMockRecorder struct {
	mock *MockUploader
}

// NewMockUploader creates a new mock instance.
func NewMockUploader(ctrl *gomock.Controller) *MockUploader {
	mock := &MockUploader{ctrl: ctrl}
	mock.recorder = &MockUploaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUploader) EXPECT() *MockUploaderMockRecorder {
	return m.recorder
}

// Upload mocks base method.
func (m *MockUploader) Upload(ctx context.Context, name string, body io.ReadSeeker) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Upload", ctx, name, body)
	ret0, _ := ret[0].(error)
	return ret0
}

// Upload indicates an expected call of Upload.
func (mr *MockUploaderMockRecorder) Upload(ctx, name, body any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Upload", reflect.TypeOf((*MockUploader)(nil).Upload), ctx, name, body)
}

// MockRecorder is a mock of Recorder interface.
type MockRecorder struct {
	ctrl     *gomock.Controller
	recorder *MockRecorderMockRecorder
	isgomock struct{}
}

// MockRecorderMockRecorder is the mock recorder for MockRecorder.
type MockRecorderMockRecorder struct {
	mock *MockRecorder
}

// NewMockRecorder creates a new mock instance.
func NewMockRecorder(ctrl *gomock.Controller) *MockRecorder {
	mock := &MockRecorder{ctrl: ctrl}
	mock.recorder = &MockRecorderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRecorder) EXPECT() *MockRecorderMockRecorder {
	return m.recorder
}

// ObserveJob mocks base method.
func (m *MockRecorder) ObserveJob(code string, took time.Duration, err error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ObserveJob", code, took, err)
}

// ObserveJob indicates an expected call of ObserveJob.
func (mr *MockRecorderMockRecorder) ObserveJob(code, took, err any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ObserveJob", reflect.TypeOf((*MockRecorder)(nil).ObserveJob), code, took, err)
}
