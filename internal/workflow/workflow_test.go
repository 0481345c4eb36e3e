package workflow

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	E "github.com/IBM/fp-go/v2/either"
	IOE "github.com/IBM/fp-go/v2/ioeither"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/repository"
	T "github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/typing"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/view"
)

func result[A any](v A, err error) E.Either[error, A] {
	if err != nil {
		return E.Left[A](err)
	}
	return E.Right[error](v)
}

// mockRepo serves both the view's reads and the workflows' writes. Calls are
// recorded only when the returned IOEither is executed.
type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListRequests(_ context.Context, filter models.ListFilter) IOE.IOEither[error, models.RequestPage] {
	return func() E.Either[error, models.RequestPage] {
		args := m.MethodCalled("ListRequests", filter.GroupID)
		return result(args.Get(0).(models.RequestPage), args.Error(1))
	}
}

func (m *mockRepo) GetRequest(_ context.Context, id string) IOE.IOEither[error, models.DispatchRequest] {
	return func() E.Either[error, models.DispatchRequest] {
		args := m.MethodCalled("GetRequest", id)
		return result(args.Get(0).(models.DispatchRequest), args.Error(1))
	}
}

func (m *mockRepo) CreateRequest(_ context.Context, groupID, name string, sender models.SenderFields) IOE.IOEither[error, models.DispatchRequest] {
	return func() E.Either[error, models.DispatchRequest] {
		args := m.MethodCalled("CreateRequest", groupID, name, sender)
		return result(args.Get(0).(models.DispatchRequest), args.Error(1))
	}
}

func (m *mockRepo) UpdateRequestSender(_ context.Context, id string, sender models.SenderFields) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("UpdateRequestSender", id, sender).Error(0))
	}
}

func (m *mockRepo) UpdateRequestSubject(_ context.Context, id, subject string) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("UpdateRequestSubject", id, subject).Error(0))
	}
}

func (m *mockRepo) DeleteRequest(_ context.Context, id string) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("DeleteRequest", id).Error(0))
	}
}

func (m *mockRepo) SubmitRequest(_ context.Context, id string) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("SubmitRequest", id).Error(0))
	}
}

func (m *mockRepo) AddFile(_ context.Context, requestID string, upload models.Upload) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("AddFile", requestID, upload.Name).Error(0))
	}
}

func (m *mockRepo) DeleteFile(_ context.Context, fileID string) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("DeleteFile", fileID).Error(0))
	}
}

func (m *mockRepo) AddRecipient(_ context.Context, requestID string, fields models.RecipientFields) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("AddRecipient", requestID, fields).Error(0))
	}
}

func (m *mockRepo) UpdateRecipient(_ context.Context, recipientID, requestID string, fields models.RecipientFields) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("UpdateRecipient", recipientID, requestID, fields).Error(0))
	}
}

func (m *mockRepo) DeleteRecipient(_ context.Context, recipientID string) IOE.IOEither[error, T.Unit] {
	return func() E.Either[error, T.Unit] {
		return result(T.Unit{}, m.MethodCalled("DeleteRecipient", recipientID).Error(0))
	}
}

func (m *mockRepo) GetRecipientDetail(_ context.Context, recipientID string) IOE.IOEither[error, models.Recipient] {
	return func() E.Either[error, models.Recipient] {
		args := m.MethodCalled("GetRecipientDetail", recipientID)
		return result(args.Get(0).(models.Recipient), args.Error(1))
	}
}

type mockConfirmer struct {
	mock.Mock
}

func (m *mockConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	args := m.Called(prompt)
	return args.Bool(0), args.Error(1)
}

type fakeModal struct {
	mu      sync.Mutex
	shown   []string
	onClose map[string]func()
}

func (f *fakeModal) Show(id string, onClose func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, id)
	if f.onClose == nil {
		f.onClose = map[string]func(){}
	}
	f.onClose[id] = onClose
}

func (f *fakeModal) Close(id string) {
	f.mu.Lock()
	cb := f.onClose[id]
	delete(f.onClose, id)
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

type loggedIn struct{}

func (loggedIn) IsLoggedIn() bool { return true }

type fixture struct {
	repo    *mockRepo
	confirm *mockConfirmer
	notes   *notify.Recorder
	modal   *fakeModal
	view    *view.Controller
	wf      *Workflows
}

var writable = models.Group{Identifier: "g1", Name: "Registry", AccessRights: []string{"rw"}}

func newFixture(t *testing.T, group models.Group, workers int, reqs ...models.DispatchRequest) *fixture {
	t.Helper()
	f := &fixture{
		repo:    &mockRepo{},
		confirm: &mockConfirmer{},
		notes:   &notify.Recorder{},
		modal:   &fakeModal{},
	}
	tracer := tracenoop.NewTracerProvider().Tracer("")
	logger := zaptest.NewLogger(t).Sugar()
	f.repo.On("ListRequests", group.Identifier).
		Return(models.RequestPage{Total: len(reqs), Requests: reqs}, nil)
	f.view = view.NewController(f.repo, loggedIn{}, 50, tracer, logger)
	require.NoError(t, f.view.SetScope(context.Background(), group))

	wf, err := NewWorkflows(f.repo, f.view, f.notes, f.confirm, f.modal,
		config.Bulk{Workers: workers}, tracer, logger, metricnoop.NewMeterProvider().Meter(""))
	require.NoError(t, err)
	wf.ProgressWriter = io.Discard
	f.wf = wf
	return f
}

func draft(id string, day int) models.DispatchRequest {
	return models.DispatchRequest{
		Identifier:  id,
		DateCreated: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Files:       []models.File{{Identifier: "f-" + id, Name: "letter.pdf"}},
		Recipients:  []models.Recipient{{Identifier: "p-" + id, GivenName: "Grace"}},
	}
}

func submitted(id string) models.DispatchRequest {
	r := draft(id, 1)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.DateSubmitted = models.Timestamp{Time: at}
	return r
}

var validRecipient = models.RecipientFields{
	GivenName:       "Grace",
	FamilyName:      "Hopper",
	AddressCountry:  "AT",
	PostalCode:      "8010",
	AddressLocality: "Graz",
	StreetAddress:   "Herrengasse",
	BuildingNumber:  "16",
}

var mutations = []string{
	"CreateRequest", "UpdateRequestSender", "UpdateRequestSubject", "DeleteRequest",
	"SubmitRequest", "AddFile", "DeleteFile", "AddRecipient", "UpdateRecipient",
	"DeleteRecipient",
}

func (f *fixture) assertNoMutation(t *testing.T) {
	t.Helper()
	for _, c := range f.repo.Calls {
		assert.NotContains(t, mutations, c.Method)
	}
}

func TestSubmittedRequestIsImmutable(t *testing.T) {
	f := newFixture(t, writable, 1, submitted("r1"))
	ctx := context.Background()

	attempts := map[string]func() error{
		"delete":           func() error { return f.wf.DeleteRequest(ctx, "r1") },
		"submit":           func() error { return f.wf.SubmitRequest(ctx, "r1") },
		"add file":         func() error { return f.wf.AddFile(ctx, "r1", models.Upload{Name: "a.pdf", Data: []byte("x")}) },
		"delete file":      func() error { return f.wf.DeleteFile(ctx, "r1", "f-r1") },
		"add recipient":    func() error { return f.wf.AddRecipient(ctx, "r1", validRecipient) },
		"update recipient": func() error { return f.wf.UpdateRecipient(ctx, "r1", "p-r1", validRecipient) },
		"delete recipient": func() error { return f.wf.DeleteRecipient(ctx, "r1", "p-r1") },
		"edit sender":      func() error { return f.wf.EditSender(ctx, "r1", models.SenderFields{GivenName: "Ada"}) },
		"edit subject":     func() error { return f.wf.EditSubject(ctx, "r1", "Renamed") },
	}
	for name, attempt := range attempts {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, attempt(), ErrSubmitted)
		})
	}

	f.assertNoMutation(t)
	f.confirm.AssertNotCalled(t, "Confirm", mock.Anything)
	f.repo.AssertNumberOfCalls(t, "ListRequests", 1)
	assert.Equal(t, len(attempts), f.notes.Count(notify.Danger))
}

func TestSubmitNeedsFilesAndRecipients(t *testing.T) {
	noRecipients := draft("r1", 1)
	noRecipients.Recipients = nil
	noFiles := draft("r2", 2)
	noFiles.Files = nil
	f := newFixture(t, writable, 1, noRecipients, noFiles, draft("r3", 3))
	f.confirm.On("Confirm", mock.Anything).Return(true, nil)
	f.repo.On("SubmitRequest", "r3").Return(nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.wf.SubmitRequest(ctx, "r1"), ErrIncomplete)
	assert.ErrorIs(t, f.wf.SubmitRequest(ctx, "r2"), ErrIncomplete)
	assert.Equal(t, 2, f.notes.Count(notify.Warning))
	f.repo.AssertNotCalled(t, "SubmitRequest", mock.Anything)

	require.NoError(t, f.wf.SubmitRequest(ctx, "r3"))
	f.repo.AssertNumberOfCalls(t, "SubmitRequest", 1)
	last, _ := f.notes.Last()
	assert.Equal(t, success("submit_request"), last)
}

func TestDeleteCurrentRequestRevertsToList(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1), draft("r2", 2))
	f.confirm.On("Confirm", confirmPrompts["delete_request"]).Return(true, nil).Once()
	f.repo.On("DeleteRequest", "r1").Return(nil)
	ctx := context.Background()

	item, ok := f.view.Lookup("r1")
	require.True(t, ok)
	f.view.ShowDetail(item)

	require.NoError(t, f.wf.DeleteRequest(ctx, "r1"))

	f.confirm.AssertExpectations(t)
	f.repo.AssertNumberOfCalls(t, "DeleteRequest", 1)
	f.repo.AssertNumberOfCalls(t, "ListRequests", 2)
	last, _ := f.notes.Last()
	assert.Equal(t, notify.Success, last.Type)
	assert.Equal(t, "Request deleted", last.Summary)
	s := f.view.Snapshot()
	assert.Equal(t, view.ModeList, s.Mode)
	assert.Nil(t, s.Current)
}

func TestDeclinedConfirmationHasNoEffect(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	f.confirm.On("Confirm", mock.Anything).Return(false, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.wf.DeleteRequest(ctx, "r1"), ErrDeclined)
	assert.ErrorIs(t, f.wf.SubmitRequest(ctx, "r1"), ErrDeclined)
	assert.ErrorIs(t, f.wf.DeleteRecipient(ctx, "r1", "p-r1"), ErrDeclined)

	f.assertNoMutation(t)
	f.repo.AssertNumberOfCalls(t, "ListRequests", 1)
	assert.Empty(t, f.notes.All())
}

func TestAddRecipientRefreshesCurrent(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	fresh := draft("r1", 1)
	fresh.Recipients = append(fresh.Recipients, models.Recipient{Identifier: "p2", GivenName: "Grace", FamilyName: "Hopper"})
	f.repo.On("AddRecipient", "r1", validRecipient).Return(nil)
	f.repo.On("GetRequest", "r1").Return(fresh, nil)
	ctx := context.Background()

	item, _ := f.view.Lookup("r1")
	f.view.ShowDetail(item)
	require.NoError(t, f.wf.AddRecipient(ctx, "r1", validRecipient))

	notes := f.notes.All()
	require.Len(t, notes, 1)
	assert.Equal(t, success("add_recipient"), notes[0])
	cur, ok := f.view.Current()
	require.True(t, ok)
	assert.Equal(t, fresh, cur)
}

func TestAddFileResynchronizesWithServer(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	fresh := draft("r1", 1)
	fresh.Files = append(fresh.Files, models.File{Identifier: "f2", Name: "annex.pdf", ContentSize: 3})
	f.repo.On("AddFile", "r1", "annex.pdf").Return(nil)
	f.repo.On("GetRequest", "r1").Return(fresh, nil)

	item, _ := f.view.Lookup("r1")
	f.view.ShowDetail(item)
	require.NoError(t, f.wf.AddFile(context.Background(), "r1", models.Upload{Name: "annex.pdf", Data: []byte("abc")}))

	cur, _ := f.view.Current()
	assert.Equal(t, fresh, cur)
	f.repo.AssertNumberOfCalls(t, "GetRequest", 1)
}

func TestDetailChangeRefreshesTheChangedRequest(t *testing.T) {
	ctx := context.Background()
	upload := models.Upload{Name: "annex.pdf", Data: []byte("abc")}

	t.Run("another request is shown", func(t *testing.T) {
		f := newFixture(t, writable, 1, draft("rA", 2), draft("rB", 1))
		freshB := draft("rB", 1)
		freshB.Files = append(freshB.Files, models.File{Identifier: "f2", Name: "annex.pdf"})
		f.repo.On("AddFile", "rB", "annex.pdf").Return(nil)
		f.repo.On("GetRequest", "rB").Return(freshB, nil)

		shownA, _ := f.view.Lookup("rA")
		f.view.ShowDetail(shownA)
		require.NoError(t, f.wf.AddFile(ctx, "rB", upload))

		listed, _ := f.view.Lookup("rB")
		assert.Len(t, listed.Files, 2)
		cur, _ := f.view.Current()
		assert.Equal(t, shownA, cur)
		f.repo.AssertNotCalled(t, "GetRequest", "rA")
	})

	t.Run("list mode", func(t *testing.T) {
		f := newFixture(t, writable, 1, draft("rB", 1))
		freshB := draft("rB", 1)
		freshB.Name = "Renamed"
		f.repo.On("UpdateRequestSubject", "rB", "Renamed").Return(nil)
		f.repo.On("GetRequest", "rB").Return(freshB, nil)

		require.NoError(t, f.wf.EditSubject(ctx, "rB", "Renamed"))

		listed, _ := f.view.Lookup("rB")
		assert.Equal(t, "Renamed", listed.Name)
		assert.Equal(t, view.ModeList, f.view.Snapshot().Mode)
		f.repo.AssertNumberOfCalls(t, "GetRequest", 1)
	})
}

func TestBackendRejectionLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	f.repo.On("UpdateRequestSubject", "r1", "Renamed").
		Return(&repository.StatusError{Op: "update_request_subject", StatusCode: http.StatusInternalServerError})

	item, _ := f.view.Lookup("r1")
	f.view.ShowDetail(item)
	before := f.view.Snapshot()

	err := f.wf.EditSubject(context.Background(), "r1", "Renamed")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, repository.StatusCode(err))

	last, _ := f.notes.Last()
	assert.Equal(t, notify.Danger, last.Type)
	assert.Contains(t, last.Body, "500")
	f.repo.AssertNotCalled(t, "GetRequest", mock.Anything)
	assert.Equal(t, before, f.view.Snapshot())
}

func TestTransportFailureIsReported(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	f.repo.On("DeleteFile", "f-r1").Return(io.ErrUnexpectedEOF)

	err := f.wf.DeleteFile(context.Background(), "r1", "f-r1")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	last, _ := f.notes.Last()
	assert.Equal(t, notify.Danger, last.Type)
	assert.Equal(t, failure(io.ErrUnexpectedEOF), last)
}

func TestPreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("read-only group", func(t *testing.T) {
		ro := models.Group{Identifier: "g2", AccessRights: []string{"r"}}
		f := newFixture(t, ro, 1, draft("r1", 1))
		assert.ErrorIs(t, f.wf.DeleteRequest(ctx, "r1"), ErrReadOnly)
		_, err := f.wf.CreateRequest(ctx, "New", models.SenderFields{})
		assert.ErrorIs(t, err, ErrReadOnly)
		f.assertNoMutation(t)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		f := newFixture(t, writable, 1, draft("r1", 1))
		err := f.wf.AddRecipient(ctx, "r1", models.RecipientFields{GivenName: "Grace", AddressCountry: "Austria"})
		assert.ErrorIs(t, err, ErrInvalid)
		last, _ := f.notes.Last()
		assert.Equal(t, notify.Warning, last.Type)
		assert.Contains(t, last.Body, "familyName")
		assert.Contains(t, last.Body, "addressCountry")
		f.assertNoMutation(t)
	})

	t.Run("empty upload", func(t *testing.T) {
		f := newFixture(t, writable, 1, draft("r1", 1))
		assert.ErrorIs(t, f.wf.AddFile(ctx, "r1", models.Upload{Name: "empty.pdf"}), ErrInvalid)
		f.assertNoMutation(t)
	})

	t.Run("unknown ids", func(t *testing.T) {
		f := newFixture(t, writable, 1, draft("r1", 1))
		assert.ErrorIs(t, f.wf.DeleteRequest(ctx, "nope"), ErrNotFound)
		assert.ErrorIs(t, f.wf.DeleteFile(ctx, "r1", "nope"), ErrNotFound)
		assert.ErrorIs(t, f.wf.UpdateRecipient(ctx, "r1", "nope", validRecipient), ErrNotFound)
		f.assertNoMutation(t)
	})
}

// blockingConfirmer holds the first confirmation until release is closed.
type blockingConfirmer struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingConfirmer) Confirm(context.Context, string) (bool, error) {
	close(b.entered)
	<-b.release
	return true, nil
}

func TestSameActionIsNotRunTwice(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	blocker := &blockingConfirmer{entered: make(chan struct{}), release: make(chan struct{})}
	f.wf.confirm = blocker
	f.repo.On("DeleteRequest", "r1").Return(nil)

	done := make(chan error)
	go func() { done <- f.wf.DeleteRequest(context.Background(), "r1") }()
	<-blocker.entered

	assert.ErrorIs(t, f.wf.DeleteRequest(context.Background(), "r1"), ErrInFlight)

	close(blocker.release)
	require.NoError(t, <-done)
	f.repo.AssertNumberOfCalls(t, "DeleteRequest", 1)
}

func TestCreateRequestShowsNewItem(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))
	created := models.DispatchRequest{Identifier: "new", Name: "Exam"}
	sender := models.SenderFields{GivenName: "Ada", AddressCountry: "AT"}
	f.repo.On("CreateRequest", "g1", "Exam", sender).Return(created, nil)

	got, err := f.wf.CreateRequest(context.Background(), "Exam", sender)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Identifier)
	f.repo.AssertNumberOfCalls(t, "ListRequests", 2)
	s := f.view.Snapshot()
	assert.Equal(t, view.ModeDetail, s.Mode)
	assert.Equal(t, "new", s.Current.Identifier)
}

func TestOpenRecipient(t *testing.T) {
	f := newFixture(t, writable, 1, submitted("r1"))
	detail := models.Recipient{Identifier: "p-r1", GivenName: "Grace", StatusDescription: "delivered"}
	f.repo.On("GetRecipientDetail", "p-r1").Return(detail, nil)

	rec, err := f.wf.OpenRecipient(context.Background(), "r1", "p-r1")
	require.NoError(t, err)
	assert.Equal(t, "delivered", rec.StatusDescription)
	require.NotNil(t, f.view.Snapshot().CurrentRecipient)
	assert.Equal(t, []string{RecipientDialog}, f.modal.shown)

	f.modal.Close(RecipientDialog)
	assert.Nil(t, f.view.Snapshot().CurrentRecipient)
}

func TestBulkSubmitContinuesPastFailures(t *testing.T) {
	reqs := []models.DispatchRequest{
		draft("r1", 5), draft("r2", 4), draft("r3", 3), draft("r4", 2), draft("r5", 1),
	}
	f := newFixture(t, writable, 1, reqs...)
	f.confirm.On("Confirm", bulkPrompt("submit_request", 5)).Return(true, nil).Once()
	for _, r := range reqs {
		var err error
		if r.Identifier == "r3" {
			err = &repository.StatusError{Op: "submit_request", StatusCode: http.StatusInternalServerError}
		}
		f.repo.On("SubmitRequest", r.Identifier).Return(err).Once()
	}
	f.view.SetSelection([]string{"r1", "r2", "r3", "r4", "r5"})

	report, err := f.wf.SubmitSelected(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"r1", "r2", "r4", "r5"}, report.Succeeded())
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "r3", failed[0].ID)
	assert.Equal(t, http.StatusInternalServerError, repository.StatusCode(failed[0].Err))

	f.confirm.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.repo.AssertNumberOfCalls(t, "ListRequests", 1+4)
	assert.Equal(t, 4, f.notes.Count(notify.Success))
	assert.Equal(t, 1, f.notes.Count(notify.Danger))
}

func TestBulkDeleteSkipsSubmittedRows(t *testing.T) {
	f := newFixture(t, writable, 3, draft("r1", 2), submitted("r2"))
	f.confirm.On("Confirm", mock.Anything).Return(true, nil).Once()
	f.repo.On("DeleteRequest", "r1").Return(nil).Once()
	f.view.SetSelection([]string{"r1", "r2"})

	report, err := f.wf.DeleteSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, report.Succeeded())
	require.Len(t, report.Failed(), 1)
	assert.ErrorIs(t, report.Failed()[0].Err, ErrSubmitted)
	f.repo.AssertNotCalled(t, "DeleteRequest", "r2")
}

func TestBulkNeedsSelection(t *testing.T) {
	f := newFixture(t, writable, 1, draft("r1", 1))

	_, err := f.wf.SubmitSelected(context.Background())
	assert.ErrorIs(t, err, ErrNothingSelected)
	f.confirm.AssertNotCalled(t, "Confirm", mock.Anything)
}
