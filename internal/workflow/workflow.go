// Package workflow implements the user actions that change dispatch
// requests. Each action checks its preconditions locally, asks for
// confirmation when it is destructive, issues exactly one backend call and,
// on success, notifies the user and resynchronizes the view from the server.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync"

	ET "github.com/IBM/fp-go/v2/either"
	IOE "github.com/IBM/fp-go/v2/ioeither"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
	T "github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/typing"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/view"
)

var (
	ErrSubmitted       = errors.New("request is already submitted")
	ErrIncomplete      = errors.New("request needs at least one file and one recipient")
	ErrReadOnly        = errors.New("organization group is read-only")
	ErrInvalid         = errors.New("invalid input")
	ErrInFlight        = errors.New("action already in progress")
	ErrDeclined        = errors.New("confirmation declined")
	ErrNotFound        = errors.New("not found")
	ErrNothingSelected = errors.New("no rows selected")
)

// Repository is the backend the workflows mutate.
type Repository interface {
	CreateRequest(ctx context.Context, groupID, name string, sender models.SenderFields) IOE.IOEither[error, models.DispatchRequest]
	UpdateRequestSender(ctx context.Context, id string, sender models.SenderFields) IOE.IOEither[error, T.Unit]
	UpdateRequestSubject(ctx context.Context, id, subject string) IOE.IOEither[error, T.Unit]
	DeleteRequest(ctx context.Context, id string) IOE.IOEither[error, T.Unit]
	SubmitRequest(ctx context.Context, id string) IOE.IOEither[error, T.Unit]
	AddFile(ctx context.Context, requestID string, upload models.Upload) IOE.IOEither[error, T.Unit]
	DeleteFile(ctx context.Context, fileID string) IOE.IOEither[error, T.Unit]
	AddRecipient(ctx context.Context, requestID string, fields models.RecipientFields) IOE.IOEither[error, T.Unit]
	UpdateRecipient(ctx context.Context, recipientID, requestID string, fields models.RecipientFields) IOE.IOEither[error, T.Unit]
	DeleteRecipient(ctx context.Context, recipientID string) IOE.IOEither[error, T.Unit]
	GetRecipientDetail(ctx context.Context, recipientID string) IOE.IOEither[error, models.Recipient]
}

// View is the state the workflows read preconditions from and refresh.
type View interface {
	Lookup(id string) (models.DispatchRequest, bool)
	Scope() models.Group
	Selection() []string
	ShowDetail(item models.DispatchRequest)
	SelectRecipient(r models.Recipient)
	ClearRecipient()
	Deselect(id string) bool
	RefreshList(ctx context.Context) error
	RefreshRequest(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Modal shows a dialog by id. onClose runs when the dialog is closed.
type Modal interface {
	Show(dialogID string, onClose func())
	Close(dialogID string)
}

const RecipientDialog = "recipient"

type Workflows struct {
	repo     Repository
	view     View
	notifier notify.Notifier
	confirm  Confirmer
	modal    Modal
	validate *validator.Validate
	workers  int

	mu       sync.Mutex
	inFlight map[string]bool

	ProgressWriter io.Writer
	Logger         *zap.SugaredLogger
	Tracer         trace.Tracer
	Meter          metric.Meter
	runs           metric.Int64Counter
	bulkRows       metric.Int64Counter
}

func NewWorkflows(
	repo Repository,
	v View,
	notifier notify.Notifier,
	confirm Confirmer,
	modal Modal,
	cfg config.Bulk,
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
	meter metric.Meter,
) (*Workflows, error) {
	w := &Workflows{
		repo:           repo,
		view:           v,
		notifier:       notifier,
		confirm:        confirm,
		modal:          modal,
		validate:       newValidator(),
		workers:        max(cfg.Workers, 1),
		inFlight:       map[string]bool{},
		ProgressWriter: os.Stdout,
		Logger:         logger,
		Tracer:         tracer,
		Meter:          meter,
	}

	var err error

	w.runs, err = meter.Int64Counter(
		"workflow.runs",
		metric.WithDescription("Workflow runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	w.bulkRows, err = meter.Int64Counter(
		"workflow.bulk.rows",
		metric.WithDescription("Rows processed by bulk workflows by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// step is one mutation after its preconditions passed.
type step struct {
	name    string
	id      string
	confirm string
	call    func(ctx context.Context) error
	success notify.Notification
	refresh func(ctx context.Context) error
}

const (
	outcomeSuccess  = "success"
	outcomeFailed   = "failed"
	outcomeRejected = "rejected"
	outcomeDeclined = "declined"
	outcomeBusy     = "busy"
)

func (w *Workflows) record(ctx context.Context, name, outcome string) {
	w.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", name),
		attribute.String("outcome", outcome),
	))
}

func (w *Workflows) begin(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[key] {
		return false
	}
	w.inFlight[key] = true
	return true
}

func (w *Workflows) end(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, key)
}

// run drives s through confirmation, the backend call and the refresh.
func (w *Workflows) run(ctx context.Context, s step) error {
	ctx, span := w.Tracer.Start(ctx, "workflow."+s.name, trace.WithAttributes(
		attribute.String("id", s.id),
	))
	defer span.End()

	key := s.name + ":" + s.id
	if !w.begin(key) {
		w.Logger.Debugw("Workflow already in flight", "workflow", s.name, "id", s.id)
		w.record(ctx, s.name, outcomeBusy)
		return ErrInFlight
	}
	defer w.end(key)

	if s.confirm != "" {
		ok, err := w.confirm.Confirm(ctx, s.confirm)
		if err != nil {
			w.record(ctx, s.name, outcomeDeclined)
			return fmt.Errorf("%s: confirm: %w", s.name, err)
		}
		if !ok {
			w.Logger.Infow("Workflow declined", "workflow", s.name, "id", s.id)
			w.record(ctx, s.name, outcomeDeclined)
			return ErrDeclined
		}
	}

	if err := s.call(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.Logger.Errorw("Workflow failed", "workflow", s.name, "id", s.id, "err", err)
		w.record(ctx, s.name, outcomeFailed)
		w.notifier.Notify(failure(err))
		return fmt.Errorf("%s %s: %w", s.name, s.id, err)
	}

	w.record(ctx, s.name, outcomeSuccess)
	w.Logger.Infow("Workflow succeeded", "workflow", s.name, "id", s.id)
	w.notifier.Notify(s.success)

	if s.refresh != nil {
		if err := s.refresh(ctx); err != nil {
			w.Logger.Warnw("Refresh after workflow failed", "workflow", s.name, "id", s.id, "err", err)
			w.notifier.Notify(refreshFailed())
		}
	}
	return nil
}

// reject reports a failed precondition without touching the backend.
func (w *Workflows) reject(ctx context.Context, name string, n notify.Notification, err error) error {
	w.Logger.Infow("Workflow rejected", "workflow", name, "reason", err)
	w.record(ctx, name, outcomeRejected)
	w.notifier.Notify(n)
	return err
}

// writable checks that the selected group may be changed.
func (w *Workflows) writable(ctx context.Context, name string) error {
	scope := w.view.Scope()
	if scope.Identifier == "" {
		return w.reject(ctx, name, noScope(), view.ErrNoScope)
	}
	if !scope.MayWrite() {
		return w.reject(ctx, name, readOnly(), ErrReadOnly)
	}
	return nil
}

// mutable returns request id when it may still be changed.
func (w *Workflows) mutable(ctx context.Context, name, id string) (models.DispatchRequest, error) {
	if err := w.writable(ctx, name); err != nil {
		return models.DispatchRequest{}, err
	}
	req, ok := w.view.Lookup(id)
	if !ok {
		return req, w.reject(ctx, name, unknownRequest(id), fmt.Errorf("request %s: %w", id, ErrNotFound))
	}
	if req.IsSubmitted() {
		return req, w.reject(ctx, name, alreadySubmitted(), ErrSubmitted)
	}
	return req, nil
}

func (w *Workflows) check(ctx context.Context, name string, form any) error {
	if err := w.validate.Struct(form); err != nil {
		return w.reject(ctx, name, invalidForm(fieldNames(err)), fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return nil
}

func fieldNames(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return names
}

// listChanged reverts the view when id was shown and reloads the list.
func (w *Workflows) listChanged(id string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if w.view.Deselect(id) {
			w.Logger.Debugw("Current request left, showing list", "id", id)
		}
		return w.view.RefreshList(ctx)
	}
}

// requestChanged re-fetches request id, whether it is shown or only listed.
func (w *Workflows) requestChanged(id string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return w.view.RefreshRequest(ctx, id)
	}
}

func exec[A any](op IOE.IOEither[error, A]) (A, error) {
	return ET.UnwrapError(op())
}
