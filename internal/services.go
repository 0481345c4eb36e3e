package internal

import (
	"context"
	"fmt"
	"io"
	"strings"

	ET "github.com/IBM/fp-go/v2/either"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/console"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/filepicker"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/grid"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/notify"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/repository"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/session"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/view"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/workflow"
)

// Services is the dispatch requests view with its capabilities wired to the
// terminal.
type Services struct {
	Session   LoginStateInterface
	Client    *repository.Client
	Groups    GroupListerInterface
	View      *view.Controller
	Grid      *grid.Grid
	Picker    FilePickerInterface
	Workflows *workflow.Workflows
	Notifier  notify.Notifier
	Modal     *console.Modal
	Logger    *zap.SugaredLogger
}

func InitServices(
	ctx context.Context,
	cfg config.Config,
	in io.Reader,
	out io.Writer,
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
	meter metric.Meter,
) (*Services, error) {
	token, err := cfg.Auth.BearerToken()
	if err != nil {
		return nil, err
	}
	sess := session.New(token)

	client, err := repository.NewClient(cfg.Server, sess, tracer, logger, meter)
	if err != nil {
		return nil, err
	}

	var objects filepicker.ObjectGetter
	s3Client, err := filepicker.NewS3Client(ctx, cfg.Storage.S3)
	if err != nil {
		logger.Warnw("S3 storage unavailable, only local files can be picked", "err", err)
	} else {
		objects = s3Client
	}
	picker, err := filepicker.NewPicker(objects, tracer, logger, meter)
	if err != nil {
		return nil, err
	}

	controller := view.NewController(client, sess, cfg.Server.PerPage, tracer, logger)
	notifier := &console.Notifier{Out: out, Logger: logger}
	modal := &console.Modal{Out: out}
	confirmer := &console.Confirmer{In: in, Out: out, AssumeYes: cfg.UI.AssumeYes}

	wf, err := workflow.NewWorkflows(client, controller, notifier, confirmer, modal,
		cfg.Bulk, tracer, logger, meter)
	if err != nil {
		return nil, err
	}
	wf.ProgressWriter = out

	s := &Services{
		Session:   sess,
		Client:    client,
		Groups:    client,
		View:      controller,
		Grid:      grid.New(),
		Picker:    picker,
		Workflows: wf,
		Notifier:  notifier,
		Modal:     modal,
		Logger:    logger,
	}
	s.Grid.OnRowClick = func(row view.Row) {
		if req, ok := controller.Lookup(row.Identifier); ok {
			controller.ShowDetail(req)
		}
	}
	s.Grid.OnDataLoaded = func(rows []view.Row) {
		logger.Debugw("Grid data loaded", "rows", len(rows))
	}
	modal.Renderers = map[string]func(io.Writer){
		workflow.RecipientDialog: s.renderRecipient,
	}
	return s, nil
}

// Open shows the view for groupID, or for the only group the user belongs
// to when groupID is empty, and loads its list into the grid.
func (s *Services) Open(ctx context.Context, groupID string) error {
	if !s.Session.IsLoggedIn() {
		s.Notifier.Notify(notify.Notification{
			Summary: "Not logged in",
			Body:    "Please log in to see dispatch requests.",
			Type:    notify.Warning,
		})
		return session.ErrNotLoggedIn
	}
	groups, err := ET.UnwrapError(s.Groups.ListGroups(ctx)())
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	group, err := pickGroup(groups, groupID)
	if err != nil {
		return err
	}
	if err := s.View.SetScope(ctx, group); err != nil {
		return err
	}
	s.SyncGrid()
	return nil
}

// SyncGrid hands the controller's current list to the grid.
func (s *Services) SyncGrid() {
	s.Grid.SetData(view.Rows(s.View.Snapshot().Requests))
}

func pickGroup(groups []models.Group, groupID string) (models.Group, error) {
	if groupID == "" {
		readable := make([]models.Group, 0, len(groups))
		for _, g := range groups {
			if g.MayRead() {
				readable = append(readable, g)
			}
		}
		if len(readable) == 1 {
			return readable[0], nil
		}
		return models.Group{}, fmt.Errorf("%w: choose one of %s", view.ErrNoScope, groupNames(readable))
	}
	for _, g := range groups {
		if g.Identifier == groupID {
			return g, nil
		}
	}
	return models.Group{}, fmt.Errorf("unknown organization group %q", groupID)
}

func groupNames(groups []models.Group) string {
	if len(groups) == 0 {
		return "(none)"
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = fmt.Sprintf("%s (%s)", g.Identifier, g.Name)
	}
	return strings.Join(names, ", ")
}

func (s *Services) renderRecipient(w io.Writer) {
	rec := s.View.Snapshot().CurrentRecipient
	if rec == nil {
		return
	}
	fmt.Fprintf(w, "Name:     %s\n", rec.FullName())
	fmt.Fprintf(w, "Address:  %s\n", rec.Address())
	if rec.BirthDate != "" {
		fmt.Fprintf(w, "Born:     %s\n", rec.BirthDate)
	}
	status := rec.StatusDescription
	if status == "" {
		status = "-"
	}
	fmt.Fprintf(w, "Status:   %s\n", status)
}
