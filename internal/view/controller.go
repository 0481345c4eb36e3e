package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	ET "github.com/IBM/fp-go/v2/either"
	IOE "github.com/IBM/fp-go/v2/ioeither"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/session"
)

var ErrNoScope = errors.New("no organization group selected")

type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "detail"
	}
	return "list"
}

// State is a snapshot of the view. Slices and pointers are copies and may be
// kept by the caller.
type State struct {
	Mode             Mode
	Current          *models.DispatchRequest
	CurrentRecipient *models.Recipient
	Requests         []models.DispatchRequest
	Total            int
	Loading          bool
	InitialFetchDone bool
	RowsSelected     bool
	Scope            models.Group
}

// Source reads dispatch requests from the backend.
type Source interface {
	ListRequests(ctx context.Context, filter models.ListFilter) IOE.IOEither[error, models.RequestPage]
	GetRequest(ctx context.Context, id string) IOE.IOEither[error, models.DispatchRequest]
}

type LoginState interface {
	IsLoggedIn() bool
}

// Controller owns the view state. Transitions are atomic with respect to
// Snapshot, and fetched data is only applied once its call resolved.
type Controller struct {
	mu               sync.Mutex
	mode             Mode
	current          *models.DispatchRequest
	currentRecipient *models.Recipient
	requests         []models.DispatchRequest
	total            int
	loading          int
	initialFetchDone bool
	selection        []string
	scope            models.Group
	generation       int

	source  Source
	login   LoginState
	perPage int
	Logger  *zap.SugaredLogger
	Tracer  trace.Tracer
}

func NewController(
	source Source,
	login LoginState,
	perPage int,
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
) *Controller {
	return &Controller{
		source:  source,
		login:   login,
		perPage: perPage,
		Logger:  logger,
		Tracer:  tracer,
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Mode:             c.mode,
		Requests:         slices.Clone(c.requests),
		Total:            c.total,
		Loading:          c.loading > 0,
		InitialFetchDone: c.initialFetchDone,
		RowsSelected:     len(c.selection) > 0,
		Scope:            c.scope,
	}
	if c.current != nil {
		cur := *c.current
		s.Current = &cur
	}
	if c.currentRecipient != nil {
		rec := *c.currentRecipient
		s.CurrentRecipient = &rec
	}
	return s
}

// Current returns the request shown in detail mode.
func (c *Controller) Current() (models.DispatchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.DispatchRequest{}, false
	}
	return *c.current, true
}

// Lookup finds id in the current item or the last fetched list.
func (c *Controller) Lookup(id string) (models.DispatchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.Identifier == id {
		return *c.current, true
	}
	for _, r := range c.requests {
		if r.Identifier == id {
			return r, true
		}
	}
	return models.DispatchRequest{}, false
}

func (c *Controller) Scope() models.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// ShowList switches to list mode, drops the current selections and fetches
// the list again.
func (c *Controller) ShowList(ctx context.Context) error {
	c.mu.Lock()
	c.mode = ModeList
	c.current = nil
	c.currentRecipient = nil
	c.mu.Unlock()
	return c.RefreshList(ctx)
}

// ShowDetail switches to detail mode on item as last fetched; it is not
// fetched again.
func (c *Controller) ShowDetail(item models.DispatchRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeDetail
	c.current = &item
	c.currentRecipient = nil
}

func (c *Controller) SelectRecipient(r models.Recipient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRecipient = &r
}

func (c *Controller) ClearRecipient() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentRecipient = nil
}

// SetSelection marks the rows bulk actions apply to. Unknown ids are dropped.
func (c *Controller) SetSelection(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = c.known(ids)
}

func (c *Controller) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.selection)
}

func (c *Controller) known(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(out, id) {
			continue
		}
		if slices.ContainsFunc(c.requests, func(r models.DispatchRequest) bool {
			return r.Identifier == id
		}) {
			out = append(out, id)
		}
	}
	return out
}

// SetScope switches the organization group. The list is reset and fetched
// again for the new group.
func (c *Controller) SetScope(ctx context.Context, group models.Group) error {
	c.mu.Lock()
	c.scope = group
	c.generation++
	c.mode = ModeList
	c.current = nil
	c.currentRecipient = nil
	c.requests = nil
	c.total = 0
	c.selection = nil
	c.initialFetchDone = false
	c.mu.Unlock()
	c.Logger.Infow("Organization group selected", "group_id", group.Identifier)
	return c.Activate(ctx)
}

// Activate fetches the list once when the view becomes visible with a
// logged-in user and a group selected. Later calls do nothing.
func (c *Controller) Activate(ctx context.Context) error {
	if c.login == nil || !c.login.IsLoggedIn() {
		return session.ErrNotLoggedIn
	}
	c.mu.Lock()
	skip := c.scope.Identifier == "" || c.initialFetchDone || c.loading > 0
	c.mu.Unlock()
	if skip {
		return nil
	}
	return c.RefreshList(ctx)
}

// RefreshList fetches the list of the current group and orders it by
// creation date, newest first.
func (c *Controller) RefreshList(ctx context.Context) error {
	if c.login == nil || !c.login.IsLoggedIn() {
		return session.ErrNotLoggedIn
	}
	c.mu.Lock()
	scope := c.scope
	gen := c.generation
	if scope.Identifier == "" {
		c.mu.Unlock()
		return ErrNoScope
	}
	c.loading++
	c.mu.Unlock()

	ctx, span := c.Tracer.Start(ctx, "view.refresh_list",
		trace.WithAttributes(attribute.String("group_id", scope.Identifier)))
	defer span.End()

	page, err := ET.UnwrapError(c.source.ListRequests(ctx, models.ListFilter{
		GroupID: scope.Identifier,
		PerPage: c.perPage,
	})())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if gen == c.generation {
		// a failed first fetch counts as done; Activate does not retry it
		c.initialFetchDone = true
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("refresh list: %w", err)
	}
	if gen != c.generation {
		c.Logger.Debugw("Dropping list of previous group", "group_id", scope.Identifier)
		return nil
	}
	SortByDateCreated(page.Requests)
	c.requests = page.Requests
	c.total = page.Total
	c.initialFetchDone = true
	c.selection = c.known(c.selection)
	span.SetAttributes(attribute.Int("requests", len(page.Requests)))
	c.Logger.Debugw("List refreshed", "group_id", scope.Identifier, "total", page.Total)
	return nil
}

// RefreshCurrent replaces the current item with the server's copy. It does
// nothing outside detail mode.
func (c *Controller) RefreshCurrent(ctx context.Context) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	id := c.current.Identifier
	c.mu.Unlock()
	return c.RefreshRequest(ctx, id)
}

// RefreshRequest replaces request id with the server's copy wherever the view
// holds it: the current item and its list row.
func (c *Controller) RefreshRequest(ctx context.Context, id string) error {
	c.mu.Lock()
	c.loading++
	c.mu.Unlock()

	ctx, span := c.Tracer.Start(ctx, "view.refresh_request",
		trace.WithAttributes(attribute.String("request_id", id)))
	defer span.End()

	fresh, err := ET.UnwrapError(c.source.GetRequest(ctx, id)())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("refresh request %s: %w", id, err)
	}
	if c.current != nil && c.current.Identifier == id {
		c.current = &fresh
	}
	for i := range c.requests {
		if c.requests[i].Identifier == id {
			c.requests[i] = fresh
		}
	}
	return nil
}

// Deselect removes id from the current item and the selection. The view
// returns to list mode when id was the current item.
func (c *Controller) Deselect(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = slices.DeleteFunc(c.selection, func(s string) bool { return s == id })
	if c.current == nil || c.current.Identifier != id {
		return false
	}
	c.mode = ModeList
	c.current = nil
	c.currentRecipient = nil
	return true
}
