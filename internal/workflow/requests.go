package workflow

import (
	"context"
	"fmt"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

type subjectForm struct {
	Name string `json:"name" validate:"max=255"`
}

// CreateRequest creates a request in the selected group and shows it.
func (w *Workflows) CreateRequest(
	ctx context.Context,
	subject string,
	sender models.SenderFields,
) (models.DispatchRequest, error) {
	const name = "create_request"
	if err := w.writable(ctx, name); err != nil {
		return models.DispatchRequest{}, err
	}
	if err := w.check(ctx, name, subjectForm{Name: subject}); err != nil {
		return models.DispatchRequest{}, err
	}
	if err := w.check(ctx, name, sender); err != nil {
		return models.DispatchRequest{}, err
	}
	groupID := w.view.Scope().Identifier

	var created models.DispatchRequest
	err := w.run(ctx, step{
		name: name,
		id:   groupID,
		call: func(ctx context.Context) (err error) {
			created, err = exec(w.repo.CreateRequest(ctx, groupID, subject, sender))
			return err
		},
		success: success(name),
		refresh: func(ctx context.Context) error {
			err := w.view.RefreshList(ctx)
			if fresh, ok := w.view.Lookup(created.Identifier); ok {
				created = fresh
			}
			w.view.ShowDetail(created)
			return err
		},
	})
	return created, err
}

func (w *Workflows) EditSender(ctx context.Context, id string, sender models.SenderFields) error {
	const name = "edit_sender"
	if _, err := w.mutable(ctx, name, id); err != nil {
		return err
	}
	if err := w.check(ctx, name, sender); err != nil {
		return err
	}
	return w.run(ctx, step{
		name: name,
		id:   id,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.UpdateRequestSender(ctx, id, sender))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}

func (w *Workflows) EditSubject(ctx context.Context, id, subject string) error {
	const name = "edit_subject"
	if _, err := w.mutable(ctx, name, id); err != nil {
		return err
	}
	if err := w.check(ctx, name, subjectForm{Name: subject}); err != nil {
		return err
	}
	return w.run(ctx, step{
		name: name,
		id:   id,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.UpdateRequestSubject(ctx, id, subject))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}

// DeleteRequest deletes id after confirmation. The view leaves the detail
// of id and the list is reloaded.
func (w *Workflows) DeleteRequest(ctx context.Context, id string) error {
	const name = "delete_request"
	if _, err := w.mutable(ctx, name, id); err != nil {
		return err
	}
	return w.run(ctx, w.deleteStep(id, confirmPrompts[name]))
}

func (w *Workflows) deleteStep(id, prompt string) step {
	const name = "delete_request"
	return step{
		name:    name,
		id:      id,
		confirm: prompt,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.DeleteRequest(ctx, id))
			return err
		},
		success: success(name),
		refresh: w.listChanged(id),
	}
}

// SubmitRequest submits id after confirmation. Requests without files or
// recipients are refused.
func (w *Workflows) SubmitRequest(ctx context.Context, id string) error {
	const name = "submit_request"
	req, err := w.mutable(ctx, name, id)
	if err != nil {
		return err
	}
	if err := w.submittable(ctx, req); err != nil {
		return err
	}
	return w.run(ctx, w.submitStep(id, confirmPrompts[name]))
}

func (w *Workflows) submittable(ctx context.Context, req models.DispatchRequest) error {
	if !req.CanSubmit() {
		return w.reject(ctx, "submit_request", incomplete(),
			fmt.Errorf("request %s: %w", req.Identifier, ErrIncomplete))
	}
	return nil
}

func (w *Workflows) submitStep(id, prompt string) step {
	const name = "submit_request"
	return step{
		name:    name,
		id:      id,
		confirm: prompt,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.SubmitRequest(ctx, id))
			return err
		},
		success: success(name),
		refresh: w.listChanged(id),
	}
}
