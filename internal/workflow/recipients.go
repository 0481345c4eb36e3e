package workflow

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

func (w *Workflows) AddRecipient(ctx context.Context, id string, fields models.RecipientFields) error {
	const name = "add_recipient"
	if _, err := w.mutable(ctx, name, id); err != nil {
		return err
	}
	if err := w.check(ctx, name, fields); err != nil {
		return err
	}
	return w.run(ctx, step{
		name: name,
		id:   id,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.AddRecipient(ctx, id, fields))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}

func (w *Workflows) UpdateRecipient(
	ctx context.Context,
	id, recipientID string,
	fields models.RecipientFields,
) error {
	const name = "update_recipient"
	if _, err := w.recipientOf(ctx, name, id, recipientID); err != nil {
		return err
	}
	if err := w.check(ctx, name, fields); err != nil {
		return err
	}
	return w.run(ctx, step{
		name: name,
		id:   recipientID,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.UpdateRecipient(ctx, recipientID, id, fields))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}

// DeleteRecipient removes the recipient after confirmation and closes its
// dialog.
func (w *Workflows) DeleteRecipient(ctx context.Context, id, recipientID string) error {
	const name = "delete_recipient"
	if _, err := w.recipientOf(ctx, name, id, recipientID); err != nil {
		return err
	}
	return w.run(ctx, step{
		name:    name,
		id:      recipientID,
		confirm: confirmPrompts[name],
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.DeleteRecipient(ctx, recipientID))
			return err
		},
		success: success(name),
		refresh: func(ctx context.Context) error {
			w.modal.Close(RecipientDialog)
			w.view.ClearRecipient()
			return w.requestChanged(id)(ctx)
		},
	})
}

func (w *Workflows) recipientOf(ctx context.Context, name, id, recipientID string) (models.Recipient, error) {
	req, err := w.mutable(ctx, name, id)
	if err != nil {
		return models.Recipient{}, err
	}
	rec, ok := req.Recipient(recipientID)
	if !ok {
		return rec, w.reject(ctx, name, unknownItem("recipient", recipientID),
			fmt.Errorf("recipient %s: %w", recipientID, ErrNotFound))
	}
	return rec, nil
}

// OpenRecipient loads the recipient with its delivery status, makes it the
// current recipient and shows the recipient dialog. Closing the dialog
// clears the current recipient. Submitted requests may be inspected too.
func (w *Workflows) OpenRecipient(ctx context.Context, id, recipientID string) (models.Recipient, error) {
	const name = "open_recipient"
	ctx, span := w.Tracer.Start(ctx, "workflow."+name, trace.WithAttributes(
		attribute.String("id", recipientID),
	))
	defer span.End()

	req, ok := w.view.Lookup(id)
	if !ok {
		return models.Recipient{}, w.reject(ctx, name, unknownRequest(id),
			fmt.Errorf("request %s: %w", id, ErrNotFound))
	}
	if _, ok := req.Recipient(recipientID); !ok {
		return models.Recipient{}, w.reject(ctx, name, unknownItem("recipient", recipientID),
			fmt.Errorf("recipient %s: %w", recipientID, ErrNotFound))
	}

	rec, err := exec(w.repo.GetRecipientDetail(ctx, recipientID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.record(ctx, name, outcomeFailed)
		w.notifier.Notify(failure(err))
		return models.Recipient{}, fmt.Errorf("%s %s: %w", name, recipientID, err)
	}
	w.record(ctx, name, outcomeSuccess)
	w.view.SelectRecipient(rec)
	w.modal.Show(RecipientDialog, w.view.ClearRecipient)
	return rec, nil
}
