package repository

import (
	"context"
	"net/http"

	F "github.com/IBM/fp-go/v2/function"
	IOE "github.com/IBM/fp-go/v2/ioeither"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	T "github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/typing"
)

func recipientPath(id ...string) []string {
	return append([]string{"dispatch", "request-recipients"}, id...)
}

type recipientPayload struct {
	models.RecipientFields
	DispatchRequestIdentifier string `json:"dispatchRequestIdentifier"`
}

func (c *Client) AddRecipient(
	ctx context.Context,
	requestID string,
	fields models.RecipientFields,
) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "add_recipient",
			method: http.MethodPost,
			path:   recipientPath(),
			body: jsonBody(contentTypeJSONLD, recipientPayload{
				RecipientFields:           fields,
				DispatchRequestIdentifier: requestID,
			}),
			expect: []int{http.StatusCreated},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) UpdateRecipient(
	ctx context.Context,
	recipientID, requestID string,
	fields models.RecipientFields,
) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "update_recipient",
			method: http.MethodPatch,
			path:   recipientPath(recipientID),
			body: jsonBody(contentTypeMergePatch, recipientPayload{
				RecipientFields:           fields,
				DispatchRequestIdentifier: requestID,
			}),
			expect: []int{http.StatusOK},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) DeleteRecipient(ctx context.Context, recipientID string) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "delete_recipient",
			method: http.MethodDelete,
			path:   recipientPath(recipientID),
			expect: []int{http.StatusNoContent},
		}),
		IOE.Map[error](unit[response]),
	)
}

// GetRecipientDetail returns the recipient including its delivery
// statusDescription.
func (c *Client) GetRecipientDetail(
	ctx context.Context,
	recipientID string,
) IOE.IOEither[error, models.Recipient] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "get_recipient",
			method: http.MethodGet,
			path:   recipientPath(recipientID),
			expect: []int{http.StatusOK},
		}),
		IOE.Chain(decode[models.Recipient]),
	)
}
