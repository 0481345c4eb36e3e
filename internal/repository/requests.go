package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	F "github.com/IBM/fp-go/v2/function"
	IOE "github.com/IBM/fp-go/v2/ioeither"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	T "github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/typing"
)

var requestsPath = []string{"dispatch", "requests"}

func requestPath(id string, rest ...string) []string {
	return append([]string{"dispatch", "requests", id}, rest...)
}

func unit[A any](_ A) T.Unit { return T.Unit{} }

// ListRequests fetches the requests of a group. A 403 answer means the user
// may not see the group's requests and yields an empty page, not an error.
func (c *Client) ListRequests(
	ctx context.Context,
	filter models.ListFilter,
) IOE.IOEither[error, models.RequestPage] {
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = c.perPage
	}
	query := url.Values{}
	query.Set("groupId", filter.GroupID)
	if perPage > 0 {
		query.Set("perPage", strconv.Itoa(perPage))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	return F.Pipe1(
		c.send(ctx, call{
			op:     "list_requests",
			method: http.MethodGet,
			path:   requestsPath,
			query:  query,
			expect: []int{http.StatusOK, http.StatusForbidden},
		}),
		IOE.Chain(func(r response) IOE.IOEither[error, models.RequestPage] {
			if r.status == http.StatusForbidden {
				c.Logger.Infow("Listing forbidden, showing no requests", "group_id", filter.GroupID)
				return IOE.Of[error](models.RequestPage{Requests: []models.DispatchRequest{}})
			}
			return F.Pipe1(
				decode[models.Collection[models.DispatchRequest]](r),
				IOE.Map[error](func(col models.Collection[models.DispatchRequest]) models.RequestPage {
					items := col.Items()
					return models.RequestPage{Total: col.Total(), Requests: items}
				}),
			)
		}),
	)
}

func (c *Client) GetRequest(ctx context.Context, id string) IOE.IOEither[error, models.DispatchRequest] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "get_request",
			method: http.MethodGet,
			path:   requestPath(id),
			expect: []int{http.StatusOK},
		}),
		IOE.Chain(decode[models.DispatchRequest]),
	)
}

// CreateRequest creates an empty request in groupID, optionally named and
// with sender fields preset.
func (c *Client) CreateRequest(
	ctx context.Context,
	groupID, name string,
	sender models.SenderFields,
) IOE.IOEither[error, models.DispatchRequest] {
	payload := struct {
		models.SenderFields
		Name    string `json:"name,omitempty"`
		GroupID string `json:"groupId"`
	}{SenderFields: sender, Name: name, GroupID: groupID}
	return F.Pipe1(
		c.send(ctx, call{
			op:     "create_request",
			method: http.MethodPost,
			path:   requestsPath,
			body:   jsonBody(contentTypeJSONLD, payload),
			expect: []int{http.StatusCreated},
		}),
		IOE.Chain(decode[models.DispatchRequest]),
	)
}

func (c *Client) UpdateRequestSender(
	ctx context.Context,
	id string,
	sender models.SenderFields,
) IOE.IOEither[error, T.Unit] {
	return c.patchRequest(ctx, "update_request_sender", id, sender)
}

func (c *Client) UpdateRequestSubject(
	ctx context.Context,
	id, subject string,
) IOE.IOEither[error, T.Unit] {
	return c.patchRequest(ctx, "update_request_subject", id, map[string]string{"name": subject})
}

func (c *Client) patchRequest(
	ctx context.Context,
	op, id string,
	payload any,
) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     op,
			method: http.MethodPatch,
			path:   requestPath(id),
			body:   jsonBody(contentTypeMergePatch, payload),
			expect: []int{http.StatusOK},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) DeleteRequest(ctx context.Context, id string) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "delete_request",
			method: http.MethodDelete,
			path:   requestPath(id),
			expect: []int{http.StatusNoContent},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) SubmitRequest(ctx context.Context, id string) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "submit_request",
			method: http.MethodPost,
			path:   requestPath(id, "submit"),
			body:   jsonBody(contentTypeJSONLD, struct{}{}),
			expect: []int{http.StatusCreated},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) ListGroups(ctx context.Context) IOE.IOEither[error, []models.Group] {
	return F.Pipe2(
		c.send(ctx, call{
			op:     "list_groups",
			method: http.MethodGet,
			path:   []string{"dispatch", "groups"},
			query:  url.Values{"perPage": []string{"9999"}},
			expect: []int{http.StatusOK},
		}),
		IOE.Chain(decode[models.Collection[models.Group]]),
		IOE.Map[error](func(col models.Collection[models.Group]) []models.Group {
			return col.Items()
		}),
	)
}
