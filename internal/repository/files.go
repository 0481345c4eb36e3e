package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	F "github.com/IBM/fp-go/v2/function"
	IOE "github.com/IBM/fp-go/v2/ioeither"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
	T "github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/typing"
)

var filesPath = []string{"dispatch", "request-files"}

// AddFile attaches upload to the request as a multipart form with the fields
// dispatchRequestIdentifier and file.
func (c *Client) AddFile(
	ctx context.Context,
	requestID string,
	upload models.Upload,
) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "add_file",
			method: http.MethodPost,
			path:   filesPath,
			body:   multipartBody(requestID, upload),
			expect: []int{http.StatusCreated},
		}),
		IOE.Map[error](unit[response]),
	)
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) IOE.IOEither[error, T.Unit] {
	return F.Pipe1(
		c.send(ctx, call{
			op:     "delete_file",
			method: http.MethodDelete,
			path:   append(append([]string{}, filesPath...), fileID),
			expect: []int{http.StatusNoContent},
		}),
		IOE.Map[error](unit[response]),
	)
}

func multipartBody(requestID string, upload models.Upload) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("dispatchRequestIdentifier", requestID); err != nil {
			return nil, "", err
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Name))
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(upload.Data); err != nil {
			return nil, "", err
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
}
