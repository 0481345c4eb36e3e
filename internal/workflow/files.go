package workflow

import (
	"context"
	"fmt"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

type uploadForm struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int    `json:"file" validate:"gt=0"`
}

func (w *Workflows) AddFile(ctx context.Context, id string, upload models.Upload) error {
	const name = "add_file"
	if _, err := w.mutable(ctx, name, id); err != nil {
		return err
	}
	if err := w.check(ctx, name, uploadForm{Name: upload.Name, Size: len(upload.Data)}); err != nil {
		return err
	}
	return w.run(ctx, step{
		name: name,
		id:   id + "/" + upload.Name,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.AddFile(ctx, id, upload))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}

func (w *Workflows) DeleteFile(ctx context.Context, id, fileID string) error {
	const name = "delete_file"
	req, err := w.mutable(ctx, name, id)
	if err != nil {
		return err
	}
	if _, ok := req.File(fileID); !ok {
		return w.reject(ctx, name, unknownItem("file", fileID),
			fmt.Errorf("file %s: %w", fileID, ErrNotFound))
	}
	return w.run(ctx, step{
		name: name,
		id:   fileID,
		call: func(ctx context.Context) error {
			_, err := exec(w.repo.DeleteFile(ctx, fileID))
			return err
		},
		success: success(name),
		refresh: w.requestChanged(id),
	})
}
