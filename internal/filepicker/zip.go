package filepicker

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

const maxZipDepth = 4

// expandZip returns every regular file of the archive. Nested archives are
// expanded in place, up to maxZipDepth levels.
func (p *Picker) expandZip(ctx context.Context, archive models.Upload) ([]models.Upload, error) {
	return p.expandZipDepth(ctx, archive, 0)
}

func (p *Picker) expandZipDepth(ctx context.Context, archive models.Upload, depth int) ([]models.Upload, error) {
	if depth >= maxZipDepth {
		return nil, fmt.Errorf("zip %s: nested deeper than %d levels", archive.Name, maxZipDepth)
	}
	ctx, span := p.Tracer.Start(ctx, "filepicker.expand_zip", trace.WithAttributes(
		attribute.String("zip", archive.Name),
		attribute.Int("depth", depth),
	))
	defer span.End()

	r, err := zip.NewReader(bytes.NewReader(archive.Data), int64(len(archive.Data)))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to open zip %s: %w", archive.Name, err)
	}
	p.zipsTotal.Add(ctx, 1)
	p.Logger.Debugw("Zip opened", "file_count", len(r.File), "zip", archive.Name)

	var uploads []models.Upload
	for _, f := range r.File {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if f.FileInfo().IsDir() || skipEntry(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		u := models.Upload{
			Name:        path.Base(f.Name),
			ContentType: detect(data),
			Data:        data,
		}
		if isZip(u) {
			nested, err := p.expandZipDepth(ctx, u, depth+1)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, nested...)
			continue
		}
		p.count(ctx, u)
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s in zip: %w", f.Name, err)
	}
	return data, nil
}

// skipEntry drops archiver metadata such as __MACOSX forks and dot files.
func skipEntry(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), ".")
}
