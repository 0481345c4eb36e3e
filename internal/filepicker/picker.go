// Package filepicker turns a user's file selection into uploads. A selection
// is a local path or an s3://bucket/key object; zip archives are expanded
// into one upload per contained file.
package filepicker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	F "github.com/IBM/fp-go/v2/function"
	IOE "github.com/IBM/fp-go/v2/ioeither"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

var ErrNoS3 = errors.New("s3 storage is not configured")

// ObjectGetter is the part of the S3 client the picker reads objects with.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS chain, overridden by
// static keys and a custom endpoint when configured.
func NewS3Client(ctx context.Context, cfg config.S3) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

type Picker struct {
	s3          ObjectGetter
	Logger      *zap.SugaredLogger
	Tracer      trace.Tracer
	Meter       metric.Meter
	filesTotal  metric.Int64Counter
	bytesTotal  metric.Int64Counter
	zipsTotal   metric.Int64Counter
	readLatency metric.Int64Histogram
}

// NewPicker returns a picker. s3Client may be nil, in which case s3://
// selections fail with ErrNoS3.
func NewPicker(
	s3Client ObjectGetter,
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
	meter metric.Meter,
) (*Picker, error) {
	p := &Picker{
		s3:     s3Client,
		Logger: logger,
		Tracer: tracer,
		Meter:  meter,
	}

	var err error

	p.filesTotal, err = meter.Int64Counter(
		"filepicker.files.total",
		metric.WithDescription("Files picked for upload"),
	)
	if err != nil {
		return nil, err
	}

	p.bytesTotal, err = meter.Int64Counter(
		"filepicker.bytes.total",
		metric.WithDescription("Bytes picked for upload"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	p.zipsTotal, err = meter.Int64Counter(
		"filepicker.zips.total",
		metric.WithDescription("Zip archives expanded"),
	)
	if err != nil {
		return nil, err
	}

	p.readLatency, err = meter.Int64Histogram(
		"filepicker.read.duration",
		metric.WithDescription("Duration of reading a selection"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Pick reads source and returns the uploads it yields.
func (p *Picker) Pick(ctx context.Context, source string) IOE.IOEither[error, []models.Upload] {
	return F.Pipe1(
		p.read(ctx, source),
		IOE.Chain(func(u models.Upload) IOE.IOEither[error, []models.Upload] {
			return IOE.TryCatchError(func() ([]models.Upload, error) {
				if !isZip(u) {
					p.count(ctx, u)
					return []models.Upload{u}, nil
				}
				uploads, err := p.expandZip(ctx, u)
				if err != nil {
					return nil, err
				}
				p.Logger.Infow("Zip expanded", "source", source, "files", len(uploads))
				return uploads, nil
			})
		}),
	)
}

func (p *Picker) count(ctx context.Context, u models.Upload) {
	p.filesTotal.Add(ctx, 1)
	p.bytesTotal.Add(ctx, int64(len(u.Data)))
}

func (p *Picker) read(ctx context.Context, source string) IOE.IOEither[error, models.Upload] {
	return IOE.TryCatchError(func() (models.Upload, error) {
		ctx, span := p.Tracer.Start(ctx, "filepicker.read", trace.WithAttributes(
			attribute.String("source", source),
		))
		defer span.End()
		startTime := time.Now()

		var (
			name string
			data []byte
			err  error
		)
		kind := "local"
		if bucket, key, ok := parseS3(source); ok {
			kind = "s3"
			name = path.Base(key)
			data, err = p.readS3(ctx, bucket, key)
		} else {
			name = filepath.Base(source)
			data, err = os.ReadFile(source)
		}
		p.readLatency.Record(ctx, time.Since(startTime).Milliseconds(),
			metric.WithAttributes(attribute.String("kind", kind)))
		if err != nil {
			span.RecordError(err)
			return models.Upload{}, fmt.Errorf("read %s: %w", source, err)
		}
		p.Logger.Debugw("Selection read", "source", source, "bytes", len(data))
		return models.Upload{
			Name:        name,
			ContentType: detect(data),
			Data:        data,
		}, nil
	})
}

func (p *Picker) readS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if p.s3 == nil {
		return nil, ErrNoS3
	}
	out, err := p.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func parseS3(source string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func detect(data []byte) string {
	return mimetype.Detect(data).String()
}

func isZip(u models.Upload) bool {
	return strings.HasSuffix(strings.ToLower(u.Name), ".zip") ||
		mimetype.EqualsAny(u.ContentType, "application/zip")
}
