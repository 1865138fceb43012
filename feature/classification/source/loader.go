package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"kbli-registry/core/storage"
	"kbli-registry/feature/classification/models"

	"github.com/minio/minio-go/v7"
)

// Batch is a decoded raw row batch with the time it was captured.
type Batch struct {
	Location  string
	FetchedAt time.Time
	Rows      []models.RawRow
	// NonText lists, per row index, the labels whose JSON values were numbers
	// or booleans. Always empty for CSV batches.
	NonText map[int][]string
}

// Loader reads raw row batches from the local filesystem or the bucket.
type Loader struct {
	cfg    Config
	client storage.Client
	bucket string
}

// NewLoader creates a loader. client may be nil when the origin is "file".
func NewLoader(cfg Config, client storage.Client, bucket string) *Loader {
	return &Loader{cfg: cfg, client: client, bucket: bucket}
}

// Load reads the configured batch for a source.
func (l *Loader) Load(ctx context.Context, id models.SourceID) (*Batch, error) {
	location := l.cfg.Path(id)
	if location == "" {
		return nil, fmt.Errorf("no batch location configured for %s", id)
	}

	switch l.cfg.Origin {
	case OriginBucket:
		return l.loadObject(ctx, location)
	case OriginFile, "":
		return l.loadFile(location)
	default:
		return nil, fmt.Errorf("unknown source origin %q", l.cfg.Origin)
	}
}

func (l *Loader) loadFile(location string) (*Batch, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat batch: %w", err)
	}

	rows, nonText, err := decodeBatch(location, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	return &Batch{Location: location, FetchedAt: info.ModTime().UTC(), Rows: rows, NonText: nonText}, nil
}

func (l *Loader) loadObject(ctx context.Context, object string) (*Batch, error) {
	if l.client == nil {
		return nil, fmt.Errorf("storage client not configured for bucket origin")
	}

	info, err := l.client.StatObject(ctx, l.bucket, object, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("stat %s/%s: %w", l.bucket, object, err)
	}

	obj, err := l.client.GetObject(ctx, l.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", l.bucket, object, err)
	}
	defer obj.Close()

	rows, nonText, err := decodeBatch(object, obj)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", l.bucket, object, err)
	}

	return &Batch{Location: object, FetchedAt: info.LastModified.UTC(), Rows: rows, NonText: nonText}, nil
}
