package artifacts

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/fault"
)

const CodeUploadFailed = "ARTIFACT_UPLOAD_FAILED"

// Payload is one uploaded file bound to a roster slot.
type Payload struct {
	Filename string
	Data     []byte
}

// Resolver uploads per-slot payloads concurrently and maps each slot to
// the resulting public URL. All-or-nothing: one failed upload fails the
// batch, and the caller must not persist anything that references it.
// Successful uploads are not compensated on a later failure; every key
// is logged so orphans can be swept externally.
type Resolver struct {
	uploader Uploader
	limit    int
}

func NewResolver(uploader Uploader, maxConcurrent int) *Resolver {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Resolver{uploader: uploader, limit: maxConcurrent}
}

func (r *Resolver) Resolve(ctx context.Context, files map[int]Payload) (map[int]string, error) {
	if len(files) == 0 {
		return map[int]string{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	var mu sync.Mutex
	urls := make(map[int]string, len(files))

	for slot, payload := range files {
		slot, payload := slot, payload
		g.Go(func() error {
			key := uuid.NewString() + path.Ext(payload.Filename)
			url, err := r.uploader.Upload(ctx, key, payload.Data)
			if err != nil {
				return fmt.Errorf("slot %d: %w", slot, err)
			}
			logger.Debug.Printf("Uploaded artifact for slot %d as %s", slot, key)
			mu.Lock()
			urls[slot] = url
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error.Printf("Artifact upload batch failed: %v", err)
		return nil, fault.Transient(CodeUploadFailed, err.Error())
	}

	return urls, nil
}
