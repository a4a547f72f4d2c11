// Package blob abstracts name-addressable storage for uploaded resume
// files: store bytes under a key, read them back by key, delete by key.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store is the blob-store collaborator used by the application workflow.
//
// Get returns common.ErrorNotFound for a missing key. Delete of a missing
// key returns common.ErrorNotFound where the backend can detect it; callers
// treating deletion as best-effort should ignore that case.
type Store interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewResumeKey returns a fresh storage key for an uploaded resume, keeping
// the original file extension. Keys are never reused: a superseded resume
// gets a new key and the old blob is deleted.
func NewResumeKey(userID, ext string) string {
	d := time.Now()
	return fmt.Sprintf("resumes/%d/%d/%d/%s-%v%s", d.Year(), d.Month(), d.Day(), userID, uuid.New(), ext)
}
