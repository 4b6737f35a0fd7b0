package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"quickai-backend/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save stores r under a generated key in the user's namespace of folder.
	Save(ctx context.Context, folder, userID, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// NewKey returns <folder>/<user hash>/<uuid>_<sanitized name>. An empty folder
// is omitted.
func NewKey(folder, userID, fileName string) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(folder, util.HashUserKey(userID), uuid.NewString()+"_"+sanitized), nil
}

// Sniff detects the content type from the first 512 bytes of r and returns
// a reader that replays them.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
