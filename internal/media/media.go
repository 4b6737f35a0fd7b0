package media

import (
	"context"
	"errors"
)

// Effects applied at upload time.
const (
	EffectBackgroundRemoval = "background_removal"
)

// Folders used when uploading.
const (
	FolderCreations = "quickai"
	FolderResumes   = "user-resumes"
)

// ErrEmptyUpload is returned when an upload carries no bytes.
var ErrEmptyUpload = errors.New("empty upload")

// Upload describes one image to store.
type Upload struct {
	UserID   string
	Folder   string
	FileName string
	Data     []byte
	// Effect is applied to the stored original, e.g. EffectBackgroundRemoval.
	Effect string
}

// Asset is a stored image.
type Asset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Host stores images and builds delivery URLs.
type Host interface {
	Upload(ctx context.Context, in Upload) (Asset, error)
	// URL returns the delivery URL for asset with transform applied on the fly.
	URL(asset Asset, transform string) string
}
