package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickai-backend/internal/shared/telemetry"
)

// Editor applies generative edits to user images through a Host.
type Editor struct {
	Host Host
}

// NewEditor constructs an Editor.
func NewEditor(host Host) *Editor {
	return &Editor{Host: host}
}

// RemoveBackground uploads the image with background removal and returns its URL.
func (e *Editor) RemoveBackground(ctx context.Context, userID, fileName string, data []byte) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "media.remove_background")
	asset, err := e.Host.Upload(ctx, Upload{
		UserID:   userID,
		Folder:   FolderCreations,
		FileName: fileName,
		Data:     data,
		Effect:   EffectBackgroundRemoval,
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return asset.URL, nil
}

// RemoveObject uploads the image and returns a URL that erases object on delivery.
func (e *Editor) RemoveObject(ctx context.Context, userID, fileName string, data []byte, object string) (string, error) {
	object = strings.TrimSpace(object)
	if object == "" {
		return "", errors.New("object is required")
	}
	ctx, span := telemetry.StartSpan(ctx, "media.remove_object")
	asset, err := e.Host.Upload(ctx, Upload{
		UserID:   userID,
		Folder:   FolderCreations,
		FileName: fileName,
		Data:     data,
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return e.Host.URL(asset, GenRemoveTransform(object)), nil
}

// GenRemoveTransform is the delivery transformation that erases object.
func GenRemoveTransform(object string) string {
	return "e_gen_remove:" + object
}
