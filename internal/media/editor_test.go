package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHost struct {
	uploads []Upload
}

func (h *recordingHost) Upload(_ context.Context, in Upload) (Asset, error) {
	h.uploads = append(h.uploads, in)
	url := "https://img.test/" + in.FileName
	if in.Effect != "" {
		url += "?e=" + in.Effect
	}
	return Asset{Key: in.FileName, URL: url}, nil
}

func (h *recordingHost) URL(asset Asset, transform string) string {
	return "https://img.test/" + transform + "/" + asset.Key
}

func TestRemoveBackgroundUploadsWithEffect(t *testing.T) {
	host := &recordingHost{}
	url, err := NewEditor(host).RemoveBackground(context.Background(), "user-1", "a.png", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/a.png?e=background_removal", url)
	require.Len(t, host.uploads, 1)
	assert.Equal(t, FolderCreations, host.uploads[0].Folder)
}

func TestRemoveObjectBuildsTransformURL(t *testing.T) {
	host := &recordingHost{}
	url, err := NewEditor(host).RemoveObject(context.Background(), "user-1", "a.png", []byte("x"), " watch ")
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/e_gen_remove:watch/a.png", url)
	require.Len(t, host.uploads, 1)
	assert.Empty(t, host.uploads[0].Effect)
}

func TestRemoveObjectRequiresObject(t *testing.T) {
	host := &recordingHost{}
	_, err := NewEditor(host).RemoveObject(context.Background(), "user-1", "a.png", []byte("x"), "  ")
	assert.Error(t, err)
	assert.Empty(t, host.uploads)
}
