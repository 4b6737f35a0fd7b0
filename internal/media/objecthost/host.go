package objecthost

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"quickai-backend/internal/media"
	"quickai-backend/internal/shared/storage/object"
)

// Host stores images in an object store and serves them under a public base
// URL. Effects and transforms travel as a tr query parameter for an image
// CDN in front of the base URL to apply.
type Host struct {
	store   object.ObjectStore
	baseURL string
}

// New constructs a Host.
func New(store object.ObjectStore, publicBaseURL string) *Host {
	return &Host{store: store, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Upload saves in under <folder>/<user hash>/<uuid>_<name>.
func (h *Host) Upload(ctx context.Context, in media.Upload) (media.Asset, error) {
	if len(in.Data) == 0 {
		return media.Asset{}, media.ErrEmptyUpload
	}
	name := in.FileName
	if name == "" {
		name = "image"
	}
	folder := in.Folder
	if folder == "" {
		folder = media.FolderCreations
	}
	obj, err := h.store.Save(ctx, folder, in.UserID, name, bytes.NewReader(in.Data))
	if err != nil {
		return media.Asset{}, fmt.Errorf("save object: %w", err)
	}
	asset := media.Asset{Key: obj.Key}
	transform := ""
	if in.Effect != "" {
		transform = "e_" + in.Effect
	}
	asset.URL = h.URL(asset, transform)
	return asset, nil
}

// URL returns <base>/<key>, with ?tr=<transform> when transform is set.
func (h *Host) URL(asset media.Asset, transform string) string {
	u := h.baseURL + "/" + asset.Key
	if transform != "" {
		u += "?tr=" + url.QueryEscape(transform)
	}
	return u
}

var _ media.Host = (*Host)(nil)
