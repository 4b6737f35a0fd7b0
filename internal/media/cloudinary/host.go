package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"quickai-backend/internal/media"
)

// Options configures a Host.
type Options struct {
	CloudName string
	APIKey    string
	APISecret string
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Host uploads images through the Cloudinary SDK and builds delivery URLs.
type Host struct {
	cld    *cloudinary.Cloudinary
	upload uploadAPI
}

// New constructs a Host.
func New(opts Options) (*Host, error) {
	if strings.TrimSpace(opts.CloudName) == "" || strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.APISecret) == "" {
		return nil, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	cld, err := cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	cld.Config.URL.Secure = true
	cld.Config.URL.Analytics = false
	cld.Config.URL.ForceVersion = false
	return &Host{cld: cld, upload: &cld.Upload}, nil
}

// Upload stores in. An effect is applied as an incoming transformation so
// the stored original already carries it.
func (h *Host) Upload(ctx context.Context, in media.Upload) (media.Asset, error) {
	if len(in.Data) == 0 {
		return media.Asset{}, media.ErrEmptyUpload
	}
	params := uploader.UploadParams{Folder: in.Folder}
	if in.Effect != "" {
		params.Transformation = "e_" + in.Effect
	}
	res, err := h.upload.Upload(ctx, bytes.NewReader(in.Data), params)
	if err != nil {
		return media.Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return media.Asset{}, errors.New("cloudinary: empty upload response")
	}
	if res.Error.Message != "" {
		return media.Asset{}, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	if res.PublicID == "" {
		return media.Asset{}, errors.New("cloudinary: upload returned no public id")
	}
	asset := media.Asset{Key: res.PublicID, URL: res.SecureURL}
	if asset.URL == "" {
		asset.URL = h.URL(asset, "")
	}
	return asset, nil
}

// URL builds https://res.cloudinary.com/<cloud>/image/upload/<transform>/<public_id>.
// It returns "" when the SDK rejects the public id.
func (h *Host) URL(asset media.Asset, transform string) string {
	img, err := h.cld.Image(asset.Key)
	if err != nil {
		return ""
	}
	img.Transformation = escapeTransform(transform)
	u, err := img.String()
	if err != nil {
		return ""
	}
	return u
}

func escapeTransform(transform string) string {
	name, arg, ok := strings.Cut(transform, ":")
	if !ok {
		return transform
	}
	return name + ":" + url.PathEscape(arg)
}

var _ media.Host = (*Host)(nil)
