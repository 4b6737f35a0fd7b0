package resumes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"quickai-backend/internal/media"
	"quickai-backend/internal/shared/apperr"
)

const (
	msgNotFound = "Resume not found"
	msgConflict = "Resume was changed in another session. Reload and try again."
)

// Photo is an uploaded personal-info image.
type Photo struct {
	FileName         string
	Data             []byte
	RemoveBackground bool
}

// Service implements the resume store operations.
type Service struct {
	Repo Repo
	Host media.Host
}

// NewService constructs a Service. host may be nil when photo uploads are disabled.
func NewService(repo Repo, host media.Host) *Service {
	return &Service{Repo: repo, Host: host}
}

// Draft builds a new, not yet persisted, resume with defaults.
func (s *Service) Draft(userID, title string) Resume {
	r := Resume{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  strings.TrimSpace(title),
	}
	r.normalize()
	return r
}

// Insert persists a drafted resume.
func (s *Service) Insert(ctx context.Context, r Resume) (Resume, error) {
	return s.Repo.Create(ctx, r)
}

// Create drafts and persists a resume in one step.
func (s *Service) Create(ctx context.Context, userID, title string) (Resume, error) {
	return s.Insert(ctx, s.Draft(userID, title))
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if !validID(id) {
		return Resume{}, apperr.NotFound(msgNotFound)
	}
	r, err := s.Repo.Get(ctx, userID, id)
	return r, mapErr(err)
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// GetPublic returns a resume to anyone when it is public.
func (s *Service) GetPublic(ctx context.Context, id string) (Resume, error) {
	if !validID(id) {
		return Resume{}, apperr.NotFound(msgNotFound)
	}
	r, err := s.Repo.GetPublic(ctx, id)
	return r, mapErr(err)
}

// Replace overwrites the resume with doc. A photo is uploaded once and its URL
// substituted into personal_info.image; without a photo an empty image keeps
// the stored URL. A positive doc.Version must match the stored version.
func (s *Service) Replace(ctx context.Context, userID, id string, doc Resume, photo *Photo) (Resume, error) {
	if !validID(id) {
		return Resume{}, apperr.NotFound(msgNotFound)
	}
	cur, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, mapErr(err)
	}
	if doc.Version > 0 && doc.Version != cur.Version {
		return Resume{}, apperr.Conflict(msgConflict)
	}

	doc.ID = id
	doc.UserID = userID
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = cur.Title
	}
	if photo != nil && len(photo.Data) > 0 {
		url, err := s.uploadPhoto(ctx, userID, photo)
		if err != nil {
			return Resume{}, err
		}
		doc.PersonalInfo.Image = ImageURL(url)
	} else if doc.PersonalInfo.Image == "" {
		doc.PersonalInfo.Image = cur.PersonalInfo.Image
	}

	updated, err := s.Repo.Replace(ctx, doc, doc.Version)
	return updated, mapErr(err)
}

func (s *Service) SetVisibility(ctx context.Context, userID, id string, public bool) (Resume, error) {
	if !validID(id) {
		return Resume{}, apperr.NotFound(msgNotFound)
	}
	r, err := s.Repo.SetVisibility(ctx, userID, id, public)
	return r, mapErr(err)
}

// Delete removes the caller's resume. Someone else's resume reads as not found.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return apperr.NotFound(msgNotFound)
	}
	return mapErr(s.Repo.Delete(ctx, userID, id))
}

func (s *Service) uploadPhoto(ctx context.Context, userID string, photo *Photo) (string, error) {
	if s.Host == nil {
		return "", apperr.Validation("Image uploads are not configured")
	}
	square, err := media.SquarePhoto(photo.Data, media.PhotoSize)
	if err != nil {
		return "", apperr.Validation("Unsupported image format")
	}
	in := media.Upload{
		UserID:   userID,
		Folder:   media.FolderResumes,
		FileName: "resume.png",
		Data:     square,
	}
	if photo.RemoveBackground {
		in.Effect = media.EffectBackgroundRemoval
	}
	asset, err := s.Host.Upload(ctx, in)
	if err != nil {
		return "", apperr.Provider(err)
	}
	return asset.URL, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return &apperr.Error{Kind: apperr.KindNotFound, Message: msgNotFound, Err: err}
	case errors.Is(err, ErrVersionConflict):
		return &apperr.Error{Kind: apperr.KindConflict, Message: msgConflict, Err: err}
	default:
		return err
	}
}
