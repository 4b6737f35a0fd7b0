package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/extract"
	"quickai-backend/internal/gateway"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/media"
	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
)

// Creation prompts recorded for file-driven operations.
const (
	promptRemovedBackground = "Removed background from image"
	promptReview            = "Review the uploaded resume"
)

const (
	msgNoResume       = "No resume file uploaded."
	msgNoImage        = "No image file uploaded."
	msgResumeTooLarge = "Resume file size exceeds 5MB.!"
)

var (
	opArticle = gateway.Operation{
		Name:               "generate-article",
		Gate:               gateway.GateMetered,
		UnavailableMessage: "Unable to generate article at the moment.! Please try again shortly.",
	}
	opTitles = gateway.Operation{
		Name:               "generate-titles",
		Gate:               gateway.GateMetered,
		UnavailableMessage: "Unable to generate blog titles at the moment.! Please try again shortly.",
	}
	opImage            = gateway.Operation{Name: "generate-image", Gate: gateway.GatePremium}
	opRemoveBackground = gateway.Operation{Name: "remove-background", Gate: gateway.GatePremium}
	opRemoveObject     = gateway.Operation{Name: "remove-object", Gate: gateway.GatePremium}
	opReview           = gateway.Operation{
		Name:               "resume-review",
		Gate:               gateway.GatePremium,
		UnavailableMessage: "Unable to generate review at the moment.! Please try again shortly.",
	}
	opEnhanceSummary = gateway.Operation{Name: "enhance-pro-sum", Gate: gateway.GateNone}
	opEnhanceJobDesc = gateway.Operation{Name: "enhance-job-desc", Gate: gateway.GateNone}
)

// File is an uploaded file. Open is deferred so the gate runs before any bytes are read.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func (f *File) read() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Service runs the AI operations through the gateway.
type Service struct {
	Gateway   *gateway.Gateway
	Completer llm.Completer
	Images    imagegen.Generator
	Editor    *media.Editor
	Host      media.Host
	Creations creations.Repo
}

func (s *Service) record(p auth.Principal, prompt, typ string, publish bool) func(context.Context, string) error {
	return s.Gateway.RecordCreation(s.Creations, func(content string) creations.Creation {
		return creations.Creation{
			UserID:  p.UserID,
			Prompt:  prompt,
			Content: content,
			Type:    typ,
			Publish: publish,
		}
	})
}

func (s *Service) complete(req llm.Request) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if strings.TrimSpace(req.Prompt) == "" {
			return "", apperr.MissingFields()
		}
		if s.Completer == nil {
			return "", apperr.ProviderUnavailable("Text generation is not configured")
		}
		return s.Completer.Complete(ctx, req)
	}
}

// GenerateArticle writes an article of roughly length tokens.
func (s *Service) GenerateArticle(ctx context.Context, p auth.Principal, prompt string, length int) (string, error) {
	req := llm.Request{Prompt: prompt, MaxTokens: length, Temperature: llm.DefaultTemperature}
	return gateway.Run(ctx, s.Gateway, p, opArticle, s.complete(req), s.record(p, prompt, creations.TypeArticle, false))
}

// GenerateTitles suggests blog titles for the prompt.
func (s *Service) GenerateTitles(ctx context.Context, p auth.Principal, prompt string) (string, error) {
	req := llm.Request{Prompt: prompt, MaxTokens: llm.TitlesMaxTokens, Temperature: llm.DefaultTemperature}
	return gateway.Run(ctx, s.Gateway, p, opTitles, s.complete(req), s.record(p, prompt, creations.TypeTitle, false))
}

// GenerateImage renders prompt, stores the PNG and returns its URL.
func (s *Service) GenerateImage(ctx context.Context, p auth.Principal, prompt string, publish bool) (string, error) {
	invoke := func(ctx context.Context) (string, error) {
		if strings.TrimSpace(prompt) == "" {
			return "", apperr.MissingFields()
		}
		if s.Images == nil || s.Host == nil {
			return "", apperr.ProviderUnavailable("Image generation is not configured")
		}
		raw, err := s.Images.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		data, err := media.ToPNG(raw)
		if err != nil {
			return "", fmt.Errorf("decode generated image: %w", err)
		}
		asset, err := s.Host.Upload(ctx, media.Upload{
			UserID:   p.UserID,
			Folder:   media.FolderCreations,
			FileName: "generated.png",
			Data:     data,
		})
		if err != nil {
			return "", err
		}
		return asset.URL, nil
	}
	return gateway.Run(ctx, s.Gateway, p, opImage, invoke, s.record(p, prompt, creations.TypeImage, publish))
}

// RemoveBackground stores the image with its background removed.
func (s *Service) RemoveBackground(ctx context.Context, p auth.Principal, file *File) (string, error) {
	invoke := func(ctx context.Context) (string, error) {
		data, err := s.readImage(file)
		if err != nil {
			return "", err
		}
		return s.Editor.RemoveBackground(ctx, p.UserID, file.Name, data)
	}
	return gateway.Run(ctx, s.Gateway, p, opRemoveBackground, invoke,
		s.record(p, promptRemovedBackground, creations.TypeImage, false))
}

// RemoveObject stores the image and returns a URL with object erased.
func (s *Service) RemoveObject(ctx context.Context, p auth.Principal, file *File, object string) (string, error) {
	object = strings.TrimSpace(object)
	invoke := func(ctx context.Context) (string, error) {
		if object == "" {
			return "", apperr.MissingFields()
		}
		data, err := s.readImage(file)
		if err != nil {
			return "", err
		}
		return s.Editor.RemoveObject(ctx, p.UserID, file.Name, data, object)
	}
	return gateway.Run(ctx, s.Gateway, p, opRemoveObject, invoke,
		s.record(p, fmt.Sprintf("Removed %s from image", object), creations.TypeImage, false))
}

func (s *Service) readImage(file *File) ([]byte, error) {
	if s.Editor == nil || s.Editor.Host == nil {
		return nil, apperr.ProviderUnavailable("Image editing is not configured")
	}
	if file == nil || file.Open == nil {
		return nil, apperr.Validation(msgNoImage)
	}
	data, err := file.read()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.Validation(msgNoImage)
	}
	return data, nil
}

// ReviewResume extracts the resume text and asks for feedback on it.
func (s *Service) ReviewResume(ctx context.Context, p auth.Principal, file *File) (string, error) {
	invoke := func(ctx context.Context) (string, error) {
		if file == nil || file.Open == nil {
			return "", apperr.Validation(msgNoResume)
		}
		if file.Size > extract.MaxResumeBytes {
			return "", apperr.Validation(msgResumeTooLarge)
		}
		data, err := file.read()
		if err != nil {
			return "", err
		}
		text, err := extract.ResumeText(ctx, data, file.ContentType, file.Name)
		if err != nil {
			if errors.Is(err, extract.ErrTooLarge) {
				return "", apperr.Validation(msgResumeTooLarge)
			}
			return "", apperr.Validation("Unable to read resume: " + err.Error())
		}
		req := llm.Request{Prompt: llm.ReviewPrompt(text), MaxTokens: llm.ReviewMaxTokens, Temperature: llm.DefaultTemperature}
		return s.complete(req)(ctx)
	}
	return gateway.Run(ctx, s.Gateway, p, opReview, invoke, s.record(p, promptReview, creations.TypeReview, false))
}

// EnhanceSummary rewrites a professional summary. Nothing is metered or stored.
func (s *Service) EnhanceSummary(ctx context.Context, p auth.Principal, content string) (string, error) {
	return s.enhance(ctx, p, opEnhanceSummary, llm.ProSummarySystemPrompt, content)
}

// EnhanceJobDescription rewrites a job description. Nothing is metered or stored.
func (s *Service) EnhanceJobDescription(ctx context.Context, p auth.Principal, content string) (string, error) {
	return s.enhance(ctx, p, opEnhanceJobDesc, llm.JobDescSystemPrompt, content)
}

func (s *Service) enhance(ctx context.Context, p auth.Principal, op gateway.Operation, system, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperr.MissingFields()
	}
	req := llm.Request{System: system, Prompt: content}
	return gateway.Run(ctx, s.Gateway, p, op, s.complete(req), nil)
}
