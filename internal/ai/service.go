package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/extract"
	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
)

// ResumeCreator persists extracted resumes.
type ResumeCreator interface {
	CreateFromContent(ctx context.Context, userID, title string, content resumes.Content) (resumes.Resume, error)
}

// Service proxies resume text through the model gateway.
type Service struct {
	LLM     llm.Client
	Model   string
	Resumes ResumeCreator
}

func NewService(client llm.Client, model string, creator ResumeCreator) *Service {
	return &Service{LLM: client, Model: model, Resumes: creator}
}

// EnhanceSummary rewrites a professional summary. The model output is returned unmodified.
func (s *Service) EnhanceSummary(ctx context.Context, userContent string) (string, error) {
	return s.enhance(ctx, summarySystemPrompt, userContent)
}

// EnhanceJobDescription rewrites one job description. The model output is returned unmodified.
func (s *Service) EnhanceJobDescription(ctx context.Context, userContent string) (string, error) {
	return s.enhance(ctx, jobDescriptionSystemPrompt, userContent)
}

func (s *Service) enhance(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if userContent == "" {
		return "", ErrValidation
	}
	metrics.IncAIRequest()
	return s.LLM.Complete(ctx, llm.Request{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: userContent},
		},
	})
}

// ExtractResume turns raw resume text into a stored resume owned by userID and returns its id.
// Nothing is stored when the model output cannot be parsed.
func (s *Service) ExtractResume(ctx context.Context, userID, title, resumeText string) (string, error) {
	if resumeText == "" {
		return "", ErrValidation
	}
	metrics.IncAIRequest()

	raw, err := s.LLM.Complete(ctx, llm.Request{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: extractionSystemPrompt},
			{Role: llm.RoleUser, Content: extractionUserPrompt(resumeText)},
		},
		JSONMode: true,
	})
	if err != nil {
		return "", err
	}

	content, err := ParseExtraction(raw)
	if err != nil {
		metrics.IncExtractionFailure()
		return "", err
	}

	resume, err := s.Resumes.CreateFromContent(ctx, userID, title, content)
	if err != nil {
		return "", err
	}
	metrics.IncResumeExtracted()
	return resume.ID, nil
}

// ExtractResumeFile reads text from an uploaded PDF or DOCX and extracts it like ExtractResume.
func (s *Service) ExtractResumeFile(ctx context.Context, userID, title, fileName, mimeType string, data []byte) (string, error) {
	text, err := extract.TextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text found", ErrUnsupportedFile)
	}
	return s.ExtractResume(ctx, userID, title, text)
}

// ParseExtraction decodes model output into resume content. The output must be a single
// JSON object; unknown keys are ignored and missing keys keep their zero values.
func ParseExtraction(raw string) (resumes.Content, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return resumes.Content{}, fmt.Errorf("%w: output is not a JSON object", ErrExtractionParse)
	}
	var content resumes.Content
	if err := json.Unmarshal(trimmed, &content); err != nil {
		return resumes.Content{}, fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return content, nil
}
