package services

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/placementportal/internal/pkg/apperrors"
	"github.com/yigit/placementportal/internal/pkg/filestorage"
	"github.com/yigit/placementportal/internal/pkg/resumeanalyzer"
)

// MaxResumeSize is the largest accepted resume upload
const MaxResumeSize = 5 << 20

const resumeSubPath = "resumes"

// ResumeService defines the interface for resume analysis
type ResumeService interface {
	Analyze(ctx context.Context, file *multipart.FileHeader, jobDescription, option string) (json.RawMessage, error)
}

type resumeServiceImpl struct {
	storage  filestorage.FileStorage
	analyzer resumeanalyzer.Analyzer
	logger   zerolog.Logger
}

// NewResumeService creates a new ResumeService
func NewResumeService(storage filestorage.FileStorage, analyzer resumeanalyzer.Analyzer, logger zerolog.Logger) ResumeService {
	return &resumeServiceImpl{
		storage:  storage,
		analyzer: analyzer,
		logger:   logger,
	}
}

func validateResume(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("%w: resume file is required", apperrors.ErrValidationFailed)
	}
	if file.Size > MaxResumeSize {
		return fmt.Errorf("%w: resume must be at most 5 MB", apperrors.ErrValidationFailed)
	}

	isPDF := strings.EqualFold(filepath.Ext(file.Filename), ".pdf")
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != "application/pdf" && ct != "application/octet-stream" {
		isPDF = false
	}
	if !isPDF {
		return fmt.Errorf("%w: only PDF files are allowed", apperrors.ErrValidationFailed)
	}
	return nil
}

// Analyze stages the upload, forwards it to the analyzer and removes it again.
// An empty job description is forwarded as "".
func (s *resumeServiceImpl) Analyze(ctx context.Context, file *multipart.FileHeader, jobDescription, option string) (json.RawMessage, error) {
	if err := validateResume(file); err != nil {
		return nil, err
	}

	relPath, err := s.storage.SaveFileWithPath(file, resumeSubPath)
	if err != nil {
		return nil, fmt.Errorf("error staging resume: %w", err)
	}
	defer func() {
		if err := s.storage.DeleteFile(relPath); err != nil {
			s.logger.Warn().Err(err).Str("path", relPath).Msg("Failed to remove staged resume")
		}
	}()

	f, err := s.storage.Open(relPath)
	if err != nil {
		return nil, fmt.Errorf("error opening staged resume: %w", err)
	}
	defer f.Close()

	analysis, err := s.analyzer.Analyze(ctx, resumeanalyzer.Request{
		Resume:         f,
		Filename:       filepath.Base(file.Filename),
		JobDescription: strings.TrimSpace(jobDescription),
		Option:         option,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Resume analysis failed")
		return nil, fmt.Errorf("%w: resume analysis: %v", apperrors.ErrCollaboratorFailed, err)
	}
	return analysis, nil
}
