// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-survey/catalog"
	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/form"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/response"
)

// LoadAndValidateForm parses and schema-checks a questionnaire form.
func LoadAndValidateForm(raw []byte) (*form.Document, error) {
	return form.LoadForm(raw)
}

// ExtractCatalog builds the question catalog of a loaded form.
func ExtractCatalog(doc *form.Document) (*catalog.Catalog, error) {
	return catalog.Extract(doc)
}

// ValidateSubmission checks answers against a catalog.
func ValidateSubmission(cat *catalog.Catalog, answers response.AnswerSet) (response.Validated, error) {
	return response.Validate(cat, answers)
}

// Store persists submissions and reads them back.
type Store interface {
	InsertResponses(ctx context.Context, sub models.Submission, rows []response.Row) error
	ListResponses(ctx context.Context, surveyID string) ([]response.Row, error)
}

type Service struct {
	store Store
	cache *catalog.Cache
	now   func() time.Time
}

func NewService(store Store, cache *catalog.Cache) *Service {
	if cache == nil {
		cache = catalog.NewCache()
	}
	return &Service{store: store, cache: cache, now: time.Now}
}

// Catalog returns the catalog of one form version, extracting it on first
// use.
func (s *Service) Catalog(formID string, version int, formXML []byte) (*catalog.Catalog, error) {
	return s.cache.Get(catalog.Key{FormID: formID, Version: version}, formXML)
}

// InvalidateForm drops cached catalogs of a form. Call it whenever the
// stored form definition changes.
func (s *Service) InvalidateForm(formID string) {
	s.cache.Invalidate(formID)
}

// Submit validates answers and stores them as one submission.
func (s *Service) Submit(ctx context.Context, surveyID, respondentID string, cat *catalog.Catalog,
	answers response.AnswerSet, opts ...SubmitOption) (models.Submission, error) {
	validated, err := response.Validate(cat, answers)
	if err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		ID:           uuid.NewString(),
		SurveyID:     surveyID,
		RespondentID: respondentID,
		SubmittedAt:  s.now().UTC(),
	}
	for _, opt := range opts {
		opt(&sub)
	}

	rows := response.Rows(surveyID, respondentID, validated, sub.SubmittedAt)
	if err := s.store.InsertResponses(ctx, sub, rows); err != nil {
		return models.Submission{}, err
	}

	slog.Info("response submitted",
		"survey_id", surveyID,
		"submission_id", sub.ID,
		"answered", len(rows),
	)
	return sub, nil
}

// SubmitOption sets optional submission metadata.
type SubmitOption func(*models.Submission)

// WithClient records the hashed client address and user agent.
func WithClient(ipHash, userAgent string) SubmitOption {
	return func(sub *models.Submission) {
		if ipHash != "" {
			sub.IPHash = &ipHash
		}
		if userAgent != "" {
			sub.UserAgent = &userAgent
		}
	}
}

// ExportSurveyResponses renders every stored response of a survey as
// delimited text.
func (s *Service) ExportSurveyResponses(ctx context.Context, surveyID string, cat *catalog.Catalog, opts export.Options) (string, error) {
	rows, err := s.store.ListResponses(ctx, surveyID)
	if err != nil {
		return "", err
	}

	projection, err := export.BuildProjection(surveyID, cat, rows)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate responses: %w", err)
	}

	return export.Format(cat, projection, opts)
}
