package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/llm"
	"resume-builder/internal/resumes"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) CreateFromContent(ctx context.Context, userID, title string, content resumes.Content) (resumes.Resume, error) {
	args := m.Called(ctx, userID, title, content)
	return args.Get(0).(resumes.Resume), args.Error(1)
}

func TestEnhanceRejectsEmptyContentWithoutCallingGateway(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "gpt-4o-mini", &mockCreator{})

	_, err := svc.EnhanceSummary(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.EnhanceJobDescription(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestEnhanceForwardsWhitespaceOnlyContent(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "m", &mockCreator{})

	gw.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return len(req.Messages) == 2 && req.Messages[1].Content == "   "
	})).Return("", nil).Once()

	out, err := svc.EnhanceSummary(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
	gw.AssertExpectations(t)
}

func TestEnhanceSummaryBuildsPromptAndReturnsVerbatim(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "gpt-4o-mini", &mockCreator{})

	gw.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Model == "gpt-4o-mini" &&
			!req.JSONMode &&
			len(req.Messages) == 2 &&
			req.Messages[0].Role == llm.RoleSystem &&
			req.Messages[0].Content == summarySystemPrompt &&
			req.Messages[1].Role == llm.RoleUser &&
			req.Messages[1].Content == "I write Go."
	})).Return("  Seasoned Go engineer.\n", nil).Once()

	out, err := svc.EnhanceSummary(context.Background(), "I write Go.")
	require.NoError(t, err)
	assert.Equal(t, "  Seasoned Go engineer.\n", out)
	gw.AssertExpectations(t)
}

func TestEnhanceJobDescriptionUsesItsOwnPrompt(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "m", &mockCreator{})

	gw.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Messages[0].Content == jobDescriptionSystemPrompt
	})).Return("Led migrations.", nil).Once()

	out, err := svc.EnhanceJobDescription(context.Background(), "did migrations")
	require.NoError(t, err)
	assert.Equal(t, "Led migrations.", out)
	gw.AssertExpectations(t)
}

func TestEnhancePropagatesGatewayError(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "m", &mockCreator{})
	gwErr := fmt.Errorf("%w: openai status 429", llm.ErrGateway)
	gw.On("Complete", mock.Anything, mock.Anything).Return("", gwErr)

	_, err := svc.EnhanceSummary(context.Background(), "text")
	assert.ErrorIs(t, err, llm.ErrGateway)
}

func TestExtractResumePersistsTypedContent(t *testing.T) {
	gw := &mockGateway{}
	creator := &mockCreator{}
	svc := NewService(gw, "m", creator)

	raw := `{"personal_info":{"full_name":"Jane Doe"},"skills":[],` +
		`"experience":[{"company":"Acme","position":"Engineer","is_current":true}],"unexpected":1}`
	gw.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.JSONMode &&
			req.Messages[0].Content == extractionSystemPrompt &&
			strings.Contains(req.Messages[1].Content, "Jane Doe, Engineer at Acme")
	})).Return(raw, nil).Once()

	creator.On("CreateFromContent", mock.Anything, "u1", "My CV", mock.MatchedBy(func(c resumes.Content) bool {
		return c.PersonalInfo.FullName == "Jane Doe" &&
			len(c.Skills) == 0 &&
			len(c.Experience) == 1 &&
			c.Experience[0].Company == "Acme" &&
			c.Experience[0].IsCurrent
	})).Return(resumes.Resume{ID: "r-123", UserID: "u1"}, nil).Once()

	id, err := svc.ExtractResume(context.Background(), "u1", "My CV", "Jane Doe, Engineer at Acme")
	require.NoError(t, err)
	assert.Equal(t, "r-123", id)
	gw.AssertExpectations(t)
	creator.AssertExpectations(t)
}

func TestExtractResumeParseErrorPersistsNothing(t *testing.T) {
	for _, raw := range []string{`not json`, `["a"]`, `{"skills":"Go"}`, `{"personal_info":`} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			gw := &mockGateway{}
			creator := &mockCreator{}
			svc := NewService(gw, "m", creator)
			gw.On("Complete", mock.Anything, mock.Anything).Return(raw, nil).Once()

			_, err := svc.ExtractResume(context.Background(), "u1", "", "some resume")
			assert.ErrorIs(t, err, ErrExtractionParse)
			creator.AssertNotCalled(t, "CreateFromContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExtractResumeMissingTextSkipsGateway(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "m", &mockCreator{})

	_, err := svc.ExtractResume(context.Background(), "u1", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractResumeWithStoredResume(t *testing.T) {
	gw := &mockGateway{}
	store := resumes.NewService(resumes.NewMemoryRepo())
	svc := NewService(gw, "m", store)

	gw.On("Complete", mock.Anything, mock.Anything).Return(
		`{"personal_info":{"full_name":"Jane Doe"},"skills":[],"experience":[{"company":"Acme"}],"education":[{"gpa":3.8}]}`, nil)

	id, err := svc.ExtractResume(context.Background(), "u1", "", "Jane Doe resume")
	require.NoError(t, err)

	stored, err := store.Get(context.Background(), "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, resumes.DefaultTitle, stored.Title)
	assert.Equal(t, "Jane Doe", stored.PersonalInfo.FullName)
	assert.Empty(t, stored.Skills)
	assert.NotNil(t, stored.Skills)
	require.Len(t, stored.Experience, 1)
	assert.Equal(t, "3.8", stored.Education[0].GPA)
	assert.Equal(t, resumes.DefaultTemplate, stored.Template)
}

func TestExtractResumeFileRejectsUnsupported(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw, "m", &mockCreator{})

	_, err := svc.ExtractResumeFile(context.Background(), "u1", "", "notes.txt", "text/plain", []byte("hello"))
	assert.True(t, errors.Is(err, ErrUnsupportedFile), "got %v", err)
	gw.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
