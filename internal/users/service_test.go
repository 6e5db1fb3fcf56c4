package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/auth"
)

type mockResumeLister struct {
	mock.Mock
}

func (m *mockResumeLister) List(ctx context.Context, userID string) ([]resumes.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]resumes.Resume), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *auth.Manager, *mockResumeLister) {
	t.Helper()
	tokens := auth.NewManager("test-secret", time.Hour)
	lister := &mockResumeLister{}
	return NewService(NewMemoryRepo(), tokens, lister), tokens, lister
}

func TestRegisterThenLogin(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loggedIn, token, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name  string
		input RegisterInput
		tag   string
	}{
		{name: "missing name", input: RegisterInput{Email: "a@b.co", Password: "secret1"}, tag: "required"},
		{name: "bad email", input: RegisterInput{Name: "A", Email: "nope", Password: "secret1"}, tag: "email"},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@b.co", Password: "123"}, tag: "min"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.input)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected validation error, got %v", err)
			assert.Equal(t, tt.tag, verrs[0].Tag())
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestSignInExternalCreatesOnceKeyedBySubject(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, _, err := svc.SignInExternal(ctx, "google", "123", "g@example.com", "Grace")
	require.NoError(t, err)
	assert.Equal(t, "google:123", first.ID)
	assert.Empty(t, first.PasswordHash)

	again, _, err := svc.SignInExternal(ctx, "google", "123", "G@example.com", "Grace")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = svc.Login(ctx, LoginInput{Email: "g@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, _, err = svc.SignInExternal(ctx, "google", "456", "g@example.com", "Someone Else")
	assert.ErrorIs(t, err, ErrIdentityConflict)
}

func TestSignInExternalNeverMergesIntoPasswordAccount(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	// Someone registers the address first with a password they control.
	squatter, _, err := svc.Register(ctx, RegisterInput{Name: "Mallory", Email: "victim@gmail.com", Password: "attackerpw"})
	require.NoError(t, err)

	user, token, err := svc.SignInExternal(ctx, "google", "google-sub-123", "victim@gmail.com", "Victim")
	require.ErrorIs(t, err, ErrIdentityConflict)
	assert.Empty(t, user.ID)
	assert.Empty(t, token)

	_, err = svc.GetByID(ctx, "google:google-sub-123")
	assert.ErrorIs(t, err, ErrNotFound)

	loggedIn, loginToken, err := svc.Login(ctx, LoginInput{Email: "victim@gmail.com", Password: "attackerpw"})
	require.NoError(t, err)
	assert.Equal(t, squatter.ID, loggedIn.ID)
	claims, err := tokens.Verify(loginToken)
	require.NoError(t, err)
	assert.NotEqual(t, "google:google-sub-123", claims.UserID)
}

func TestSignInExternalRequiresIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ provider, subject, email string }{
		{"", "1", "a@example.com"},
		{"google", " ", "a@example.com"},
		{"google", "1", ""},
	} {
		_, _, err := svc.SignInExternal(ctx, tc.provider, tc.subject, tc.email, "A")
		assert.Error(t, err)
	}
}

func TestListResumesDelegates(t *testing.T) {
	svc, _, lister := newTestService(t)
	ctx := context.Background()
	want := []resumes.Resume{{ID: "r1", UserID: "u1"}}
	lister.On("List", ctx, "u1").Return(want, nil)

	got, err := svc.ListResumes(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	lister.AssertExpectations(t)
}

func TestGetByIDUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
