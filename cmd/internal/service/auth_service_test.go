package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/database/databasetest"
	"coursenotes/cmd/internal/domain/database/repository"
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/infrastructure/tokenstore"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"
	"coursenotes/cmd/internal/utils/uid"
	"coursenotes/cmd/internal/utils/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc     *DefaultAuthService
	tokens  *utils.TokenManager
	notes   *repository.DefaultNoteRepository
	users   *repository.DefaultUserRepository
	revoked *tokenstore.MemoryStore
	files   *recordingFiles
	events  *recordingEvents
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := databasetest.Open(t)

	ids, err := uid.New(1)
	require.NoError(t, err)

	f := &authFixture{
		tokens:  utils.NewTokenManager("secret", "coursenotes", "coursenotes-client", time.Hour, ids),
		notes:   repository.NewNoteRepository(db),
		users:   repository.NewUserRepository(db),
		revoked: tokenstore.NewMemoryStore(),
		files:   &recordingFiles{},
		events:  &recordingEvents{},
	}
	f.svc = NewAuthService(f.users, f.notes, f.tokens, f.revoked, f.files, f.events, validators.New())
	f.svc.HashCost = bcrypt.MinCost
	return f
}

func validRegistration() *contract.RegisterRequest {
	return &contract.RegisterRequest{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "Ana@Example.com",
		Password:  "Test123!",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, apierr := f.svc.Register(ctx, validRegistration())
	require.Nil(t, apierr)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEmpty(t, user.ID)

	resp, apierr := f.svc.Login(ctx, &contract.LoginRequest{Email: "ANA@example.com", Password: "Test123!"})
	require.Nil(t, apierr)
	assert.Equal(t, user, resp.User)
	assert.NotEmpty(t, resp.ExpiresAt)

	data, err := f.tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, data.Sub)
	assert.Equal(t, "ana@example.com", data.Email)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, apierr := f.svc.Register(ctx, validRegistration())
	require.Nil(t, apierr)

	again := validRegistration()
	again.Email = "ANA@EXAMPLE.COM"
	_, apierr = f.svc.Register(ctx, again)
	assert.Equal(t, apierror.EmailTakenError, apierr)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture(t)

	req := &contract.RegisterRequest{
		FirstName: "A",
		LastName:  "L1ma",
		Email:     "not-an-email",
		Password:  "weakpass",
	}
	_, apierr := f.svc.Register(context.Background(), req)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	structured, ok := apierr.(*apierror.StructuredError)
	require.True(t, ok)
	for _, field := range []string{"firstName", "lastName", "email", "password"} {
		assert.Contains(t, structured.Errors, field)
	}
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, apierr := f.svc.Register(ctx, validRegistration())
	require.Nil(t, apierr)

	_, wrongPassword := f.svc.Login(ctx, &contract.LoginRequest{Email: "ana@example.com", Password: "Wrong123!"})
	_, unknownEmail := f.svc.Login(ctx, &contract.LoginRequest{Email: "bob@example.com", Password: "Test123!"})

	assert.Equal(t, apierror.CredentialsMismatchError, wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code())
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, apierr := f.svc.Register(ctx, validRegistration())
	require.Nil(t, apierr)
	resp, apierr := f.svc.Login(ctx, &contract.LoginRequest{Email: "ana@example.com", Password: "Test123!"})
	require.Nil(t, apierr)

	data, err := f.tokens.Validate(resp.Token)
	require.NoError(t, err)
	user, err := f.users.FindByID(ctx, data.Sub)
	require.NoError(t, err)

	require.Nil(t, f.svc.Logout(ctx, user, data))

	revoked, err := f.revoked.IsRevoked(ctx, data.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, apierr := f.svc.Register(ctx, validRegistration())
	require.Nil(t, apierr)
	user, err := f.users.FindByID(ctx, created.ID)
	require.NoError(t, err)

	file := "/uploads/a.pdf"
	archivedAt := int64(5)
	require.NoError(t, f.notes.Save(ctx, &entity.Note{CourseName: "Art", Description: "Renaissance painters", UserID: user.ID, CreatedAt: 1, FilePath: &file}))
	require.NoError(t, f.notes.Save(ctx, &entity.Note{CourseName: "Law", Description: "Contracts overview", UserID: user.ID, CreatedAt: 2, DeletedAt: &archivedAt}))

	_, data, err := f.tokens.Issue(user)
	require.NoError(t, err)

	require.Nil(t, f.svc.DeleteAccount(ctx, user, data))

	gone, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	notes, err := f.notes.FindAllByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Equal(t, []string{file}, f.files.Deleted())

	revoked, err := f.revoked.IsRevoked(ctx, data.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Eventually(t, func() bool {
		code, ok := f.events.KillCode(user.ID)
		return ok && code == contract.KillCodeAccountDeleted
	}, time.Second, 10*time.Millisecond)
}

func TestAuthService_SeedUsers(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.svc.SeedUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	_, apierr := f.svc.Login(ctx, &contract.LoginRequest{Email: "demo@example.com", Password: "Test123!"})
	assert.Nil(t, apierr)

	created, err = f.svc.SeedUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "seeding only runs on an empty database")
}
