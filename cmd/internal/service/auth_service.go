package service

import (
	"context"
	"errors"
	"fmt"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/domain/events"
	"coursenotes/cmd/internal/infrastructure/tokenstore"
	"coursenotes/cmd/internal/metrics"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	authTypeLogin    = "login"
	authTypeRegister = "register"

	demoPassword = "Test123!"
)

// Compared against when the email is unknown so both failure paths cost a
// bcrypt round.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *entity.User) error
	DeleteWithNotes(ctx context.Context, user *entity.User) error
}

type UserNoteRepository interface {
	FindAllByUserID(ctx context.Context, userID string) ([]*entity.Note, error)
}

type TokenIssuer interface {
	Issue(user *entity.User) (string, *utils.TokenData, error)
}

type DefaultAuthService struct {
	UserRepo UserRepository
	NoteRepo UserNoteRepository
	Tokens   TokenIssuer
	Revoked  tokenstore.Store
	Files    FileRemover
	Sessions SessionTerminator
	Validate *validator.Validate
	HashCost int
	Now      func() int64
}

func NewAuthService(
	userRepo UserRepository,
	noteRepo UserNoteRepository,
	tokens TokenIssuer,
	revoked tokenstore.Store,
	files FileRemover,
	sessions SessionTerminator,
	validate *validator.Validate,
) *DefaultAuthService {
	return &DefaultAuthService{
		UserRepo: userRepo,
		NoteRepo: noteRepo,
		Tokens:   tokens,
		Revoked:  revoked,
		Files:    files,
		Sessions: sessions,
		Validate: validate,
		HashCost: bcrypt.DefaultCost,
		Now:      utils.NowUTC,
	}
}

func (a *DefaultAuthService) Register(ctx context.Context, req *contract.RegisterRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		metrics.TrackAuthAttempt(authTypeRegister, false)
		return nil, apierror.FromValidationError(valerr)
	}

	exists, err := a.UserRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to check if email %s exists: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		metrics.TrackAuthAttempt(authTypeRegister, false)
		return nil, apierror.EmailTakenError
	}

	user, err := a.newUser(req)
	if err != nil {
		log.Errorf("failed to build user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if err := a.UserRepo.Save(ctx, user); err != nil {
		log.Errorf("failed to save user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	metrics.TrackAuthAttempt(authTypeRegister, true)
	return toUserResponse(user), nil
}

// Login answers unknown emails and wrong passwords with the same error.
func (a *DefaultAuthService) Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := a.UserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		metrics.TrackAuthAttempt(authTypeLogin, false)
		return nil, apierror.CredentialsMismatchError
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.TrackAuthAttempt(authTypeLogin, false)
		return nil, apierror.CredentialsMismatchError
	}

	token, data, err := a.Tokens.Issue(user)
	if err != nil {
		log.Errorf("failed to issue token for user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	metrics.TrackAuthAttempt(authTypeLogin, true)
	return &contract.LoginResponse{
		Token:     token,
		ExpiresAt: utils.FormatEpoch(data.ExpiresAt().UnixMilli()),
		User:      toUserResponse(user),
	}, nil
}

// Logout revokes the presented token until it would have expired.
func (a *DefaultAuthService) Logout(ctx context.Context, actor *entity.User, token *utils.TokenData) apierror.ErrorResponse {
	if err := a.Revoked.Revoke(ctx, token.JTI, token.ExpiresAt()); err != nil {
		log.Errorf("failed to revoke token of user %s: %v", actor.ID, err)
		return apierror.InternalServerError
	}

	go a.Sessions.TerminateUserConnections(context.Background(), actor.ID, &events.ConnectionKill{
		Code: contract.KillCodeLoggedOut,
	})
	return nil
}

func (a *DefaultAuthService) Me(actor *entity.User) *contract.UserResponse {
	return toUserResponse(actor)
}

// DeleteAccount removes the user along with every note and stored file it
// owns, then revokes the token used for the request.
func (a *DefaultAuthService) DeleteAccount(ctx context.Context, actor *entity.User, token *utils.TokenData) apierror.ErrorResponse {
	notes, err := a.NoteRepo.FindAllByUserID(ctx, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch notes of user %s: %v", actor.ID, err)
		return apierror.InternalServerError
	}

	if err := a.UserRepo.DeleteWithNotes(ctx, actor); err != nil {
		log.Errorf("failed to delete user %s: %v", actor.ID, err)
		return apierror.InternalServerError
	}

	for _, note := range notes {
		if file := note.StoredFile(); file != "" {
			a.Files.DeleteFile(ctx, file)
		}
	}

	if err := a.Revoked.Revoke(ctx, token.JTI, token.ExpiresAt()); err != nil {
		log.Warnf("failed to revoke token of deleted user %s: %v", actor.ID, err)
	}

	go a.Sessions.TerminateUserConnections(context.Background(), actor.ID, &events.ConnectionKill{
		Code: contract.KillCodeAccountDeleted,
	})
	return nil
}

// SeedUsers creates the demo accounts when no user exists yet. It returns
// how many users were created.
func (a *DefaultAuthService) SeedUsers(ctx context.Context) (int, error) {
	count, err := a.UserRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return 0, nil
	}

	demo := []*contract.RegisterRequest{
		{FirstName: "Test", LastName: "User", Email: "test@example.com", Password: demoPassword},
		{FirstName: "Demo", LastName: "User", Email: "demo@example.com", Password: demoPassword},
	}

	created := 0
	for _, req := range demo {
		user, err := a.newUser(req)
		if err != nil {
			return created, err
		}

		if err := a.UserRepo.Save(ctx, user); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", req.Email, err)
		}
		created++
	}
	return created, nil
}

func (a *DefaultAuthService) newUser(req *contract.RegisterRequest) (*entity.User, error) {
	if req.Password == "" {
		return nil, errors.New("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.Now()
	return &entity.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
