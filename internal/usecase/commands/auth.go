package commands

import (
	"context"

	"psyconnect/internal/domain/user"
	reqdto "psyconnect/internal/handler/dto/request"
	"psyconnect/internal/infra"
	"psyconnect/internal/pkg/errs"
	"psyconnect/internal/pkg/jwt"
	"psyconnect/internal/pkg/password"
	"psyconnect/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errs.New("user not found")
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrUserInactive       = errs.New("user inactive")
	ErrEmailTaken         = errs.New("email already registered")
	ErrInvalidUserInput   = errs.New("invalid user input")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type AuthResult struct {
	UserID uuid.UUID
	Role   string
	Token  string
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
}

type AuthCommands interface {
	Register(ctx context.Context, req reqdto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error)
}

type authCommandsImpl struct {
	userRepo   UserRepository
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(userRepo UserRepository, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		userRepo:   userRepo,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*AuthResult, error) {
	email, pass, role, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidUserInput)
	}

	hash, err := password.HashPassword(pass.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	account := user.NewUser(email, hash, role, req.DisplayName)
	if err := a.userRepo.Create(ctx, account); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := a.jwtService.GenerateToken(account.ID(), account.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &AuthResult{
		UserID: account.ID(),
		Role:   account.Role().String(),
		Token:  token,
	}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*AuthResult, error) {
	credential, err := a.readStore.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, ErrInvalidCredentials
	}
	if credential == nil {
		return nil, ErrUserNotFound
	}
	if !credential.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(credential.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(credential.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	token, err := a.jwtService.GenerateToken(credential.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &AuthResult{
		UserID: credential.ID,
		Role:   credential.Role,
		Token:  token,
	}, nil
}
