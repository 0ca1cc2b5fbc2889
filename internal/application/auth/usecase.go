package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/domain/repository"
	"github.com/jhoicas/yarn-inventory/pkg/jwt"
)

// TokenConfig settings for API bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// dummyHash keeps the unknown-user path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// AuthUseCase login, logout, tokens and account creation.
type AuthUseCase struct {
	userRepo repository.UserRepository
	recorder *audit.Recorder
	tokenCfg TokenConfig
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(userRepo repository.UserRepository, recorder *audit.Recorder, tokenCfg TokenConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, recorder: recorder, tokenCfg: tokenCfg}
}

// Login checks the credentials and returns the identity to store in the session.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (entity.Identity, error) {
	user, err := uc.authenticate(ctx, in)
	if err != nil {
		return entity.Identity{}, err
	}
	who := user.Identity()
	uc.recorder.Record(ctx, who, entity.ActionLogin, entity.TableUsers, "User logged in")
	return who, nil
}

// Logout records the end of a session.
func (uc *AuthUseCase) Logout(ctx context.Context, who entity.Identity) {
	if who.IsZero() {
		return
	}
	uc.recorder.Record(ctx, who, entity.ActionLogout, entity.TableUsers, "User logged out")
}

// IssueToken exchanges credentials for a bearer token valid for the session idle timeout.
func (uc *AuthUseCase) IssueToken(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	who := user.Identity()
	token, err := jwt.Generate(uc.tokenCfg.Secret, uc.tokenCfg.Issuer, jwt.Subject{
		UserID:   who.UserID,
		Username: who.Username,
		Email:    who.Email,
		Role:     who.Role,
	}, uc.tokenCfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	uc.recorder.Record(ctx, who, entity.ActionLogin, entity.TableUsers, "API token issued")
	return &dto.TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(uc.tokenCfg.TTL),
		User:      who,
	}, nil
}

// RegisterUser hashes the password with bcrypt and stores a new account.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterUserRequest) (entity.Identity, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := dto.Validate(in); err != nil {
		return entity.Identity{}, err
	}
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return entity.Identity{}, err
	}
	if existing != nil {
		return entity.Identity{}, fmt.Errorf("%w: username %q is taken", domain.ErrDuplicate, in.Username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return entity.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(in.Email),
		Role:         in.Role,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return entity.Identity{}, err
	}
	return user.Identity(), nil
}

func (uc *AuthUseCase) authenticate(ctx context.Context, in dto.LoginRequest) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := dto.Validate(in); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
