package auth

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	"github.com/jwalitptl/clinic-ops-api/internal/repository"
	"github.com/jwalitptl/clinic-ops-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
	"github.com/jwalitptl/clinic-ops-api/pkg/security"
)

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	jwt    auth.JWTService
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, jwt auth.JWTService) *Service {
	return &Service{repo: repo, hasher: hasher, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password: %v", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     req.FullName,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (string, *model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return "", nil, apperrors.Unauthorized("invalid username or password")
	}

	token, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}
