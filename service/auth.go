// Package service implements the session gateway: credential verification,
// token issuance and validation, logout-time revocation, and user management.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AllanSJoseph/AlgoHub/crypto"
	"github.com/AllanSJoseph/AlgoHub/data/repository"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/AllanSJoseph/AlgoHub/security/jwt"
	"github.com/AllanSJoseph/AlgoHub/structs"
)

var (
	// ErrInvalidCredentials covers every login failure mode. It deliberately
	// does not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token that failed validation or was revoked.
	ErrInvalidToken = errors.New("invalid token")
)

// Service composes the stores and the token codec into session operations.
type Service struct {
	users     repository.UserRepository
	blacklist repository.TokenBlacklist
	tokens    *jwt.TokenManager
	logger    *logger.Logger
}

// NewService creates the session gateway.
func NewService(users repository.UserRepository, blacklist repository.TokenBlacklist, tokens *jwt.TokenManager, logger *logger.Logger) *Service {
	return &Service{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a user with role "user". No session is issued: the user
// logs in separately after registering.
func (s *Service) Register(ctx context.Context, req *structs.RegisterRequest) error {
	_, err := s.createUser(ctx, req, structs.RoleUser)
	return err
}

// AdminRegister creates a user with role "admin" and issues a session token
// immediately.
func (s *Service) AdminRegister(ctx context.Context, req *structs.RegisterRequest) (*structs.UserProfile, string, error) {
	user, err := s.createUser(ctx, req, structs.RoleAdmin)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID.Hex(), user.EmailID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user.Profile(), token, nil
}

func (s *Service) createUser(ctx context.Context, req *structs.RegisterRequest, role structs.Role) (*repository.User, error) {
	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &repository.User{
		FirstName:    req.FirstName,
		EmailID:      req.EmailID,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID.Hex(), "role", role)
	return user, nil
}

// Login verifies credentials and issues a session token. Every failure mode
// collapses into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req *structs.LoginRequest) (*structs.UserProfile, string, error) {
	if req.EmailID == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, req.EmailID)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !crypto.ComparePassword(user.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID.Hex(), user.EmailID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID.Hex())
	return user.Profile(), token, nil
}

// Logout revokes the presented token until its natural expiry. Revocation is
// best-effort: an unreachable revocation store is logged and swallowed so the
// caller can still clear the cookie. Logout is idempotent; an empty or
// undecodable token is already logged out.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	claims, err := s.tokens.DecodeUnverified(token)
	if err != nil {
		return
	}

	expiresAt, err := jwt.GetTokenExpiryTime(claims)
	if err != nil {
		return
	}

	if err := s.blacklist.Block(ctx, token, expiresAt); err != nil {
		s.logger.Warn(ctx, "token revocation skipped, store unavailable", "error", err)
		return
	}

	s.logger.Info(ctx, "token revoked", "user_id", jwt.GetUserIDFromToken(claims))
}

// ValidateToken verifies a presented token and checks the revocation store.
// An unreachable revocation store fails open: the token stays usable until
// natural expiry.
func (s *Service) ValidateToken(ctx context.Context, token string) (*structs.Identity, error) {
	claims, err := s.tokens.DecodeToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	blocked, err := s.blacklist.IsBlocked(ctx, token)
	if err != nil {
		s.logger.Warn(ctx, "revocation check unavailable, failing open", "error", err)
	} else if blocked {
		return nil, ErrInvalidToken
	}

	identity := &structs.Identity{
		ID:    jwt.GetUserIDFromToken(claims),
		Email: jwt.GetEmailFromToken(claims),
		Role:  structs.Role(jwt.GetRoleFromToken(claims)),
	}
	if identity.ID == "" || !identity.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return identity, nil
}

// GetProfile returns the public profile of the given user.
func (s *Service) GetProfile(ctx context.Context, userID string) (*structs.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// DeleteAccount deletes the caller's own user record. Outstanding tokens for
// the identity are not revoked; they expire naturally.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}

// ListUsers returns all user profiles, newest first, without password hashes.
func (s *Service) ListUsers(ctx context.Context) ([]*structs.UserProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*structs.UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// DeleteUserByID deletes a user by id on behalf of an admin.
func (s *Service) DeleteUserByID(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}
