package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/repository"
)

var (
	ErrOrganizerEmailExists = repository.ErrOrganizerEmailExists
	ErrWrongPassword        = errors.New("wrong password")
)

type AuthOrganizerRepository interface {
	Create(ctx context.Context, organizer domain.Organizer) (domain.Organizer, error)
	FindByEmail(ctx context.Context, email string) (domain.Organizer, error)
}

type AuthService struct {
	repo AuthOrganizerRepository
}

func NewAuthService(repo AuthOrganizerRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Signup(ctx context.Context, organizer domain.Organizer) (domain.Organizer, error) {
	hash, err := hashPassword(organizer.Password)
	if err != nil {
		return domain.Organizer{}, err
	}
	organizer.Password = hash
	organizer.Email = normalizeEmail(organizer.Email)

	created, err := s.repo.Create(ctx, organizer)
	if err != nil {
		return domain.Organizer{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Organizer, error) {
	organizer, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrOrganizerNotFound) {
			return domain.Organizer{}, ErrOrganizerNotFound
		}

		return domain.Organizer{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(organizer.Password), []byte(password)); err != nil {
		return domain.Organizer{}, ErrWrongPassword
	}

	return organizer, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
