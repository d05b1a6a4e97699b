package services

import (
	"database/sql"
	"errors"
	"strings"

	"farmlink/internal/apperr"
	"farmlink/internal/domain"
	"farmlink/internal/repos"
	"farmlink/internal/validate"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService {
	return &UserService{Users: users}
}

// Upsert creates the user on first login and refreshes name/photo (and
// updated_at) on every later one. Email and created_at never change.
func (s *UserService) Upsert(email, name, photo string) (domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return domain.User{}, apperr.Validationf("email is required")
	}
	name, ok = validate.Name(name)
	if !ok {
		return domain.User{}, apperr.Validationf("name is required")
	}

	now := domain.Now()
	u := domain.User{
		Email:     strings.ToLower(email),
		Name:      name,
		Photo:     strings.TrimSpace(photo),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Upsert(&u); err != nil {
		return domain.User{}, apperr.Wrap("upsert user", err)
	}
	return s.Get(u.Email)
}

func (s *UserService) Get(email string) (domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.NotFoundf("user not found")
	}
	if err != nil {
		return domain.User{}, apperr.Wrap("get user", err)
	}
	return u, nil
}

// Patch updates name and/or photo; at least one must be supplied.
func (s *UserService) Patch(email string, name, photo *string) (domain.User, error) {
	if name == nil && photo == nil {
		return domain.User{}, apperr.Validationf("nothing to update")
	}
	if name != nil {
		n, ok := validate.Name(*name)
		if !ok {
			return domain.User{}, apperr.Validationf("name must not be empty")
		}
		name = &n
	}
	if photo != nil {
		p := strings.TrimSpace(*photo)
		photo = &p
	}

	n, err := s.Users.Patch(email, name, photo, domain.Now())
	if err != nil {
		return domain.User{}, apperr.Wrap("patch user", err)
	}
	if n == 0 {
		return domain.User{}, apperr.NotFoundf("user not found")
	}
	return s.Get(email)
}
