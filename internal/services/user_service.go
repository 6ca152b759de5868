package services

import (
	"database/sql"
	"errors"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService { return &UserService{Users: users} }

func (s *UserService) Get(id int64) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *UserService) UpdateProfile(id int64, name, address string) (*domain.User, error) {
	if name == "" && address == "" {
		return nil, ErrInvalidArgument
	}
	if err := s.Users.UpdateProfile(id, name, address); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *UserService) List() ([]domain.User, error) {
	return s.Users.List()
}

func (s *UserService) ListByRole(roleName string) ([]domain.User, error) {
	if _, err := s.Users.RoleByName(roleName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Users.ListByRole(roleName)
}

// AddStaff creates a supplier or delivery account on behalf of an admin.
// Customers self-register through the OTP flow and admins are seeded, so
// any other role here is an invalid argument.
func (s *UserService) AddStaff(phone, name, roleName string) (*domain.User, error) {
	if !domain.StaffRole(roleName) {
		return nil, ErrInvalidArgument
	}
	if _, err := s.Users.ByPhone(phone); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	role, err := s.Users.RoleByName(roleName)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(phone, name, role.ID)
	if err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}
