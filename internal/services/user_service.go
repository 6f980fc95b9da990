package services

import (
	"fmt"

	"gearstore/internal/models"
	"gearstore/internal/repositories"
)

// UserService handles admin user management.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// ListUsers returns one page of registered users with search and sorting
// applied. Page numbers past the last page are clamped to it.
func (s *UserService) ListUsers(search, sort string, page, pageSize int) (*models.PagedUsers, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := repositories.UserQuery{
		Search: search,
		Sort:   sort,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	users, total, err := s.userRepo.List(query)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
		query.Offset = (page - 1) * pageSize
		users, total, err = s.userRepo.List(query)
		if err != nil {
			return nil, err
		}
	}

	for i := range users {
		users[i].Password = "" // never expose hashes
	}
	return &models.PagedUsers{
		Items:    users,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	}, nil
}

// DeleteUser removes a user account and their cart. Admins cannot delete
// themselves, and the default admin account is protected.
func (s *UserService) DeleteUser(requestedBy, id string) error {
	target, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if target.ID == requestedBy {
		return fmt.Errorf("cannot delete your own account")
	}
	if target.Username == "admin" && target.IsAdmin {
		return fmt.Errorf("cannot delete the default admin account")
	}
	return s.userRepo.Delete(id)
}
