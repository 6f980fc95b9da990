package repositories

import "gearstore/internal/models"

// User sort orders accepted by UserQuery.
const (
	UserSortAdminFirst   = "admin_first"
	UserSortUsernameAsc  = "username_asc"
	UserSortUsernameDesc = "username_desc"
	UserSortNewest       = "newest"
	UserSortOldest       = "oldest"
)

// UserQuery describes an admin user listing request.
type UserQuery struct {
	Search string
	Sort   string
	Offset int
	Limit  int
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	List(query UserQuery) ([]models.User, int64, error)
	Delete(id string) error
}
