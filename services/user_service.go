package services

import (
	"context"
	"fmt"
	"strings"

	"quizzical/models"
	"quizzical/queries"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := selectAll(ctx, s.db, queries.AllUsers(), &users)
	return users, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := selectOne(ctx, s.db, queries.UserWithEmail(normalizeEmail(email)), &user); err != nil {
		return nil, fmt.Errorf("user %q: %w", email, err)
	}
	return &user, nil
}

func (s *UserService) GetUserWithID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := selectOne(ctx, s.db, queries.UserWithID(id), &user); err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &user, nil
}

// CreateUser fails with ErrConflict when the email is already registered.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	user := models.User{Name: strings.TrimSpace(req.Name), Email: normalizeEmail(req.Email)}
	if user.Name == "" {
		return nil, invalidf("name is required")
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}
