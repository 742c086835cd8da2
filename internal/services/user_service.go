package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hostelcare/hostelcare/internal/database"
)

// UserService manages accounts and credentials.
type UserService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewUserService creates a new user service.
func NewUserService(db *gorm.DB, notifier Notifier) *UserService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &UserService{db: db, notifier: notifier}
}

// SignupInput holds the fields accepted at account creation.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     database.UserRole
	Hostel   string
	Block    string
	Room     string
}

// Signup creates a new account with a bcrypt password hash.
func (s *UserService) Signup(input SignupInput) (*database.User, error) {
	var existing database.User
	if err := s.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, NewValidationError("Email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = database.UserRoleStudent
	}

	user := &database.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Hostel:       input.Hostel,
		Block:        input.Block,
		Room:         input.Room,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserService) Authenticate(email, password string) (*database.User, error) {
	user, err := database.FindUserByEmail(s.db, email)
	if err != nil {
		return nil, NewValidationError("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, NewValidationError("Invalid credentials")
	}
	return user, nil
}

// GetUser returns a user by public id.
func (s *UserService) GetUser(userID string) (*database.User, error) {
	user, err := database.FindUserByUUID(s.db, userID)
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput holds the optional profile fields a user may change.
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Hostel *string
	Block  *string
	Room   *string
	Avatar *string
}

// UpdateProfile applies the provided profile changes to the user's own
// account.
func (s *UserService) UpdateProfile(actor Actor, input UpdateProfileInput) (*database.User, error) {
	user, err := s.GetUser(actor.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil && *input.Name != "" {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Hostel != nil && *input.Hostel != "" {
		updates["hostel"] = *input.Hostel
	}
	if input.Block != nil && *input.Block != "" {
		updates["block"] = *input.Block
	}
	if input.Room != nil && *input.Room != "" {
		updates["room"] = *input.Room
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		if err := s.db.Where("uuid = ?", user.UUID).First(user).Error; err != nil {
			return nil, err
		}
	}

	s.notifier.Broadcast(EventUserUpdated, user)
	return user, nil
}
