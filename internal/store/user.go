package store

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalUser is an AAA login account provisioned with the
// "local-user <name> password irreversible-cipher <password>" command.
type LocalUser struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string
}

func (s *Store) CreateLocalUser(username, password string) error {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	user := LocalUser{
		Username:     username,
		PasswordHash: string(bytes),
	}

	result := s.DB.Create(&user)
	return result.Error
}

func (s *Store) FindLocalUser(username string) (*LocalUser, error) {
	var user LocalUser
	result := s.DB.Where("username = ?", username).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *Store) ListLocalUsers() ([]LocalUser, error) {
	var users []LocalUser
	result := s.DB.Order("username").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *Store) RemoveLocalUser(username string) error {
	return s.DB.Unscoped().
		Where("username = ?", username).
		Delete(&LocalUser{}).Error
}

func (s *Store) Authenticate(username, password string) (*LocalUser, error) {
	var user LocalUser

	result := s.DB.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, result.Error
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid password")
	}

	return &user, nil
}
