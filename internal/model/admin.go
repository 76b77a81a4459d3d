package model

import "golang.org/x/crypto/bcrypt"

// Admin can view and impersonate every dairy. It has no dairy of its own.
type Admin struct {
	BaseModel
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
}

// SetPassword hashes and sets the admin's password
func (a *Admin) SetPassword(password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	a.Password = hashed
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (a *Admin) CheckPassword(password string) bool {
	return checkPassword(a.Password, password)
}

func hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func checkPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
