package model

// Dairy is a tenant: an independently operated business with its own
// products and events. Dairies are never hard-deleted.
type Dairy struct {
	BaseModel
	Name     string  `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	Username string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required"`
	Password string  `gorm:"type:varchar(255);not null" json:"-"`
	LogoPath *string `gorm:"type:varchar(255)" json:"logo_path,omitempty"`
}

func (d *Dairy) SetPassword(password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	d.Password = hashed
	return nil
}

func (d *Dairy) CheckPassword(password string) bool {
	return checkPassword(d.Password, password)
}

// Logo returns the stored logo path or "".
func (d *Dairy) Logo() string {
	if d == nil || d.LogoPath == nil {
		return ""
	}
	return *d.LogoPath
}
