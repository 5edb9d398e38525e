package models

type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// LoginInput - используется для валидации логина
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput - используется для валидации регистрации
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email,max=256"`
	Password  string `json:"password" validate:"required,min=6,max=64"`
}

// ProfileInput - profile edit. The password only changes when both passwords
// are supplied; the new one must be at least 6 characters and differ.
type ProfileInput struct {
	FirstName       string `json:"firstName" validate:"required,max=64"`
	LastName        string `json:"lastName" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,email,max=256"`
	CurrentPassword string `json:"currentPassword,omitempty" validate:"required_with=Password"`
	Password        string `json:"password,omitempty" validate:"omitempty,min=6,max=64,nefield=CurrentPassword"`
}

// MissingNewPassword catches a current password sent without a new one,
// which the tags above cannot express after omitempty.
func (p ProfileInput) MissingNewPassword() bool {
	return p.CurrentPassword != "" && p.Password == ""
}

// ChangesPassword reports whether the edit carries a password change.
func (p ProfileInput) ChangesPassword() bool {
	return p.CurrentPassword != "" && p.Password != ""
}

// LoginResult is what POST /users/login answers with.
type LoginResult struct {
	UserID uint   `json:"userId"`
	Token  string `json:"token"`
}
