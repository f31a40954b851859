package auth

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

type Admin struct {
	ID    string `json:"id" yaml:"id"`
	Nom   string `json:"nom" yaml:"nom"`
	Email string `json:"email" yaml:"email"`
}

func (a Admin) GetID() string { return a.ID }

// Session is what a successful login yields and what is persisted between runs.
type Session struct {
	Admin Admin
	Token string
}

func (s Session) IsZero() bool { return s.Token == "" }

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// NewAdmin is the registration payload.
type NewAdmin struct {
	Nom             string `json:"nom" validate:"required,notblank,max=255"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirmation" validate:"eqfield=Password"`
}

func (na *NewAdmin) Validate(validate *validator.Validate) error {
	na.Nom = core.CleanString(na.Nom)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}
