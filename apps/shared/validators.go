// Package shared holds the wiring both apps need.
package shared

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/programme"
)

// NewValidator returns a validator with the global and every entity specific rule registered.
func NewValidator(conf *core.Config) (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator, conf)
	return validate, translator
}

// InitValidators registers the entity specific rules on an already initialized validator.
func InitValidators(validate *validator.Validate, translator ut.Translator, conf *core.Config) {
	var maxImageSize int64
	if conf != nil {
		maxImageSize = conf.Epreuve.MaxImageSize
	}
	auth.InitValidators(validate, translator)
	programme.InitValidators(validate, translator)
	epreuve.InitValidators(validate, translator, maxImageSize)
}
