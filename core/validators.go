package core

import (
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	imageFileTag  = "imagefile"
	imageFileText = "only png, jpg, jpeg and webp images are allowed"
	imageExts     = []string{".jpeg", ".jpg", ".png", ".webp"} // sorted

	// DateOrderTag is reported by struct level validators when an end date/hour precedes its start.
	DateOrderTag  = "dateorder"
	dateOrderText = "{0} must not be before the start"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"

	// DateLayout is the layout of every date field exchanged with the platform API.
	DateLayout = "2006-01-02"
	// TimeLayout is the layout of every hour field (eg. sub-programme slots).
	TimeLayout = "15:04"
)

// NewValidator returns a validator and an english translator with all the global validators registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	InitValidators(validate, translator)
	return validate, translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(imageFileTag, imageFileValidation)
	RegisterCustomTranslation(validate, translator, imageFileTag, imageFileText)

	RegisterCustomTranslation(validate, translator, DateOrderTag, dateOrderText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldMessages turns a validation failure into one message per field.
// It returns nil for errors that carry no field information.
func FieldMessages(err error, translator ut.Translator) []FieldError {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make([]FieldError, 0, len(origErr))
		for _, vErr := range origErr {
			flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
		}
		return flds
	case *ValidationError:
		return origErr.Fields
	}
	if apiErr, ok := AsAPIError(err); ok && len(apiErr.Fields) > 0 {
		return apiErr.FieldMessages()
	}
	return nil
}

// InOrder reports whether end is not before start, both parsed with layout.
// Empty or malformed values are left to the field validators and reported as in order.
func InOrder(start, end, layout string, strict bool) bool {
	s, err := time.Parse(layout, CleanString(start))
	if err != nil {
		return true
	}
	e, err := time.Parse(layout, CleanString(end))
	if err != nil {
		return true
	}
	if strict {
		return e.After(s)
	}
	return !e.Before(s)
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// imageFileValidation checks the extension of an image file path.
func imageFileValidation(fl validator.FieldLevel) bool {
	ext := strings.ToLower(filepath.Ext(fl.Field().String()))
	idx := sort.SearchStrings(imageExts, ext)
	return idx < len(imageExts) && imageExts[idx] == ext
}
