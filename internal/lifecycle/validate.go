package lifecycle

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/nhle/nphdash/internal/model"
)

// custom validation tags
const (
	notBlankTag     = "notblank"
	calendarDateTag = "calendardate"
)

// ValidationError maps form field names to the message to show under
// each failing field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Validator checks form bindings against their `validate` tags and
// renders English messages keyed by the `form` tag.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a validator with the dashboard's custom tags.
func NewValidator() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Use form tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, notBlankValidation)
	_ = v.RegisterValidation(calendarDateTag, calendarDateValidation)

	// The translator needs a registration func, but the defaults are
	// already registered, so a noop is passed.
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, calendarDateTag} {
		_ = v.RegisterTranslation(tag, trans, registerFn, translateCustomErrs)
	}

	return &Validator{validate: v, translator: trans}
}

// Check validates form. It returns nil or a *ValidationError.
func (v *Validator) Check(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = fe.Translate(v.translator)
	}
	return ve
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case calendarDateTag:
		return fe.Field() + " must be a date like 2024-03-01"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// calendarDateValidation accepts anything NormalizeDate can read. Blank
// values are left to notblank.
func calendarDateValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if strings.TrimSpace(str) == "" {
		return true
	}
	_, err := model.NormalizeDate(str, time.UTC)
	return err == nil
}

// fieldErrors extracts the per-field messages from a Check result.
func fieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
