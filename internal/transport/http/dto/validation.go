package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/real-time-ressys/services/contacts-service/internal/domain"
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("email_pattern", validateEmailPattern)
	_ = validate.RegisterValidation("subscription", validateSubscription)

	enLocale := en.New()
	trans, _ = ut.New(enLocale, enLocale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	registerTranslation("email_pattern", "{0} must be a valid email address")
	registerTranslation("subscription", "{0} must be one of starter, pro, business")
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Field() + " is invalid"
			}
			return msg
		},
	)
}

func validateEmailPattern(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// empty is accepted and means the default tier
func validateSubscription(fl validator.FieldLevel) bool {
	_, err := domain.ParseSubscription(fl.Field().String())
	return err == nil
}

// Validate checks req against its struct tags and returns the first failure
// as a domain error: missing_field for "required", invalid_field otherwise.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	if fe.Tag() == "required" {
		return domain.ErrMissingField(fe.Field())
	}
	return domain.ErrInvalidField(fe.Field(), fe.Translate(trans))
}
