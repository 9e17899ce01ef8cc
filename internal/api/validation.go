package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var httpURLPattern = regexp.MustCompile(`^https?://.+$`)

// RegisterValidators adds the custom validation tags used by request models to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return httpURLPattern.MatchString(fl.Field().String())
	})
}

// validationDetails turns binding errors into a field -> message map. Errors that are not
// validation errors (e.g. malformed JSON) come back as a single message.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[jsonFieldName(fe.Field())] = validationMessage(fe)
	}
	return details
}

func jsonFieldName(field string) string {
	switch field {
	case "PhotoURL":
		return "photoURL"
	default:
		return strings.ToLower(field[:1]) + field[1:]
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "httpurl":
		return "must be an http or https URL"
	default:
		return "is invalid"
	}
}
