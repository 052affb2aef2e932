package types

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// courseCodeFormat is the loose code shape accepted from form input.
var courseCodeFormat = regexp.MustCompile(`^\s*[A-Za-z]{2,4}\s*\d{3,4}`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
			return courseCodeFormat.MatchString(fl.Field().String())
		})
	})
	return validate
}

// CourseInput represents the manual course entry form.
type CourseInput struct {
	Code     string  `json:"code" validate:"required,coursecode"`
	Title    string  `json:"title" validate:"required"`
	Credits  float64 `json:"credits" validate:"gt=0"`
	Status   string  `json:"status" validate:"required,oneof=completed planned in-progress"`
	Semester string  `json:"semester,omitempty"`
	Grade    string  `json:"grade,omitempty" validate:"omitempty,oneof=A A- B+ B B- C+ C C- D+ D D- F I IP S U X P W AU"`
}

// Validate validates the CourseInput using the validator.
func (in *CourseInput) Validate() error {
	in.Code = strings.TrimSpace(in.Code)
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Grade = strings.ToUpper(strings.TrimSpace(in.Grade))
	return getValidator().Struct(in)
}
