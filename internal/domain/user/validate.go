package user

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/volc-friends/pkg/apperror"
)

type Violation = apperror.FieldViolation

// Violations lists every failed rule of a candidate, one entry per failing field.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = x.Field + ": " + x.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v Violations) Has(field string) bool {
	for _, x := range v {
		if x.Field == field {
			return true
		}
	}
	return false
}

var (
	emailShape = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[A-Za-z]{2,}$`)
	hasLetter  = regexp.MustCompile(`[A-Za-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.RuneCountInString(s) >= 7 && hasLetter.MatchString(s) && hasDigit.MatchString(s)
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// NormalizeRegistration trims and defaults the candidate, then checks every rule.
func NormalizeRegistration(r Registration) (Registration, Violations) {
	r.Username = strings.TrimSpace(r.Username)
	r.ProfileFields = normalizeFields(r.ProfileFields)
	return r, check(r)
}

// NormalizeProfile is NormalizeRegistration for owner edits.
func NormalizeProfile(p ProfileFields) (ProfileFields, Violations) {
	p = normalizeFields(p)
	return p, check(p)
}

func normalizeFields(p ProfileFields) ProfileFields {
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.Gender = Gender(strings.ToLower(strings.TrimSpace(string(p.Gender))))
	p.Avatar = strings.TrimSpace(p.Avatar)
	p.Description = strings.TrimSpace(p.Description)

	if p.Email != nil {
		e := strings.TrimSpace(*p.Email)
		if e == "" {
			p.Email = nil
		} else {
			p.Email = &e
		}
	}
	if p.Education != nil {
		e := Education(strings.TrimSpace(string(*p.Education)))
		if e == "" {
			p.Education = nil
		} else {
			p.Education = &e
		}
	}

	p.EmailPrivacy = defaultPrivacy(p.EmailPrivacy)
	p.AgePrivacy = defaultPrivacy(p.AgePrivacy)
	p.HeightPrivacy = defaultPrivacy(p.HeightPrivacy)
	p.EducationPrivacy = defaultPrivacy(p.EducationPrivacy)

	photos := make([]string, len(p.LifePhotos))
	for i, ph := range p.LifePhotos {
		photos[i] = strings.TrimSpace(ph)
	}
	p.LifePhotos = photos
	return p
}

func defaultPrivacy(p Privacy) Privacy {
	p = Privacy(strings.ToLower(strings.TrimSpace(string(p))))
	if p == "" {
		return PrivacyPublic
	}
	return p
}

func check(candidate any) Violations {
	err := validate.Struct(candidate)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Violations{{Field: "payload", Rule: "invalid", Message: err.Error()}}
	}
	out := make(Violations, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{
			Field:   violationField(fe),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

// violationField turns "life_photos[1]" into "life_photos" so callers can key on the column.
func violationField(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		return name[:i]
	}
	return name
}

func violationMessage(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return "must be at least " + param
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", param)
		case reflect.Slice:
			return fmt.Sprintf("must contain at most %s items", param)
		}
		return "must be at most " + param
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "uri":
		return "must be a valid URL"
	case "strongpwd":
		return "must be at least 7 characters and contain a letter and a digit"
	case "emailshape":
		return "must be a valid email address"
	}
	return "is invalid"
}
