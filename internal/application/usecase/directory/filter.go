package directory

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
)

// FilterFromQuery reads a directory filter from query parameters. Empty
// parameters are inactive; malformed ones are reported together.
func FilterFromQuery(q url.Values) (user.DirectoryFilter, error) {
	var (
		f          user.DirectoryFilter
		violations []apperror.FieldViolation
	)

	intParam := func(names ...string) *int {
		for _, name := range names {
			raw := strings.TrimSpace(q.Get(name))
			if raw == "" {
				continue
			}
			v, err := strconv.Atoi(raw)
			if err != nil {
				violations = append(violations, apperror.FieldViolation{Field: name, Rule: "int", Message: "must be an integer"})
				return nil
			}
			return &v
		}
		return nil
	}

	if g := strings.ToLower(strings.TrimSpace(q.Get("gender"))); g != "" {
		gender := user.Gender(g)
		switch gender {
		case user.GenderMale, user.GenderFemale, user.GenderOther:
			f.Gender = &gender
		default:
			violations = append(violations, apperror.FieldViolation{Field: "gender", Rule: "oneof", Message: "must be one of: male, female, other"})
		}
	}
	if e := strings.TrimSpace(q.Get("education")); e != "" {
		edu := user.Education(e)
		switch edu {
		case user.EducationHighSchool, user.EducationAssociate, user.EducationBachelor, user.EducationMaster, user.EducationDoctorate:
			f.Education = &edu
		default:
			violations = append(violations, apperror.FieldViolation{
				Field: "education", Rule: "oneof",
				Message: "must be one of: high_school, associate, bachelor, master, doctorate",
			})
		}
	}

	f.MinAge = intParam("minAge")
	f.MaxAge = intParam("maxAge")
	f.MinHeight = intParam("minHeight")
	f.MaxHeight = intParam("maxHeight")
	if p := intParam("page"); p != nil {
		f.Page = *p
	}
	if s := intParam("size", "pageSize"); s != nil {
		f.PageSize = *s
	}

	if len(violations) > 0 {
		return user.DirectoryFilter{}, apperror.NewValidation(violations)
	}
	return f.Normalize(), nil
}
