package user

import "time"

// GatedField is a profile attribute whose exposure is controlled by its own privacy flag.
// The same flag governs both display and directory filtering.
type GatedField string

const (
	FieldEmail     GatedField = "email"
	FieldAge       GatedField = "age"
	FieldHeight    GatedField = "height"
	FieldEducation GatedField = "education"
)

var GatedFields = []GatedField{FieldEmail, FieldAge, FieldHeight, FieldEducation}

func (f GatedField) Column() string {
	return string(f)
}

func (f GatedField) PrivacyColumn() string {
	return string(f) + "_privacy"
}

func (u *User) PrivacyOf(f GatedField) Privacy {
	switch f {
	case FieldEmail:
		return u.EmailPrivacy
	case FieldAge:
		return u.AgePrivacy
	case FieldHeight:
		return u.HeightPrivacy
	case FieldEducation:
		return u.EducationPrivacy
	}
	return PrivacyPrivate
}

// Visible reports whether other users may see f. Anything but an explicit
// "public" counts as private.
func (u *User) Visible(f GatedField) bool {
	return u.PrivacyOf(f) == PrivacyPublic
}

// PublicProfile is what a viewer other than the owner receives. Hidden gated
// fields are nil and dropped from JSON entirely.
type PublicProfile struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Nickname    string     `json:"nickname"`
	Gender      Gender     `json:"gender"`
	Email       *string    `json:"email,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Height      *int       `json:"height,omitempty"`
	Education   *Education `json:"education,omitempty"`
	Avatar      string     `json:"avatar"`
	LifePhotos  []string   `json:"life_photos"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"is_public"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login"`
}

func ToPublicProfile(u *User) PublicProfile {
	p := PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Gender:      u.Gender,
		Avatar:      u.Avatar,
		LifePhotos:  u.LifePhotos,
		Description: u.Description,
		IsPublic:    u.IsPublic,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
	if p.LifePhotos == nil {
		p.LifePhotos = []string{}
	}
	for _, f := range GatedFields {
		if !u.Visible(f) {
			continue
		}
		switch f {
		case FieldEmail:
			p.Email = u.Email
		case FieldAge:
			p.Age = u.Age
		case FieldHeight:
			p.Height = u.Height
		case FieldEducation:
			p.Education = u.Education
		}
	}
	return p
}
