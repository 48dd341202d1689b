package user

import (
	"context"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Education string

const (
	EducationHighSchool Education = "high_school"
	EducationAssociate  Education = "associate"
	EducationBachelor   Education = "bachelor"
	EducationMaster     Education = "master"
	EducationDoctorate  Education = "doctorate"
)

type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

const MaxLifePhotos = 3

// User is the single persisted entity. PasswordHash never leaves the server.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"`
	Nickname         string     `json:"nickname"`
	Gender           Gender     `json:"gender"`
	Email            *string    `json:"email"`
	EmailPrivacy     Privacy    `json:"email_privacy"`
	Age              *int       `json:"age"`
	AgePrivacy       Privacy    `json:"age_privacy"`
	Height           *int       `json:"height"`
	HeightPrivacy    Privacy    `json:"height_privacy"`
	Education        *Education `json:"education"`
	EducationPrivacy Privacy    `json:"education_privacy"`
	Avatar           string     `json:"avatar"`
	LifePhotos       []string   `json:"life_photos"`
	Description      string     `json:"description"`
	IsPublic         bool       `json:"is_public"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLogin        *time.Time `json:"last_login"`
}

// ProfileFields holds everything the owner may replace after registration.
type ProfileFields struct {
	Nickname         string     `json:"nickname" validate:"required,max=20"`
	Gender           Gender     `json:"gender" validate:"required,oneof=male female other"`
	Email            *string    `json:"email" validate:"omitempty,max=128,emailshape"`
	EmailPrivacy     Privacy    `json:"email_privacy" validate:"oneof=public private"`
	Age              *int       `json:"age" validate:"omitempty,min=10,max=150"`
	AgePrivacy       Privacy    `json:"age_privacy" validate:"oneof=public private"`
	Height           *int       `json:"height" validate:"omitempty,min=100,max=250"`
	HeightPrivacy    Privacy    `json:"height_privacy" validate:"oneof=public private"`
	Education        *Education `json:"education" validate:"omitempty,oneof=high_school associate bachelor master doctorate"`
	EducationPrivacy Privacy    `json:"education_privacy" validate:"oneof=public private"`
	Avatar           string     `json:"avatar" validate:"required,uri"`
	LifePhotos       []string   `json:"life_photos" validate:"max=3,dive,required,uri"`
	Description      string     `json:"description" validate:"required,max=200"`
	IsPublic         bool       `json:"is_public"`
}

// Registration is a sign-up candidate.
type Registration struct {
	Username string `json:"username" validate:"min=6,max=32"`
	Password string `json:"password" validate:"min=6,max=64,strongpwd"`
	ProfileFields
}

// NewFromRegistration builds the record to insert; the hash must already be computed.
func NewFromRegistration(r Registration, passwordHash string, now time.Time) *User {
	u := &User{
		Username:     r.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
	u.Apply(r.ProfileFields)
	return u
}

// Apply overwrites every mutable field.
func (u *User) Apply(p ProfileFields) {
	u.Nickname = p.Nickname
	u.Gender = p.Gender
	u.Email = p.Email
	u.EmailPrivacy = p.EmailPrivacy
	u.Age = p.Age
	u.AgePrivacy = p.AgePrivacy
	u.Height = p.Height
	u.HeightPrivacy = p.HeightPrivacy
	u.Education = p.Education
	u.EducationPrivacy = p.EducationPrivacy
	u.Avatar = p.Avatar
	u.LifePhotos = append([]string{}, p.LifePhotos...)
	u.Description = p.Description
	u.IsPublic = p.IsPublic
}

// PhotoURLs lists every stored image reference of the record.
func (u *User) PhotoURLs() []string {
	urls := make([]string, 0, 1+len(u.LifePhotos))
	if u.Avatar != "" {
		urls = append(urls, u.Avatar)
	}
	return append(urls, u.LifePhotos...)
}

type Repository interface {
	Create(ctx context.Context, u *User) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, p ProfileFields) (*User, error)
	// Delete removes the record and returns it as it was before removal.
	Delete(ctx context.Context, id int64) (*User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	ListDirectory(ctx context.Context, filter DirectoryFilter) ([]*User, error)
}
