package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

// OptionalInt accepts a JSON number, a numeric string, "" or null. Forms post
// numbers as strings, and an empty input means "not provided".
type OptionalInt struct {
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		o.Value = nil
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			o.Value = nil
			return nil
		}
	} else {
		raw = string(data)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%q is not an integer", raw)
	}
	o.Value = &v
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*o.Value)), nil
}

// ProfileRequest is the editable part of a profile as posted by the client.
type ProfileRequest struct {
	Nickname         string      `json:"nickname"`
	Gender           string      `json:"gender"`
	Email            *string     `json:"email"`
	EmailPrivacy     string      `json:"email_privacy"`
	Age              OptionalInt `json:"age"`
	AgePrivacy       string      `json:"age_privacy"`
	Height           OptionalInt `json:"height"`
	HeightPrivacy    string      `json:"height_privacy"`
	Education        *string     `json:"education"`
	EducationPrivacy string      `json:"education_privacy"`
	Avatar           string      `json:"avatar"`
	LifePhotos       []string    `json:"life_photos"`
	Description      string      `json:"description"`
	IsPublic         *bool       `json:"is_public"`
}

// ToFields maps the request onto the domain. An omitted is_public means public.
func (r ProfileRequest) ToFields() user.ProfileFields {
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}
	var edu *user.Education
	if r.Education != nil {
		e := user.Education(*r.Education)
		edu = &e
	}
	return user.ProfileFields{
		Nickname:         r.Nickname,
		Gender:           user.Gender(r.Gender),
		Email:            r.Email,
		EmailPrivacy:     user.Privacy(r.EmailPrivacy),
		Age:              r.Age.Value,
		AgePrivacy:       user.Privacy(r.AgePrivacy),
		Height:           r.Height.Value,
		HeightPrivacy:    user.Privacy(r.HeightPrivacy),
		Education:        edu,
		EducationPrivacy: user.Privacy(r.EducationPrivacy),
		Avatar:           r.Avatar,
		LifePhotos:       r.LifePhotos,
		Description:      r.Description,
		IsPublic:         isPublic,
	}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	CaptchaID   string `json:"captchaId"`
	CaptchaText string `json:"captchaText"`
	ProfileRequest
}

func (r RegisterRequest) ToRegistration() user.Registration {
	return user.Registration{
		Username:      r.Username,
		Password:      r.Password,
		ProfileFields: r.ProfileRequest.ToFields(),
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerifyCaptchaRequest struct {
	CaptchaID   string `json:"captchaId"`
	CaptchaText string `json:"captchaText"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type DirectoryResponse struct {
	Users    []user.PublicProfile `json:"users"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}
