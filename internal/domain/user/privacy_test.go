package user

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRecord() *User {
	return &User{
		ID:               1,
		Username:         "alice01",
		PasswordHash:     "$2a$10$secret",
		Nickname:         "Alice",
		Gender:           GenderFemale,
		Email:            strPtr("alice@example.com"),
		EmailPrivacy:     PrivacyPublic,
		Age:              intPtr(25),
		AgePrivacy:       PrivacyPublic,
		Height:           intPtr(165),
		HeightPrivacy:    PrivacyPublic,
		Education:        eduPtr(EducationMaster),
		EducationPrivacy: PrivacyPublic,
		Avatar:           "https://cdn.example.com/a.jpg",
		LifePhotos:       []string{"https://cdn.example.com/1.jpg"},
		Description:      "hi",
		IsPublic:         true,
		CreatedAt:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestToPublicProfile_AllPublic(t *testing.T) {
	p := ToPublicProfile(fullRecord())

	require.NotNil(t, p.Email)
	require.NotNil(t, p.Age)
	require.NotNil(t, p.Height)
	require.NotNil(t, p.Education)
	assert.Equal(t, 25, *p.Age)
	assert.Equal(t, EducationMaster, *p.Education)
}

func TestToPublicProfile_EachPrivateFieldIsOmitted(t *testing.T) {
	for _, f := range GatedFields {
		t.Run(string(f), func(t *testing.T) {
			u := fullRecord()
			switch f {
			case FieldEmail:
				u.EmailPrivacy = PrivacyPrivate
			case FieldAge:
				u.AgePrivacy = PrivacyPrivate
			case FieldHeight:
				u.HeightPrivacy = PrivacyPrivate
			case FieldEducation:
				u.EducationPrivacy = PrivacyPrivate
			}

			b, err := json.Marshal(ToPublicProfile(u))
			require.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.Unmarshal(b, &body))

			for _, other := range GatedFields {
				_, present := body[other.Column()]
				assert.Equal(t, other != f, present, "field %s", other)
			}
			assert.NotContains(t, body, "password")
			assert.NotContains(t, body, "password_hash")
		})
	}
}

func TestToPublicProfile_UnknownPrivacyFailsClosed(t *testing.T) {
	u := fullRecord()
	u.AgePrivacy = ""
	u.HeightPrivacy = "friends-only"

	p := ToPublicProfile(u)
	assert.Nil(t, p.Age)
	assert.Nil(t, p.Height)
}

func TestToPublicProfile_NilPhotosBecomeEmpty(t *testing.T) {
	u := fullRecord()
	u.LifePhotos = nil

	b, err := json.Marshal(ToPublicProfile(u))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"life_photos":[]`)
}

func TestGatedField_Columns(t *testing.T) {
	assert.Equal(t, "age", FieldAge.Column())
	assert.Equal(t, "age_privacy", FieldAge.PrivacyColumn())
	assert.Equal(t, "education_privacy", FieldEducation.PrivacyColumn())
}

func TestDecodePhotos(t *testing.T) {
	cases := map[string]struct {
		raw  *string
		want []string
	}{
		"nil":       {nil, []string{}},
		"empty":     {strPtr(""), []string{}},
		"null":      {strPtr("null"), []string{}},
		"malformed": {strPtr("[\"a\","), []string{}},
		"object":    {strPtr(`{"a":1}`), []string{}},
		"ok":        {strPtr(`["a","b","c"]`), []string{"a", "b", "c"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodePhotos(tc.raw))
		})
	}
}

func TestEncodePhotos_RoundTripKeepsOrder(t *testing.T) {
	in := []string{"https://x/3.jpg", "https://x/1.jpg", "https://x/2.jpg"}
	raw := EncodePhotos(in)
	assert.Equal(t, in, DecodePhotos(&raw))

	empty := EncodePhotos(nil)
	assert.Equal(t, "[]", empty)
}

func TestDirectoryFilter_Normalize(t *testing.T) {
	f := DirectoryFilter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, 0, f.Offset())

	f = DirectoryFilter{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, 200, f.Offset())

	assert.Equal(t, 12, DirectoryFilter{Page: 2}.Offset())
}

func TestDirectoryFilter_HugePageIsCapped(t *testing.T) {
	f := DirectoryFilter{Page: math.MaxInt64 / 6, PageSize: MaxPageSize}.Normalize()
	assert.Equal(t, MaxPage, f.Page)
	assert.Greater(t, f.Offset(), 0)
}
