package persistence

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

func intPtr(v int) *int { return &v }

func TestBuildDirectoryQuery_NoFilters(t *testing.T) {
	sql, args, err := BuildDirectoryQuery(user.DirectoryFilter{})
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM users WHERE (is_public = $1)")
	assert.Contains(t, sql, "ORDER BY created_at ASC, id ASC LIMIT 12 OFFSET 0")
	where := sql[strings.Index(sql, "WHERE"):]
	assert.NotContains(t, where, "_privacy")
	assert.Equal(t, []interface{}{true}, args)
}

func TestBuildDirectoryQuery_AgeRangeIsPrivacyGated(t *testing.T) {
	sql, args, err := BuildDirectoryQuery(user.DirectoryFilter{MinAge: intPtr(20), MaxAge: intPtr(30)})
	require.NoError(t, err)

	assert.Contains(t, sql, "(age >= $2 AND age <= $3 AND age_privacy = $4)")
	assert.Equal(t, []interface{}{true, 20, 30, "public"}, args)
}

func TestBuildDirectoryQuery_SingleBoundStillGated(t *testing.T) {
	sql, args, err := BuildDirectoryQuery(user.DirectoryFilter{MaxHeight: intPtr(180)})
	require.NoError(t, err)

	assert.Contains(t, sql, "(height <= $2 AND height_privacy = $3)")
	assert.Equal(t, []interface{}{true, 180, "public"}, args)
}

func TestBuildDirectoryQuery_AllFilters(t *testing.T) {
	g := user.GenderFemale
	e := user.EducationBachelor
	f := user.DirectoryFilter{
		Gender:    &g,
		MinAge:    intPtr(20),
		MaxAge:    intPtr(30),
		MinHeight: intPtr(150),
		MaxHeight: intPtr(175),
		Education: &e,
		Page:      3,
		PageSize:  10,
	}

	sql, args, err := BuildDirectoryQuery(f)
	require.NoError(t, err)

	assert.Contains(t, sql, "is_public = $1 AND gender = $2")
	assert.Contains(t, sql, "(age >= $3 AND age <= $4 AND age_privacy = $5)")
	assert.Contains(t, sql, "(height >= $6 AND height <= $7 AND height_privacy = $8)")
	assert.Contains(t, sql, "(education = $9 AND education_privacy = $10)")
	assert.True(t, strings.HasSuffix(sql, "LIMIT 10 OFFSET 20"), sql)
	assert.Equal(t, []interface{}{true, "female", 20, 30, "public", 150, 175, "public", "bachelor", "public"}, args)
}

func TestBuildDirectoryQuery_EmailNeverFiltered(t *testing.T) {
	sql, _, err := BuildDirectoryQuery(user.DirectoryFilter{MinAge: intPtr(18)})
	require.NoError(t, err)
	assert.NotContains(t, sql, "email_privacy =")
}

func TestBuildDirectoryQuery_ValuesAreNeverInlined(t *testing.T) {
	g := user.Gender("female' OR 1=1 --")
	sql, args, err := BuildDirectoryQuery(user.DirectoryFilter{Gender: &g})
	require.NoError(t, err)

	assert.NotContains(t, sql, "OR 1=1")
	assert.Contains(t, args, "female' OR 1=1 --")
}

func TestBuildDirectoryQuery_HugePageStaysInRange(t *testing.T) {
	sql, _, err := BuildDirectoryQuery(user.DirectoryFilter{Page: math.MaxInt64 / 6})
	require.NoError(t, err)

	offset := sql[strings.LastIndex(sql, "OFFSET ")+len("OFFSET "):]
	n, err := strconv.ParseInt(offset, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(0))
}
