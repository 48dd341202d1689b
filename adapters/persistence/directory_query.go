package persistence

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = "id, username, password_hash, nickname, gender, email, email_privacy, age, age_privacy, " +
	"height, height_privacy, education, education_privacy, avatar, life_photos, description, is_public, created_at, last_login"

// BuildDirectoryQuery renders the public square listing for f. Every value is
// bound as a parameter.
func BuildDirectoryQuery(f user.DirectoryFilter) (string, []interface{}, error) {
	f = f.Normalize()

	where := sq.And{sq.Eq{"is_public": true}}

	if f.Gender != nil {
		where = append(where, sq.Eq{"gender": string(*f.Gender)})
	}
	if c := gated(user.FieldAge, between(user.FieldAge.Column(), f.MinAge, f.MaxAge)...); c != nil {
		where = append(where, c)
	}
	if c := gated(user.FieldHeight, between(user.FieldHeight.Column(), f.MinHeight, f.MaxHeight)...); c != nil {
		where = append(where, c)
	}
	if f.Education != nil {
		where = append(where, gated(user.FieldEducation, sq.Eq{user.FieldEducation.Column(): string(*f.Education)}))
	}

	return psql.Select(userColumns).
		From("users").
		Where(where).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(f.PageSize)).
		Offset(uint64(f.Offset())).
		ToSql()
}

// gated attaches the field's privacy check to its filter conditions, so a
// record hiding the field can never match a filter on it. Nil when conds is empty.
func gated(field user.GatedField, conds ...sq.Sqlizer) sq.Sqlizer {
	if len(conds) == 0 {
		return nil
	}
	and := sq.And(conds)
	return append(and, sq.Eq{field.PrivacyColumn(): string(user.PrivacyPublic)})
}

func between(column string, lo, hi *int) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if lo != nil {
		conds = append(conds, sq.GtOrEq{column: *lo})
	}
	if hi != nil {
		conds = append(conds, sq.LtOrEq{column: *hi})
	}
	return conds
}
