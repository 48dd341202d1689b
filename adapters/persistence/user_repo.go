package persistence

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

const uniqueViolation = "23505"

type postgresUserRepo struct {
	db           *pgxpool.Pool
	logger       logger.Logger
	queryTimeout time.Duration
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger, queryTimeout time.Duration) user.Repository {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &postgresUserRepo{db: db, logger: logger, queryTimeout: queryTimeout}
}

// withTimeout bounds each statement so a hung query surfaces as an error.
func (r *postgresUserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var (
		gender, emailPrivacy, agePrivacy, heightPrivacy, educationPrivacy string
		email, education, lifePhotos                                      *string
		age, height                                                       *int32
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Nickname,
		&gender,
		&email,
		&emailPrivacy,
		&age,
		&agePrivacy,
		&height,
		&heightPrivacy,
		&education,
		&educationPrivacy,
		&u.Avatar,
		&lifePhotos,
		&u.Description,
		&u.IsPublic,
		&u.CreatedAt,
		&u.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	u.Gender = user.Gender(gender)
	u.Email = email
	u.EmailPrivacy = user.Privacy(emailPrivacy)
	u.Age = intFromInt32(age)
	u.AgePrivacy = user.Privacy(agePrivacy)
	u.Height = intFromInt32(height)
	u.HeightPrivacy = user.Privacy(heightPrivacy)
	if education != nil {
		e := user.Education(*education)
		u.Education = &e
	}
	u.EducationPrivacy = user.Privacy(educationPrivacy)
	u.LifePhotos = user.DecodePhotos(lifePhotos)
	return u, nil
}

func scanUsers(rows pgx.Rows) ([]*user.User, error) {
	defer rows.Close()
	users := make([]*user.User, 0)

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating user rows", err)
	}
	return users, nil
}

func intFromInt32(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func educationArg(e *user.Education) *string {
	if e == nil {
		return nil
	}
	s := string(*e)
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (
			username, password_hash, nickname, gender, email, email_privacy, age, age_privacy,
			height, height_privacy, education, education_privacy, avatar, life_photos, description, is_public, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.Nickname, string(u.Gender), u.Email, string(u.EmailPrivacy),
		u.Age, string(u.AgePrivacy), u.Height, string(u.HeightPrivacy), educationArg(u.Education),
		string(u.EducationPrivacy), u.Avatar, user.EncodePhotos(u.LifePhotos), u.Description, u.IsPublic,
		u.CreatedAt,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug("Username taken at insert", zap.String("username", u.Username))
			return 0, apperror.NewConflict("user", "username", u.Username)
		}
		return 0, apperror.NewInternal("failed to insert user", err)
	}
	return u.ID, nil
}

func (r *postgresUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, apperror.NewInternal("failed to check username", err)
	}
	return exists, nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewInternal("failed to query user by id", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, apperror.NewInternal("failed to query user by username", err)
	}
	return u, nil
}

// UpdateProfile replaces all mutable columns in a single statement.
func (r *postgresUserRepo) UpdateProfile(ctx context.Context, id int64, p user.ProfileFields) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE users SET
			nickname = $2, gender = $3, email = $4, email_privacy = $5, age = $6, age_privacy = $7,
			height = $8, height_privacy = $9, education = $10, education_privacy = $11,
			avatar = $12, life_photos = $13, description = $14, is_public = $15
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRow(ctx, query,
		id, p.Nickname, string(p.Gender), p.Email, string(p.EmailPrivacy), p.Age, string(p.AgePrivacy),
		p.Height, string(p.HeightPrivacy), educationArg(p.Education), string(p.EducationPrivacy),
		p.Avatar, user.EncodePhotos(p.LifePhotos), p.Description, p.IsPublic,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewInternal("failed to update user profile", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Delete(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, apperror.NewInternal("failed to delete user", err)
	}
	return u, nil
}

func (r *postgresUserRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return apperror.NewInternal("failed to update last_login", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresUserRepo) ListDirectory(ctx context.Context, filter user.DirectoryFilter) ([]*user.User, error) {
	sql, args, err := BuildDirectoryQuery(filter)
	if err != nil {
		return nil, apperror.NewInternal("failed to build directory query", err)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query directory", err)
	}
	return scanUsers(rows)
}
