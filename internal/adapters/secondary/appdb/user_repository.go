package appdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lcrommet/glpi-insight-backend/internal/core/domain"
	apperrors "github.com/lcrommet/glpi-insight-backend/internal/core/errors"
	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
	"github.com/lcrommet/glpi-insight-backend/internal/core/utils"
)

// uniqueViolationCode is the Postgres error code for unique constraint hits.
const uniqueViolationCode = "23505"

// UserRepository persists application accounts in app_users.
type UserRepository struct {
	pool *pgxpool.Pool
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, password_hash, role, auth_type, ldap_dn, created_at, last_login`

const createUserQuery = `
	INSERT INTO app_users (username, password_hash, role, auth_type, ldap_dn)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, createUserQuery,
		user.Username, user.PasswordHash, user.Role, user.AuthType, utils.ToString(user.LdapDN))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}
	return created, nil
}

const getUserByUsernameQuery = `SELECT ` + userColumns + ` FROM app_users WHERE username = $1`

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, getUserByUsernameQuery, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

const getUserByIDQuery = `SELECT ` + userColumns + ` FROM app_users WHERE id = $1`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, getUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

const listUsersQuery = `SELECT ` + userColumns + ` FROM app_users ORDER BY username`

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, listUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const updateRoleQuery = `UPDATE app_users SET role = $2 WHERE id = $1`

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	tag, err := r.pool.Exec(ctx, updateRoleQuery, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

const deleteUserQuery = `DELETE FROM app_users WHERE id = $1`

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

const countLocalAdminsQuery = `
	SELECT COUNT(*) FROM app_users WHERE role = 'admin' AND auth_type = 'local'`

func (r *UserRepository) CountLocalAdmins(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countLocalAdminsQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// upsertLdapUserQuery records a directory login. The role is overwritten
// on every login so group membership changes take effect immediately.
const upsertLdapUserQuery = `
	INSERT INTO app_users (username, password_hash, role, auth_type, ldap_dn, last_login)
	VALUES ($1, '', $2, 'ldap', $3, NOW())
	ON CONFLICT (username) DO UPDATE
	SET role = EXCLUDED.role, ldap_dn = EXCLUDED.ldap_dn, last_login = NOW()
	RETURNING ` + userColumns

func (r *UserRepository) UpsertLdapUser(ctx context.Context, username, dn, role string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, upsertLdapUserQuery, username, role, dn))
}

const touchLastLoginQuery = `UPDATE app_users SET last_login = NOW() WHERE id = $1`

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, touchLastLoginQuery, id)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		ldapDN    pgtype.Text
		lastLogin pgtype.Timestamptz
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.AuthType, &ldapDN, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	user.LdapDN = utils.FromString(ldapDN)
	if lastLogin.Valid {
		v := lastLogin.Time
		user.LastLogin = &v
	}
	return &user, nil
}
