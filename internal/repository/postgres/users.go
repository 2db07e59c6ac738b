package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/pkg/errors"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT username, name, role, avatar, password_hash, assigned_shop_ids, permissions
		FROM users
		WHERE username = $1
	`

	var user domain.User
	var avatar sql.NullString
	var assignedIDs, permissions []byte

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.Name,
		&user.Role,
		&avatar,
		&user.PasswordHash,
		&assignedIDs,
		&permissions,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: username}
	}
	if err != nil {
		r.logger.Error("Failed to get user by username", zap.Error(err))
		return nil, err
	}

	if avatar.Valid {
		user.Avatar = avatar.String
	}
	if err := unmarshalUserJSON(&user, assignedIDs, permissions); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT username, name, role, avatar, password_hash, assigned_shop_ids, permissions
		FROM users
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var avatar sql.NullString
		var assignedIDs, permissions []byte

		err := rows.Scan(
			&user.Username,
			&user.Name,
			&user.Role,
			&avatar,
			&user.PasswordHash,
			&assignedIDs,
			&permissions,
		)
		if err != nil {
			continue
		}

		if avatar.Valid {
			user.Avatar = avatar.String
		}
		if err := unmarshalUserJSON(&user, assignedIDs, permissions); err != nil {
			continue
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Upsert inserts or replaces an account by username.
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, name, role, avatar, password_hash, assigned_shop_ids, permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE
		SET name = $2, role = $3, avatar = $4, password_hash = $5,
		    assigned_shop_ids = $6, permissions = $7
	`

	assignedIDs, err := json.Marshal(user.AssignedShopIDs)
	if err != nil {
		return err
	}
	permissions, err := json.Marshal(user.Permissions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		user.Username,
		user.Name,
		user.Role,
		user.Avatar,
		user.PasswordHash,
		assignedIDs,
		permissions,
	)

	if err != nil {
		r.logger.Error("Failed to upsert user", zap.Error(err))
		return err
	}

	return nil
}

func unmarshalUserJSON(user *domain.User, assignedIDs, permissions []byte) error {
	if len(assignedIDs) > 0 {
		if err := json.Unmarshal(assignedIDs, &user.AssignedShopIDs); err != nil {
			return err
		}
	}
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &user.Permissions); err != nil {
			return err
		}
	}
	return nil
}
