package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"churchdir/internal/logger"
	"churchdir/internal/models"
	"churchdir/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const accountColumns = `id, name, email, nickname, role, mobile, alternate_mobile, address, spouse,
	children, native_place, church, avatar, photos, password_hash, created_at, updated_at`

// AccountRepository: хранилище аккаунтов в Postgres.
// Пароль хешируется здесь, на пути записи, наружу открытый текст не уходит.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account, plainPassword string) error {
	logger.Log.Info("Создание аккаунта (repo)", zap.String("email", a.Email))

	hash, err := utils.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.ID = uuid.NewString()
	a.PasswordHash = hash
	if a.Role == "" {
		a.Role = models.RoleUser
	}

	query := `
	INSERT INTO accounts (id, name, email, nickname, role, mobile, alternate_mobile, address, spouse,
		children, native_place, church, avatar, photos, password_hash)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	RETURNING created_at, updated_at`
	err = r.db.QueryRow(ctx, query,
		a.ID, a.Name, a.Email, a.Nickname, a.Role, a.Mobile, a.AlternateMobile, a.Address, a.Spouse,
		nonNil(a.Children), a.NativePlace, a.Church, a.Avatar, nonNil(a.Photos), a.PasswordHash,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания аккаунта (repo)", zap.Error(err))
		return translatePgError(err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	logger.Log.Debug("Получение аккаунта по ID (repo)", zap.String("account_id", id))
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	logger.Log.Debug("Получение аккаунта по email (repo)")
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	logger.Log.Debug("Получение всех аккаунтов (repo)")
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name ASC`)
	if err != nil {
		logger.Log.Error("Ошибка получения аккаунтов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования аккаунта (repo)", zap.Error(err))
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id string, input *models.UpdateAccountRequest) error {
	logger.Log.Info("Обновление аккаунта (repo)", zap.String("account_id", id))
	query := `UPDATE accounts SET`
	var args []interface{}
	argNum := 1

	add := func(column string, value interface{}) {
		query += fmt.Sprintf(" %s = $%d,", column, argNum)
		args = append(args, value)
		argNum++
	}

	if input.Name != nil {
		add("name", *input.Name)
	}
	if input.Email != nil {
		add("email", *input.Email)
	}
	if input.Nickname != nil {
		add("nickname", *input.Nickname)
	}
	if input.Role != nil {
		add("role", *input.Role)
	}
	if input.Mobile != nil {
		add("mobile", *input.Mobile)
	}
	if input.AlternateMobile != nil {
		add("alternate_mobile", *input.AlternateMobile)
	}
	if input.Address != nil {
		add("address", *input.Address)
	}
	if input.Spouse != nil {
		add("spouse", *input.Spouse)
	}
	if input.Children != nil {
		add("children", nonNil(*input.Children))
	}
	if input.NativePlace != nil {
		add("native_place", *input.NativePlace)
	}
	if input.Church != nil {
		add("church", *input.Church)
	}
	if input.Avatar != nil {
		add("avatar", *input.Avatar)
	}
	if input.Photos != nil {
		add("photos", nonNil(*input.Photos))
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления аккаунта (repo)", zap.String("account_id", id))
		return nil
	}

	query += " updated_at = now()"
	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления аккаунта (repo)", zap.Error(err), zap.String("account_id", id))
		return translatePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, plainPassword string) error {
	hash, err := utils.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		logger.Log.Error("Ошибка обновления пароля (repo)", zap.Error(err), zap.String("account_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	logger.Log.Info("Удаление аккаунта (repo)", zap.String("account_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления аккаунта (repo)", zap.Error(err), zap.String("account_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *AccountRepository) scanOne(row pgx.Row) (*models.Account, error) {
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.Error("Ошибка чтения аккаунта (repo)", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Nickname,
		&a.Role,
		&a.Mobile,
		&a.AlternateMobile,
		&a.Address,
		&a.Spouse,
		&a.Children,
		&a.NativePlace,
		&a.Church,
		&a.Avatar,
		&a.Photos,
		&a.PasswordHash,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
