package licensekeys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Repository репозиторий лицензионных ключей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ключей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый ключ
func (r *Repository) Create(ctx context.Context, key *domain.LicenseKey) (*domain.LicenseKey, error) {
	query, args, err := psqlbuilder.Insert("license_keys").
		Columns("key", "user_info", "is_active", "expires_at").
		Values(key.Key, key.UserInfo, key.IsActive, key.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: Create - key %s", ErrKeyExists, key.Key)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return key, nil
}

// GetByKey получает ключ по его строковому значению
func (r *Repository) GetByKey(ctx context.Context, keyStr string) (*domain.LicenseKey, error) {
	query, args, err := selectKeyColumns().
		Where(squirrel.Eq{"key": keyStr}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	key, err := r.scanKey(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: GetByKey - key %s", ErrKeyNotFound, keyStr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan row: %v", ErrScanRow, err)
	}

	return key, nil
}

// List возвращает все ключи, новые первыми
func (r *Repository) List(ctx context.Context) ([]domain.LicenseKey, error) {
	query, args, err := selectKeyColumns().
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var keys []domain.LicenseKey
	for rows.Next() {
		key, err := r.scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		keys = append(keys, *key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return keys, nil
}

// SetActive включает или выключает ключ
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.update(ctx, "SetActive", id, squirrel.Eq{"is_active": active})
}

// ExtendExpiry сдвигает срок действия ключа и заново активирует его
func (r *Repository) ExtendExpiry(ctx context.Context, id int64, days int) error {
	return r.update(ctx, "ExtendExpiry", id, map[string]interface{}{
		"expires_at": squirrel.Expr(fmt.Sprintf("expires_at + INTERVAL '%d days'", days)),
		"is_active":  true,
	})
}

// TouchLastUsed отмечает момент последней проверки ключа
func (r *Repository) TouchLastUsed(ctx context.Context, id int64) error {
	return r.update(ctx, "TouchLastUsed", id, map[string]interface{}{
		"last_used": squirrel.Expr("NOW()"),
	})
}

// Delete удаляет ключ
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("license_keys").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: Delete - id %d", ErrKeyNotFound, id)
	}
	return nil
}

func (r *Repository) update(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	query, args, err := psqlbuilder.Update("license_keys").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %s - id %d", ErrKeyNotFound, op, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func selectKeyColumns() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"key",
		"user_info",
		"is_active",
		"created_at",
		"expires_at",
		"last_used",
	).From("license_keys")
}

func (r *Repository) scanKey(row rowScanner) (*domain.LicenseKey, error) {
	var key domain.LicenseKey
	var lastUsed sql.NullTime

	err := row.Scan(
		&key.ID,
		&key.Key,
		&key.UserInfo,
		&key.IsActive,
		&key.CreatedAt,
		&key.ExpiresAt,
		&lastUsed,
	)
	if err != nil {
		return nil, err
	}

	if lastUsed.Valid {
		t := lastUsed.Time
		key.LastUsed = &t
	}
	return &key, nil
}
