package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/pkg/psqlbuilder"
)

// Repository репозиторий состояния бота: настройки воркфлоу,
// список поставок и журнал мониторинга
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория состояния
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSetting читает настройку по ключу и десериализует её в out
func (r *Repository) GetSetting(ctx context.Context, key string, out interface{}) error {
	query, args, err := psqlbuilder.Select("value").
		From("bot_settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: GetSetting - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: GetSetting - key %s", ErrSettingNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("%w: GetSetting - execute select: %v", ErrExecQuery, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: GetSetting - decode key %s: %v", ErrDecodeValue, key, err)
	}
	return nil
}

// SetSetting сериализует значение и сохраняет его по ключу
func (r *Repository) SetSetting(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: SetSetting - encode key %s: %v", ErrEncodeValue, key, err)
	}

	query, args, err := psqlbuilder.Insert("bot_settings").
		Columns("key", "value", "updated_at").
		Values(key, raw, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetSetting - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetSetting - execute upsert: %v", ErrExecQuery, err)
	}
	return nil
}

// ListDeliveries возвращает все сохраненные поставки
func (r *Repository) ListDeliveries(ctx context.Context) ([]domain.DeliveryRecord, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"status",
		"created_at",
		"deadline",
		"items_count",
		"scanned_at",
		"source",
	).
		From("deliveries").
		OrderBy("scanned_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDeliveries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDeliveries - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var deliveries []domain.DeliveryRecord
	for rows.Next() {
		var d domain.DeliveryRecord
		var deadline sql.NullTime
		var itemsCount sql.NullInt64

		err = rows.Scan(
			&d.ID,
			&d.Status,
			&d.CreatedAt,
			&deadline,
			&itemsCount,
			&d.ScannedAt,
			&d.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDeliveries - scan row: %v", ErrScanRow, err)
		}

		if deadline.Valid {
			t := deadline.Time
			d.Deadline = &t
		}
		if itemsCount.Valid {
			n := int(itemsCount.Int64)
			d.ItemsCount = &n
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDeliveries - iterate rows: %v", ErrScanRow, err)
	}

	return deliveries, nil
}

// SaveDeliveries сохраняет объединенный список поставок
// Повторное сканирование обновляет существующие записи по id
func (r *Repository) SaveDeliveries(ctx context.Context, deliveries []domain.DeliveryRecord) error {
	for _, d := range deliveries {
		query, args, err := psqlbuilder.Insert("deliveries").
			Columns(
				"id",
				"status",
				"created_at",
				"deadline",
				"items_count",
				"scanned_at",
				"source",
			).
			Values(
				d.ID,
				d.Status,
				d.CreatedAt,
				d.Deadline,
				d.ItemsCount,
				d.ScannedAt,
				d.Source,
			).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				deadline = EXCLUDED.deadline,
				items_count = EXCLUDED.items_count,
				scanned_at = EXCLUDED.scanned_at,
				source = EXCLUDED.source`).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: SaveDeliveries - build upsert query: %v", ErrBuildQuery, err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: SaveDeliveries - execute upsert for %s: %v", ErrExecQuery, d.ID, err)
		}
	}
	return nil
}

// AppendMonitoringLog добавляет запись в журнал мониторинга и
// отрезает хвост, чтобы журнал не рос бесконечно
func (r *Repository) AppendMonitoringLog(ctx context.Context, message string) error {
	query, args, err := psqlbuilder.Insert("monitoring_log").
		Columns("message", "created_at").
		Values(message, squirrel.Expr("NOW()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendMonitoringLog - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendMonitoringLog - execute insert: %v", ErrExecQuery, err)
	}

	trim := fmt.Sprintf(`DELETE FROM monitoring_log
		WHERE id NOT IN (
			SELECT id FROM monitoring_log ORDER BY id DESC LIMIT %d
		)`, domain.MonitoringLogCap)
	if _, err := r.db.ExecContext(ctx, trim); err != nil {
		return fmt.Errorf("%w: AppendMonitoringLog - trim log: %v", ErrExecQuery, err)
	}
	return nil
}

// ListMonitoringLog возвращает записи журнала, новые первыми
func (r *Repository) ListMonitoringLog(ctx context.Context) ([]domain.MonitoringEntry, error) {
	query, args, err := psqlbuilder.Select("id", "message", "created_at").
		From("monitoring_log").
		OrderBy("id DESC").
		Limit(uint64(domain.MonitoringLogCap)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMonitoringLog - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMonitoringLog - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var entries []domain.MonitoringEntry
	for rows.Next() {
		var e domain.MonitoringEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListMonitoringLog - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMonitoringLog - iterate rows: %v", ErrScanRow, err)
	}

	return entries, nil
}
