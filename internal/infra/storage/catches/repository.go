package catches

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/WB-SupplyBot/internal/domain"
	"github.com/m04kA/WB-SupplyBot/pkg/psqlbuilder"
	"github.com/m04kA/WB-SupplyBot/pkg/ptr"
)

const defaultHistoryLimit = 50

// Repository репозиторий истории пойманных дат
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись о пойманной дате
func (r *Repository) Create(ctx context.Context, record *domain.CatchRecord) (*domain.CatchRecord, error) {
	query, args, err := psqlbuilder.Insert("autocatch_history").
		Columns(
			"display_text",
			"slot_date",
			"acceptance_label",
			"coefficient",
			"is_free",
			"click_count",
		).
		Values(
			record.DisplayText,
			record.SlotDate,
			record.AcceptanceLabel,
			record.Coefficient,
			record.IsFree,
			record.ClickCount,
		).
		Suffix("RETURNING id, caught_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CaughtAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return record, nil
}

// List возвращает последние записи истории, свежие первыми
// При limit <= 0 используется лимит по умолчанию
func (r *Repository) List(ctx context.Context, limit int) ([]domain.CatchRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"display_text",
		"slot_date",
		"acceptance_label",
		"coefficient",
		"is_free",
		"click_count",
		"caught_at",
	).
		From("autocatch_history").
		OrderBy("caught_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var records []domain.CatchRecord
	for rows.Next() {
		var rec domain.CatchRecord
		var slotDate sql.NullTime

		err := rows.Scan(
			&rec.ID,
			&rec.DisplayText,
			&slotDate,
			&rec.AcceptanceLabel,
			&rec.Coefficient,
			&rec.IsFree,
			&rec.ClickCount,
			&rec.CaughtAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		if slotDate.Valid {
			rec.SlotDate = ptr.To(slotDate.Time)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrExecQuery, err)
	}
	return records, nil
}
