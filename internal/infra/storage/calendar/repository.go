package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с календарями бизнесов
// Недельное расписание и интервалы спец-часов хранятся как JSONB,
// closures и special hours - отдельными строками с уникальностью по дате
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календарей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusiness получает полный календарь бизнеса: базовую конфигурацию,
// закрытия и спец-часы
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) (*domain.BusinessCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"timezone",
		"slot_interval_minutes",
		"weekly_schedule",
		"created_at",
		"updated_at",
	).
		From("business_calendars").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var cal domain.BusinessCalendar
	var scheduleRaw []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cal.ID,
		&cal.BusinessID,
		&cal.Timezone,
		&cal.SlotIntervalMinutes,
		&scheduleRaw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - scan calendar: %v", ErrScanRow, err)
	}

	if len(scheduleRaw) > 0 {
		if err := json.Unmarshal(scheduleRaw, &cal.WeeklySchedule); err != nil {
			// Битый JSON расписания означает "закрыто каждый день", а не ошибку -
			// логирует и решает вызывающий слой
			cal.WeeklySchedule = domain.WeeklySchedule{}
		}
	}

	cal.CreatedAt = createdAt.Time
	cal.UpdatedAt = updatedAt.Time

	closures, err := r.getClosures(ctx, executor, businessID)
	if err != nil {
		return nil, err
	}
	cal.Closures = closures

	specials, err := r.getSpecialHours(ctx, executor, businessID)
	if err != nil {
		return nil, err
	}
	cal.SpecialHours = specials

	return &cal, nil
}

// Save сохраняет полный календарь бизнеса: upsert базовой конфигурации
// и полная замена закрытий и спец-часов. Предполагается вызов внутри
// транзакции (txmanager), чтобы календарь не читался наполовину обновленным.
func (r *Repository) Save(ctx context.Context, cal *domain.BusinessCalendar) (*domain.BusinessCalendar, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	scheduleRaw, err := json.Marshal(cal.WeeklySchedule)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - marshal weekly schedule: %v", ErrEncodeSchedule, err)
	}

	query, args, err := psqlbuilder.Insert("business_calendars").
		Columns(
			"business_id",
			"timezone",
			"slot_interval_minutes",
			"weekly_schedule",
		).
		Values(
			cal.BusinessID,
			cal.Timezone,
			cal.SlotIntervalMinutes,
			scheduleRaw,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			weekly_schedule = EXCLUDED.weekly_schedule,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cal.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	cal.CreatedAt = createdAt.Time
	cal.UpdatedAt = updatedAt.Time

	if err := r.replaceClosures(ctx, executor, cal.BusinessID, cal.Closures); err != nil {
		return nil, err
	}
	if err := r.replaceSpecialHours(ctx, executor, cal.BusinessID, cal.SpecialHours); err != nil {
		return nil, err
	}

	return cal, nil
}

func (r *Repository) getClosures(ctx context.Context, executor DBExecutor, businessID int64) ([]domain.Closure, error) {
	query, args, err := psqlbuilder.Select("closure_date", "reason").
		From("calendar_closures").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("closure_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getClosures - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getClosures - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]domain.Closure, 0)
	for rows.Next() {
		var c domain.Closure
		if err := rows.Scan(&c.Date, &c.Reason); err != nil {
			return nil, fmt.Errorf("%w: getClosures - scan row: %v", ErrScanRow, err)
		}
		closures = append(closures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getClosures - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}

func (r *Repository) getSpecialHours(ctx context.Context, executor DBExecutor, businessID int64) ([]domain.SpecialHours, error) {
	query, args, err := psqlbuilder.Select("special_date", "ranges", "reason").
		From("calendar_special_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("special_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getSpecialHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSpecialHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	specials := make([]domain.SpecialHours, 0)
	for rows.Next() {
		var s domain.SpecialHours
		var rangesRaw []byte

		if err := rows.Scan(&s.Date, &rangesRaw, &s.Reason); err != nil {
			return nil, fmt.Errorf("%w: getSpecialHours - scan row: %v", ErrScanRow, err)
		}

		if len(rangesRaw) > 0 {
			if err := json.Unmarshal(rangesRaw, &s.Ranges); err != nil {
				// Битые интервалы спец-часов эквивалентны пустым - дата закрыта
				s.Ranges = nil
			}
		}

		specials = append(specials, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSpecialHours - rows error: %v", ErrScanRow, err)
	}

	return specials, nil
}

func (r *Repository) replaceClosures(ctx context.Context, executor DBExecutor, businessID int64, closures []domain.Closure) error {
	query, args, err := psqlbuilder.Delete("calendar_closures").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceClosures - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceClosures - execute delete: %v", ErrExecQuery, err)
	}

	if len(closures) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("calendar_closures").
		Columns("business_id", "closure_date", "reason")
	for _, c := range closures {
		insertBuilder = insertBuilder.Values(businessID, c.Date, c.Reason)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceClosures - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceClosures - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) replaceSpecialHours(ctx context.Context, executor DBExecutor, businessID int64, specials []domain.SpecialHours) error {
	query, args, err := psqlbuilder.Delete("calendar_special_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceSpecialHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceSpecialHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(specials) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("calendar_special_hours").
		Columns("business_id", "special_date", "ranges", "reason")
	for _, s := range specials {
		rangesRaw, err := json.Marshal(s.Ranges)
		if err != nil {
			return fmt.Errorf("%w: replaceSpecialHours - marshal ranges: %v", ErrEncodeSchedule, err)
		}
		insertBuilder = insertBuilder.Values(businessID, s.Date, rangesRaw, s.Reason)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceSpecialHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceSpecialHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
