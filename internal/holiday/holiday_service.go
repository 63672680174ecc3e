package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-attendance/internal/events"
	holidayerrors "go-attendance/internal/holiday/errors"
	"go-attendance/internal/notify"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	emitter notify.Emitter
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, emitter notify.Emitter, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{db: db, repo: repo, emitter: emitter, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create holiday requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("date", req.Date),
	)

	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByDate(ctx, date)
	if err != nil {
		s.logger.Error("create holiday existence check failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	if exists {
		s.logger.Warn("create holiday duplicate date", zap.String("date", req.Date))
		return HolidayResponse{}, holidayerrors.ErrHolidayExists
	}

	h := &Holiday{
		ID:          uuid.New(),
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
	}

	if err := qtx.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	event := notify.Event{
		Type:          events.TypeHolidayChange,
		AggregateType: "holiday",
		AggregateID:   h.ID.String(),
		Payload: events.HolidayChangeEvent{
			EventType:  events.TypeHolidayChange,
			RequestID:  rid,
			Type:       "added",
			HolidayID:  h.ID.String(),
			Name:       h.Name,
			Date:       dateutil.Format(h.Date),
			OccurredAt: time.Now().UTC(),
		},
	}
	if err := s.emitter.Emit(ctx, tx, event); err != nil {
		s.logger.Error("create holiday enqueue event failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create holiday commit failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		s.logger.Error("delete holiday failed", zap.String("holiday_id", id), zap.Error(err))
		return err
	}

	event := notify.Event{
		Type:          events.TypeHolidayChange,
		AggregateType: "holiday",
		AggregateID:   id,
		Payload: events.HolidayChangeEvent{
			EventType:  events.TypeHolidayChange,
			RequestID:  contextutil.GetRequestID(ctx),
			Type:       "removed",
			HolidayID:  id,
			OccurredAt: time.Now().UTC(),
		},
	}
	if err := s.emitter.Emit(ctx, tx, event); err != nil {
		s.logger.Error("delete holiday enqueue event failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete holiday success", zap.String("holiday_id", id))
	return nil
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        dateutil.Format(h.Date),
		Description: h.Description,
	}
}
