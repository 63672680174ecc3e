package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "go-attendance/internal/employee/errors"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const RosterCacheKey = "employees:roster"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetRoster(ctx context.Context) ([]EmployeeResponse, error)
	GetProfile(ctx context.Context, id string) (EmployeeResponse, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (EmployeeResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// GetRoster serves the admin employee listing through a redis
// read-through cache. Singleflight collapses the stampede when the
// cache is cold and several dashboards refresh at once.
func (s *service) GetRoster(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, RosterCacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(RosterCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, RosterCacheKey, jsonData, 10*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetProfile(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update profile requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	e.FullName = req.FullName
	e.OffDay = req.OffDay
	e.Designation = req.Designation
	e.Phone = req.Phone
	e.Address = req.Address
	e.PhotoURL = req.PhotoURL
	e.HourlyRate = req.HourlyRate
	e.MonthlyRate = req.MonthlyRate
	e.ProfileComplete = req.FullName != "" && req.Designation != nil && req.Phone != nil

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update profile persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateRoster(ctx)
	s.logger.Info("update profile success", zap.String("employee_id", id))

	return mapToResponse(*e), nil
}

func (s *service) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (EmployeeResponse, error) {
	s.logger.Debug("update role requested",
		zap.String("employee_id", id),
		zap.String("role", req.Role),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.Role != RoleEmployee && req.Role != RoleAdmin {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateRoster(ctx)
	s.logger.Info("update role success",
		zap.String("employee_id", id),
		zap.String("role", req.Role),
	)

	return mapToResponse(*e), nil
}

func (s *service) invalidateRoster(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RosterCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate roster cache",
			zap.Error(err),
			zap.String("key", RosterCacheKey),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID.String(),
		FullName:         e.FullName,
		Email:            e.Email,
		Role:             e.Role,
		OffDay:           e.OffDay,
		ProfileComplete:  e.ProfileComplete,
		RemainingHoliday: e.RemainingHoliday,
		Designation:      e.Designation,
		Phone:            e.Phone,
		Address:          e.Address,
		PhotoURL:         e.PhotoURL,
		HourlyRate:       e.HourlyRate,
		MonthlyRate:      e.MonthlyRate,
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}
