package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	resourceRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/resource"
	scheduleRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/schedule"
	identityClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
)

// Service административный сервис расписаний: конфигурация политики,
// правила доступности, блэкауты, инструкторы и грузовики
type Service struct {
	configRepo   ConfigRepository
	scheduleRepo ScheduleRepository
	resourceRepo ResourceRepository
	identity     IdentityClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	configRepo ConfigRepository,
	scheduleRepo ScheduleRepository,
	resourceRepo ResourceRepository,
	identity IdentityClient,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		scheduleRepo: scheduleRepo,
		resourceRepo: resourceRepo,
		identity:     identity,
		logger:       logger,
	}
}

// Конфигурация политики бронирования

// GetCompanyConfigs возвращает все конфигурации компании
// Публичный метод: клиенту нужны granularity и timezone для отображения слотов
func (s *Service) GetCompanyConfigs(ctx context.Context, companyID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetCompanyConfigs: fetching configs for company=%d", companyID)

	configs, err := s.configRepo.GetAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("GetCompanyConfigs: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: GetCompanyConfigs - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfigList(configs), nil
}

// UpsertConfig создает или обновляет конфигурацию политики бронирования
// Доступно только staff и admin компании
func (s *Service) UpsertConfig(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("UpsertConfig: upserting config for company=%d, module=%v by user=%d",
		req.CompanyID, req.ModuleID, req.UserID)

	if err := s.validateConfigData(req); err != nil {
		s.logger.Warn("UpsertConfig: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	// Модульная конфигурация требует существующего модуля
	if req.ModuleID != nil {
		if _, err := s.resourceRepo.GetModule(ctx, req.CompanyID, *req.ModuleID); err != nil {
			if errors.Is(err, resourceRepo.ErrModuleNotFound) {
				s.logger.Warn("UpsertConfig: module id=%d not found in company=%d", *req.ModuleID, req.CompanyID)
				return nil, ErrModuleNotFound
			}
			s.logger.Error("UpsertConfig: failed to get module id=%d: %v", *req.ModuleID, err)
			return nil, fmt.Errorf("%w: failed to get module: %v", ErrInternal, err)
		}
	}

	config, err := s.configRepo.Upsert(ctx, req.ToDomainConfig())
	if err != nil {
		s.logger.Error("UpsertConfig: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertConfig: upserted config id=%d", config.ID)
	return models.FromDomainConfig(config), nil
}

// Правила доступности

// CreateRule создает правило расписания
// Доступно только staff и admin компании
func (s *Service) CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("CreateRule: creating rule for company=%d, resource=%s/%v, day=%d by user=%d",
		req.CompanyID, req.ResourceType, req.ResourceID, req.DayOfWeek, req.UserID)

	resourceType, err := s.validateRuleData(req)
	if err != nil {
		s.logger.Warn("CreateRule: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	rule, err := s.scheduleRepo.CreateRule(ctx, &domain.AvailabilityRule{
		CompanyID:    req.CompanyID,
		ResourceType: resourceType,
		ResourceID:   req.ResourceID,
		DayOfWeek:    req.DayOfWeek,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		Active:       true,
	})
	if err != nil {
		s.logger.Error("CreateRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateRule: created rule id=%d", rule.ID)
	return models.FromDomainRule(rule), nil
}

// ListRules возвращает все правила расписания компании
// Доступно только staff и admin компании
func (s *Service) ListRules(ctx context.Context, companyID, userID int64) (*models.RuleListResponse, error) {
	s.logger.Info("ListRules: fetching rules for company=%d by user=%d", companyID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return nil, err
	}

	rules, err := s.scheduleRepo.ListRulesByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("ListRules: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// DeactivateRule деактивирует правило расписания
// Правила не удаляются: будущие запросы просто перестают их находить
func (s *Service) DeactivateRule(ctx context.Context, ruleID, companyID, userID int64) error {
	s.logger.Info("DeactivateRule: deactivating rule id=%d by user=%d", ruleID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.SetRuleActive(ctx, ruleID, false); err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			s.logger.Warn("DeactivateRule: rule id=%d not found", ruleID)
			return ErrRuleNotFound
		}
		s.logger.Error("DeactivateRule: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeactivateRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateRule: deactivated rule id=%d", ruleID)
	return nil
}

// Блэкауты

// CreateTimeOff создает блэкаут
// Доступно только staff и admin компании
func (s *Service) CreateTimeOff(ctx context.Context, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error) {
	s.logger.Info("CreateTimeOff: creating time off for company=%d, resource=%s/%v by user=%d",
		req.CompanyID, req.ResourceType, req.ResourceID, req.UserID)

	resourceType, err := toResourceType(req.ResourceType)
	if err != nil {
		s.logger.Warn("CreateTimeOff: invalid resource type %q", req.ResourceType)
		return nil, err
	}

	if !req.EndsAt.After(req.StartsAt) {
		s.logger.Warn("CreateTimeOff: endsAt must be after startsAt")
		return nil, fmt.Errorf("%w: endsAt must be after startsAt", ErrInvalidInput)
	}

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	timeOff, err := s.scheduleRepo.CreateTimeOff(ctx, &domain.TimeOff{
		CompanyID:    req.CompanyID,
		ResourceType: resourceType,
		ResourceID:   req.ResourceID,
		StartsAt:     req.StartsAt.UTC(),
		EndsAt:       req.EndsAt.UTC(),
		Reason:       req.Reason,
	})
	if err != nil {
		s.logger.Error("CreateTimeOff: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateTimeOff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeOff: created time off id=%d", timeOff.ID)
	return models.FromDomainTimeOff(timeOff), nil
}

// Инструкторы

// ListInstructors возвращает инструкторов компании
// Доступно только staff и admin компании
func (s *Service) ListInstructors(ctx context.Context, companyID, userID int64) (*models.InstructorListResponse, error) {
	s.logger.Info("ListInstructors: fetching instructors for company=%d by user=%d", companyID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return nil, err
	}

	instructors, err := s.resourceRepo.ListInstructors(ctx, companyID, false)
	if err != nil {
		s.logger.Error("ListInstructors: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: ListInstructors - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainInstructorList(instructors), nil
}

// CreateInstructor создает инструктора
// Доступно только staff и admin компании
func (s *Service) CreateInstructor(ctx context.Context, req *models.CreateInstructorRequest) (*models.InstructorResponse, error) {
	s.logger.Info("CreateInstructor: creating instructor for company=%d by user=%d", req.CompanyID, req.UserID)

	if req.Name == "" {
		s.logger.Warn("CreateInstructor: name is required")
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	// Каждый модуль из набора должен существовать в компании
	for _, moduleID := range req.ModuleIDs {
		if _, err := s.resourceRepo.GetModule(ctx, req.CompanyID, moduleID); err != nil {
			if errors.Is(err, resourceRepo.ErrModuleNotFound) {
				s.logger.Warn("CreateInstructor: module id=%d not found in company=%d", moduleID, req.CompanyID)
				return nil, ErrModuleNotFound
			}
			s.logger.Error("CreateInstructor: failed to get module id=%d: %v", moduleID, err)
			return nil, fmt.Errorf("%w: failed to get module: %v", ErrInternal, err)
		}
	}

	instructor, err := s.resourceRepo.CreateInstructor(ctx, &domain.Instructor{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		ModuleIDs: req.ModuleIDs,
		Active:    true,
	})
	if err != nil {
		s.logger.Error("CreateInstructor: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateInstructor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateInstructor: created instructor id=%d", instructor.ID)
	return models.FromDomainInstructor(instructor), nil
}

// DeactivateInstructor деактивирует инструктора
// Существующие бронирования и сессии не затрагиваются - инструктор
// только исключается из будущего распределения
func (s *Service) DeactivateInstructor(ctx context.Context, instructorID, companyID, userID int64) error {
	s.logger.Info("DeactivateInstructor: deactivating instructor id=%d by user=%d", instructorID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return err
	}

	if err := s.resourceRepo.SetInstructorActive(ctx, instructorID, false); err != nil {
		if errors.Is(err, resourceRepo.ErrInstructorNotFound) {
			s.logger.Warn("DeactivateInstructor: instructor id=%d not found", instructorID)
			return ErrInstructorNotFound
		}
		s.logger.Error("DeactivateInstructor: repository error for instructor id=%d: %v", instructorID, err)
		return fmt.Errorf("%w: DeactivateInstructor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateInstructor: deactivated instructor id=%d", instructorID)
	return nil
}

// Грузовики

// ListVehicles возвращает учебные грузовики компании
// Доступно только staff и admin компании
func (s *Service) ListVehicles(ctx context.Context, companyID, userID int64) (*models.VehicleListResponse, error) {
	s.logger.Info("ListVehicles: fetching vehicles for company=%d by user=%d", companyID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return nil, err
	}

	vehicles, err := s.resourceRepo.ListVehicles(ctx, companyID, false)
	if err != nil {
		s.logger.Error("ListVehicles: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: ListVehicles - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainVehicleList(vehicles), nil
}

// CreateVehicle создает учебный грузовик
// Доступно только staff и admin компании
func (s *Service) CreateVehicle(ctx context.Context, req *models.CreateVehicleRequest) (*models.VehicleResponse, error) {
	s.logger.Info("CreateVehicle: creating vehicle for company=%d by user=%d", req.CompanyID, req.UserID)

	if req.Name == "" {
		s.logger.Warn("CreateVehicle: name is required")
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	vehicle, err := s.resourceRepo.CreateVehicle(ctx, &domain.Vehicle{
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		LicensePlate: req.LicensePlate,
		Active:       true,
	})
	if err != nil {
		s.logger.Error("CreateVehicle: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateVehicle - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateVehicle: created vehicle id=%d", vehicle.ID)
	return models.FromDomainVehicle(vehicle), nil
}

// DeactivateVehicle деактивирует учебный грузовик
func (s *Service) DeactivateVehicle(ctx context.Context, vehicleID, companyID, userID int64) error {
	s.logger.Info("DeactivateVehicle: deactivating vehicle id=%d by user=%d", vehicleID, userID)

	if err := s.checkStaffAccess(ctx, companyID, userID); err != nil {
		return err
	}

	if err := s.resourceRepo.SetVehicleActive(ctx, vehicleID, false); err != nil {
		if errors.Is(err, resourceRepo.ErrVehicleNotFound) {
			s.logger.Warn("DeactivateVehicle: vehicle id=%d not found", vehicleID)
			return ErrVehicleNotFound
		}
		s.logger.Error("DeactivateVehicle: repository error for vehicle id=%d: %v", vehicleID, err)
		return fmt.Errorf("%w: DeactivateVehicle - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeactivateVehicle: deactivated vehicle id=%d", vehicleID)
	return nil
}

// Вспомогательные методы

// checkStaffAccess проверяет через identity-сервис, что пользователь
// является staff указанной компании или admin
func (s *Service) checkStaffAccess(ctx context.Context, companyID int64, userID int64) error {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			s.logger.Warn("checkStaffAccess: user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get user: %v", ErrInternal, err)
	}

	if user.IsAdmin() || user.IsStaffOf(companyID) {
		return nil
	}

	s.logger.Warn("checkStaffAccess: user=%d has no staff access to company=%d", userID, companyID)
	return ErrAccessDenied
}

// validateConfigData валидирует параметры конфигурации политики
func (s *Service) validateConfigData(req *models.UpsertConfigRequest) error {
	if req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if req.BufferMinutes < domain.MinBufferMinutes || req.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if req.MinNoticeMinutes < domain.MinNoticeMinutesLimit || req.MinNoticeMinutes > domain.MaxNoticeMinutesLimit {
		return fmt.Errorf("%w: minNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinNoticeMinutesLimit, domain.MaxNoticeMinutesLimit)
	}

	if req.AdvanceBookingDays < 0 || req.AdvanceBookingDays > domain.MaxAdvanceBookingDaysLimit {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDaysLimit)
	}

	if _, err := timezone.Load(req.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
	}

	return nil
}

// validateRuleData валидирует параметры правила расписания
func (s *Service) validateRuleData(req *models.CreateRuleRequest) (domain.ResourceType, error) {
	resourceType, err := toResourceType(req.ResourceType)
	if err != nil {
		return "", err
	}

	if resourceType != domain.ResourceCompany && req.ResourceID == nil {
		return "", fmt.Errorf("%w: resourceId is required for resource type %s", ErrInvalidInput, resourceType)
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return "", fmt.Errorf("%w: dayOfWeek must be between 0 and 6", ErrInvalidInput)
	}

	if err := req.OpenTime.Validate(); err != nil {
		return "", fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
	}

	if err := req.CloseTime.Validate(); err != nil {
		return "", fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
	}

	if !req.OpenTime.IsBefore(req.CloseTime) {
		return "", fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	return resourceType, nil
}

// toResourceType валидирует и конвертирует строку в domain.ResourceType
func toResourceType(raw string) (domain.ResourceType, error) {
	switch domain.ResourceType(raw) {
	case domain.ResourceCompany, domain.ResourceInstructor, domain.ResourceVehicle:
		return domain.ResourceType(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, raw)
	}
}
