package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	resourceStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/resource"
	scheduleStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/schedule"
	identityClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/ptr"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// --- fakes ---

type fakeConfigRepo struct {
	configs []*domain.CompanyBookingConfig
	nextID  int64
}

func (f *fakeConfigRepo) Upsert(_ context.Context, cfg *domain.CompanyBookingConfig) (*domain.CompanyBookingConfig, error) {
	f.nextID++
	stored := *cfg
	stored.ID = f.nextID
	f.configs = append(f.configs, &stored)
	return &stored, nil
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.CompanyBookingConfig, error) {
	return nil, nil
}

func (f *fakeConfigRepo) GetAllByCompany(_ context.Context, companyID int64) ([]*domain.CompanyBookingConfig, error) {
	var result []*domain.CompanyBookingConfig
	for _, c := range f.configs {
		if c.CompanyID == companyID {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeScheduleRepo struct {
	rules       map[int64]*domain.AvailabilityRule
	timeOffs    []*domain.TimeOff
	deactivated []int64
	nextID      int64
}

func (f *fakeScheduleRepo) CreateRule(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	f.nextID++
	stored := *rule
	stored.ID = f.nextID
	f.rules[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeScheduleRepo) ListRulesByCompany(_ context.Context, companyID int64) ([]*domain.AvailabilityRule, error) {
	var result []*domain.AvailabilityRule
	for _, r := range f.rules {
		if r.CompanyID == companyID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeScheduleRepo) SetRuleActive(_ context.Context, id int64, active bool) error {
	r, ok := f.rules[id]
	if !ok {
		return scheduleStorage.ErrRuleNotFound
	}
	r.Active = active
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeScheduleRepo) CreateTimeOff(_ context.Context, timeOff *domain.TimeOff) (*domain.TimeOff, error) {
	f.nextID++
	stored := *timeOff
	stored.ID = f.nextID
	f.timeOffs = append(f.timeOffs, &stored)
	return &stored, nil
}

func (f *fakeScheduleRepo) ListTimeOff(_ context.Context, _ int64, _ domain.ResourceType, _ *int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	return f.timeOffs, nil
}

type fakeResourceRepo struct {
	modules     map[int64]*domain.Module
	instructors map[int64]*domain.Instructor
	vehicles    map[int64]*domain.Vehicle
	nextID      int64
}

func (f *fakeResourceRepo) GetModule(_ context.Context, companyID, moduleID int64) (*domain.Module, error) {
	m, ok := f.modules[moduleID]
	if !ok || m.CompanyID != companyID {
		return nil, resourceStorage.ErrModuleNotFound
	}
	return m, nil
}

func (f *fakeResourceRepo) CreateInstructor(_ context.Context, instructor *domain.Instructor) (*domain.Instructor, error) {
	f.nextID++
	stored := *instructor
	stored.ID = f.nextID
	f.instructors[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeResourceRepo) ListInstructors(_ context.Context, companyID int64, onlyActive bool) ([]*domain.Instructor, error) {
	var result []*domain.Instructor
	for _, i := range f.instructors {
		if i.CompanyID != companyID {
			continue
		}
		if onlyActive && !i.Active {
			continue
		}
		result = append(result, i)
	}
	return result, nil
}

func (f *fakeResourceRepo) SetInstructorActive(_ context.Context, id int64, active bool) error {
	i, ok := f.instructors[id]
	if !ok {
		return resourceStorage.ErrInstructorNotFound
	}
	i.Active = active
	return nil
}

func (f *fakeResourceRepo) CreateVehicle(_ context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	f.nextID++
	stored := *vehicle
	stored.ID = f.nextID
	f.vehicles[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeResourceRepo) ListVehicles(_ context.Context, companyID int64, onlyActive bool) ([]*domain.Vehicle, error) {
	var result []*domain.Vehicle
	for _, v := range f.vehicles {
		if v.CompanyID != companyID {
			continue
		}
		if onlyActive && !v.Active {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}

func (f *fakeResourceRepo) SetVehicleActive(_ context.Context, id int64, active bool) error {
	v, ok := f.vehicles[id]
	if !ok {
		return resourceStorage.ErrVehicleNotFound
	}
	v.Active = active
	return nil
}

func (f *fakeResourceRepo) ListModules(_ context.Context, companyID int64, _ bool) ([]*domain.Module, error) {
	var result []*domain.Module
	for _, m := range f.modules {
		if m.CompanyID == companyID {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeIdentity struct {
	users map[int64]*identityClient.User
	calls int
}

func (f *fakeIdentity) GetUser(_ context.Context, userID int64) (*identityClient.User, error) {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return nil, identityClient.ErrUserNotFound
	}
	return u, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- fixture ---

type fixture struct {
	svc       *Service
	configs   *fakeConfigRepo
	schedules *fakeScheduleRepo
	resources *fakeResourceRepo
	identity  *fakeIdentity
}

func newFixture() *fixture {
	configs := &fakeConfigRepo{}
	schedules := &fakeScheduleRepo{rules: make(map[int64]*domain.AvailabilityRule)}
	resources := &fakeResourceRepo{
		modules:     map[int64]*domain.Module{20: {ID: 20, CompanyID: 10, Name: "Basic Control Skills", Active: true}},
		instructors: make(map[int64]*domain.Instructor),
		vehicles:    make(map[int64]*domain.Vehicle),
		nextID:      100,
	}
	identity := &fakeIdentity{users: map[int64]*identityClient.User{
		1:   {ID: 1, Role: identityClient.RoleUser},
		50:  {ID: 50, Role: identityClient.RoleStaff, CompanyID: ptr.Ptr[int64](10)},
		99:  {ID: 99, Role: identityClient.RoleAdmin},
		666: {ID: 666, Role: identityClient.RoleUser},
	}}

	svc := NewService(configs, schedules, resources, identity, nopLogger{})
	return &fixture{svc: svc, configs: configs, schedules: schedules, resources: resources, identity: identity}
}

func validConfigRequest(userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                 userID,
		CompanyID:              10,
		SlotGranularityMinutes: 30,
		BufferMinutes:          15,
		MinNoticeMinutes:       720,
		AdvanceBookingDays:     30,
		AutoConfirm:            true,
		Timezone:               "America/New_York",
	}
}

// --- tests ---

func TestUpsertConfig(t *testing.T) {
	t.Run("staff upserts company-wide config", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.UpsertConfig(context.Background(), validConfigRequest(50))
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.CompanyID)
		assert.Nil(t, resp.ModuleID)
		assert.Equal(t, 30, resp.SlotGranularityMinutes)
	})

	t.Run("module-level config requires existing module", func(t *testing.T) {
		f := newFixture()

		req := validConfigRequest(50)
		req.ModuleID = ptr.Ptr[int64](20)
		resp, err := f.svc.UpsertConfig(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(20), *resp.ModuleID)

		req.ModuleID = ptr.Ptr[int64](777)
		_, err = f.svc.UpsertConfig(context.Background(), req)
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	t.Run("granularity out of range", func(t *testing.T) {
		f := newFixture()

		req := validConfigRequest(50)
		req.SlotGranularityMinutes = domain.MaxSlotGranularityMinutes + 1
		_, err := f.svc.UpsertConfig(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown timezone rejected", func(t *testing.T) {
		f := newFixture()

		req := validConfigRequest(50)
		req.Timezone = "Mars/Olympus_Mons"
		_, err := f.svc.UpsertConfig(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("plain user denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpsertConfig(context.Background(), validConfigRequest(666))
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, f.configs.configs)
	})

	t.Run("admin of another company allowed", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpsertConfig(context.Background(), validConfigRequest(99))
		assert.NoError(t, err)
	})
}

func TestGetCompanyConfigs(t *testing.T) {
	t.Run("public read without identity check", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpsertConfig(context.Background(), validConfigRequest(50))
		require.NoError(t, err)
		f.identity.calls = 0

		resp, err := f.svc.GetCompanyConfigs(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, resp.Configs, 1)
		assert.Zero(t, f.identity.calls)
	})

	t.Run("empty company returns empty list", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.GetCompanyConfigs(context.Background(), 42)
		require.NoError(t, err)
		assert.Empty(t, resp.Configs)
	})
}

func TestCreateRule(t *testing.T) {
	validRule := func(userID int64) *models.CreateRuleRequest {
		return &models.CreateRuleRequest{
			UserID:       userID,
			CompanyID:    10,
			ResourceType: "company",
			DayOfWeek:    4,
			OpenTime:     types.TimeString("09:00"),
			CloseTime:    types.TimeString("17:00"),
		}
	}

	t.Run("staff creates active company rule", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.CreateRule(context.Background(), validRule(50))
		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Equal(t, "09:00", resp.OpenTime)
	})

	t.Run("instructor rule requires resourceId", func(t *testing.T) {
		f := newFixture()

		req := validRule(50)
		req.ResourceType = "instructor"
		_, err := f.svc.CreateRule(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)

		req.ResourceID = ptr.Ptr[int64](7)
		_, err = f.svc.CreateRule(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("unknown resource type rejected", func(t *testing.T) {
		f := newFixture()

		req := validRule(50)
		req.ResourceType = "classroom"
		_, err := f.svc.CreateRule(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("dayOfWeek out of range", func(t *testing.T) {
		f := newFixture()

		req := validRule(50)
		req.DayOfWeek = 7
		_, err := f.svc.CreateRule(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("openTime must precede closeTime", func(t *testing.T) {
		f := newFixture()

		req := validRule(50)
		req.OpenTime = types.TimeString("17:00")
		req.CloseTime = types.TimeString("17:00")
		_, err := f.svc.CreateRule(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("plain user denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateRule(context.Background(), validRule(1))
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestDeactivateRule(t *testing.T) {
	t.Run("deactivates existing rule", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.CreateRule(context.Background(), &models.CreateRuleRequest{
			UserID:       50,
			CompanyID:    10,
			ResourceType: "company",
			DayOfWeek:    1,
			OpenTime:     types.TimeString("09:00"),
			CloseTime:    types.TimeString("17:00"),
		})
		require.NoError(t, err)

		err = f.svc.DeactivateRule(context.Background(), resp.ID, 10, 50)
		require.NoError(t, err)
		assert.False(t, f.schedules.rules[resp.ID].Active)
	})

	t.Run("unknown rule", func(t *testing.T) {
		f := newFixture()

		err := f.svc.DeactivateRule(context.Background(), 12345, 10, 50)
		assert.ErrorIs(t, err, ErrRuleNotFound)
	})
}

func TestCreateTimeOff(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("stores interval in UTC", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.CreateTimeOff(context.Background(), &models.CreateTimeOffRequest{
			UserID:       50,
			CompanyID:    10,
			ResourceType: "company",
			StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, loc),
			EndsAt:       time.Date(2026, 9, 10, 12, 0, 0, 0, loc),
			Reason:       ptr.Ptr("range maintenance"),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC), resp.StartsAt)
	})

	t.Run("endsAt must be after startsAt", func(t *testing.T) {
		f := newFixture()

		at := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
		_, err := f.svc.CreateTimeOff(context.Background(), &models.CreateTimeOffRequest{
			UserID:       50,
			CompanyID:    10,
			ResourceType: "company",
			StartsAt:     at,
			EndsAt:       at,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("validation precedes access check", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateTimeOff(context.Background(), &models.CreateTimeOffRequest{
			UserID:       666,
			CompanyID:    10,
			ResourceType: "garage",
			StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
			EndsAt:       time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, f.identity.calls)
	})
}

func TestCreateInstructor(t *testing.T) {
	t.Run("creates active instructor with modules", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.CreateInstructor(context.Background(), &models.CreateInstructorRequest{
			UserID:    50,
			CompanyID: 10,
			Name:      "J. Torrance",
			ModuleIDs: []int64{20},
		})
		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Equal(t, []int64{20}, resp.ModuleIDs)
	})

	t.Run("name is required", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateInstructor(context.Background(), &models.CreateInstructorRequest{
			UserID:    50,
			CompanyID: 10,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown module rejected", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateInstructor(context.Background(), &models.CreateInstructorRequest{
			UserID:    50,
			CompanyID: 10,
			Name:      "J. Torrance",
			ModuleIDs: []int64{20, 777},
		})
		assert.ErrorIs(t, err, ErrModuleNotFound)
		assert.Empty(t, f.resources.instructors)
	})
}

func TestDeactivateInstructor(t *testing.T) {
	t.Run("deactivates existing instructor", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.CreateInstructor(context.Background(), &models.CreateInstructorRequest{
			UserID:    50,
			CompanyID: 10,
			Name:      "J. Torrance",
		})
		require.NoError(t, err)

		err = f.svc.DeactivateInstructor(context.Background(), resp.ID, 10, 50)
		require.NoError(t, err)
		assert.False(t, f.resources.instructors[resp.ID].Active)
	})

	t.Run("unknown instructor", func(t *testing.T) {
		f := newFixture()

		err := f.svc.DeactivateInstructor(context.Background(), 12345, 10, 50)
		assert.ErrorIs(t, err, ErrInstructorNotFound)
	})
}

func TestVehicles(t *testing.T) {
	t.Run("create requires name", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CreateVehicle(context.Background(), &models.CreateVehicleRequest{
			UserID:    50,
			CompanyID: 10,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("create and deactivate", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.CreateVehicle(context.Background(), &models.CreateVehicleRequest{
			UserID:       50,
			CompanyID:    10,
			Name:         "Freightliner Cascadia",
			LicensePlate: "CDL-0042",
		})
		require.NoError(t, err)
		assert.True(t, resp.Active)

		err = f.svc.DeactivateVehicle(context.Background(), resp.ID, 10, 50)
		require.NoError(t, err)
		assert.False(t, f.resources.vehicles[resp.ID].Active)
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		f := newFixture()

		err := f.svc.DeactivateVehicle(context.Background(), 12345, 10, 50)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("list includes inactive for staff", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.CreateVehicle(context.Background(), &models.CreateVehicleRequest{
			UserID:    50,
			CompanyID: 10,
			Name:      "Freightliner Cascadia",
		})
		require.NoError(t, err)
		require.NoError(t, f.svc.DeactivateVehicle(context.Background(), resp.ID, 10, 50))

		list, err := f.svc.ListVehicles(context.Background(), 10, 50)
		require.NoError(t, err)
		assert.Len(t, list.Vehicles, 1)
	})
}

func TestListInstructors(t *testing.T) {
	t.Run("plain user denied", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.ListInstructors(context.Background(), 10, 1)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
