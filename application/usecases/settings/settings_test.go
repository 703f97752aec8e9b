package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hilthontt/visper-admin/domain/apperrors"
	"github.com/hilthontt/visper-admin/domain/model"
	"github.com/hilthontt/visper-admin/domain/repository"
	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
	"github.com/hilthontt/visper-admin/infrastructure/persistence/database"
	repositories "github.com/hilthontt/visper-admin/infrastructure/persistence/repository"
	"github.com/hilthontt/visper-admin/infrastructure/security"
)

func newSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.SystemSettings{}))

	database.SetDb(db)

	return db
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{Log: zap.NewNop()}
}

func newSettingsUseCase(t *testing.T) (SettingsUseCase, *gorm.DB) {
	t.Helper()

	db := newSettingsDB(t)

	cfg := &config.Config{}
	cfg.Postgres.QueryTimeout = 5 * time.Second

	repo := repositories.NewSystemSettingsRepository(cfg, noop.NewTracerProvider().Tracer("test"))

	return NewSettingsUseCase(repo, newTestLogger()), db
}

func TestGetOrCreateProvisionsDefaults(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	row, err := uc.GetOrCreate(ctx)
	require.NoError(t, err)

	require.Equal(t, model.SettingsRowID, row.ID)
	require.True(t, row.IsActive)
	require.True(t, row.PasswordSet())
	require.False(t, row.CreatedAt.IsZero())
	require.False(t, row.UpdatedAt.IsZero())

	valid, err := uc.VerifyPassword(ctx, model.DefaultAccessPassword)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	uc, db := newSettingsUseCase(t)
	ctx := context.Background()

	first, err := uc.GetOrCreate(ctx)
	require.NoError(t, err)

	second, err := uc.GetOrCreate(ctx)
	require.NoError(t, err)

	require.Equal(t, first.AccessPasswordHash, second.AccessPasswordHash)
	require.True(t, first.CreatedAt.Equal(second.CreatedAt))

	var count int64
	require.NoError(t, db.Model(&model.SystemSettings{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGetOrCreateConcurrentCallsShareOneRow(t *testing.T) {
	uc, db := newSettingsUseCase(t)

	const callers = 4

	rows := make([]*model.SystemSettings, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows[i], errs[i] = uc.GetOrCreate(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, rows[i])
		require.Equal(t, rows[0].AccessPasswordHash, rows[i].AccessPasswordHash)
		require.True(t, rows[0].CreatedAt.Equal(rows[i].CreatedAt))
	}

	var count int64
	require.NoError(t, db.Model(&model.SystemSettings{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestChangePasswordRoundTrip(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.ChangePassword(ctx, "s3cret-pass", "s3cret-pass"))

	valid, err := uc.VerifyPassword(ctx, "s3cret-pass")
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = uc.VerifyPassword(ctx, model.DefaultAccessPassword)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestChangePasswordMismatchLeavesStoredHash(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SetPassword(ctx, "original-pass"))

	err := uc.ChangePassword(ctx, "brand-new-pass", "brand-new-typo")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "confirm_password", verr.Field)
	require.Equal(t, apperrors.ReasonMismatch, verr.Reason)

	valid, err := uc.VerifyPassword(ctx, "original-pass")
	require.NoError(t, err)
	require.True(t, valid)
}

func TestSetPasswordTooShortLeavesStoredHash(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SetPassword(ctx, "original-pass"))

	err := uc.SetPassword(ctx, "abc")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, apperrors.ReasonTooShort, verr.Reason)

	valid, err := uc.VerifyPassword(ctx, "original-pass")
	require.NoError(t, err)
	require.True(t, valid)
}

func TestSetPasswordEmptyRejected(t *testing.T) {
	uc, _ := newSettingsUseCase(t)

	err := uc.SetPassword(context.Background(), "")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "new_password", verr.Field)
	require.Equal(t, apperrors.ReasonEmpty, verr.Reason)
}

func TestSetActiveTogglesFlagOnly(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SetPassword(ctx, "keep-this-pass"))

	before, err := uc.GetOrCreate(ctx)
	require.NoError(t, err)

	row, err := uc.SetActive(ctx, false)
	require.NoError(t, err)
	require.False(t, row.IsActive)
	require.Equal(t, before.AccessPasswordHash, row.AccessPasswordHash)
	require.True(t, before.CreatedAt.Equal(row.CreatedAt))

	valid, err := uc.VerifyPassword(ctx, "keep-this-pass")
	require.NoError(t, err)
	require.True(t, valid)

	row, err = uc.SetActive(ctx, true)
	require.NoError(t, err)
	require.True(t, row.IsActive)
}

func TestVerifyPasswordWrongIsNotAnError(t *testing.T) {
	uc, _ := newSettingsUseCase(t)
	ctx := context.Background()

	require.NoError(t, uc.SetPassword(ctx, "correct-pass"))

	valid, err := uc.VerifyPassword(ctx, "wrong-pass")
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = uc.VerifyPassword(ctx, "")
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyPasswordProvisionsMissingRow(t *testing.T) {
	uc, db := newSettingsUseCase(t)

	valid, err := uc.VerifyPassword(context.Background(), model.DefaultAccessPassword)
	require.NoError(t, err)
	require.True(t, valid)

	var count int64
	require.NoError(t, db.Model(&model.SystemSettings{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

// settingsRepoStub drives the failure paths that sqlite cannot produce.
type settingsRepoStub struct {
	get          func(ctx context.Context) (*model.SystemSettings, error)
	insert       func(ctx context.Context, defaults model.SystemSettings) error
	upsertHash   func(ctx context.Context, row model.SystemSettings) error
	upsertActive func(ctx context.Context, row model.SystemSettings) error

	upsertHashCalls int
}

var _ repository.SystemSettingsRepository = (*settingsRepoStub)(nil)

func (s *settingsRepoStub) Get(ctx context.Context) (*model.SystemSettings, error) {
	return s.get(ctx)
}

func (s *settingsRepoStub) InsertIfAbsent(ctx context.Context, defaults model.SystemSettings) error {
	if s.insert == nil {
		return nil
	}
	return s.insert(ctx, defaults)
}

func (s *settingsRepoStub) UpsertPasswordHash(ctx context.Context, row model.SystemSettings) error {
	s.upsertHashCalls++
	if s.upsertHash == nil {
		return nil
	}
	return s.upsertHash(ctx, row)
}

func (s *settingsRepoStub) UpsertActive(ctx context.Context, row model.SystemSettings) error {
	if s.upsertActive == nil {
		return nil
	}
	return s.upsertActive(ctx, row)
}

func TestSetPasswordRecoversOnRetry(t *testing.T) {
	var written string
	attempts := 0

	stub := &settingsRepoStub{
		upsertHash: func(ctx context.Context, row model.SystemSettings) error {
			attempts++
			if attempts == 1 {
				return errors.New("connection reset")
			}
			written = row.AccessPasswordHash
			return nil
		},
		get: func(ctx context.Context) (*model.SystemSettings, error) {
			return &model.SystemSettings{
				ID:                 model.SettingsRowID,
				AccessPasswordHash: written,
				IsActive:           true,
			}, nil
		},
	}

	uc := NewSettingsUseCase(stub, newTestLogger())

	require.NoError(t, uc.SetPassword(context.Background(), "retry-pass"))
	require.Equal(t, 2, stub.upsertHashCalls)
}

func TestSetPasswordStorageErrorAfterRetry(t *testing.T) {
	stub := &settingsRepoStub{
		upsertHash: func(ctx context.Context, row model.SystemSettings) error {
			return errors.New("connection reset")
		},
		get: func(ctx context.Context) (*model.SystemSettings, error) {
			t.Fatal("read-back should not run when the write fails")
			return nil, nil
		},
	}

	uc := NewSettingsUseCase(stub, newTestLogger())

	err := uc.SetPassword(context.Background(), "doomed-pass")
	var serr *apperrors.StorageError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "settings.set_password", serr.Op)
	require.Equal(t, 2, stub.upsertHashCalls)
}

func TestSetPasswordConsistencyErrorWhenVerificationKeepsFailing(t *testing.T) {
	staleHash, err := security.HashPassword("some-older-pass")
	require.NoError(t, err)

	stub := &settingsRepoStub{
		get: func(ctx context.Context) (*model.SystemSettings, error) {
			// The read-back never reflects the write.
			return &model.SystemSettings{
				ID:                 model.SettingsRowID,
				AccessPasswordHash: staleHash,
				IsActive:           true,
			}, nil
		},
	}

	uc := NewSettingsUseCase(stub, newTestLogger())

	err = uc.SetPassword(context.Background(), "never-lands")
	require.True(t, apperrors.IsConsistency(err))
	require.Equal(t, 2, stub.upsertHashCalls)
}
