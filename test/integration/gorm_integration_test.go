package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"design-team-be/internal/constant"
	"design-team-be/internal/entity"
	"design-team-be/internal/repository/specification"
	"design-team-be/internal/repository/unitofwork"
	"design-team-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.EventRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.SessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Check State Repositories", func(t *testing.T) {
		count, err := uow.AppStateRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("AppState count: %d", count)

		count, err = uow.UserStateRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("UserState count: %d", count)
	})

	t.Run("Check Transactional Event Append", func(t *testing.T) {
		ctx := context.Background()
		txUow := uowFactory.NewUnitOfWork(ctx)
		if err := txUow.Begin(ctx); err != nil {
			t.Fatalf("Failed to begin transaction: %v", err)
		}
		defer func() {
			// Roll everything back; the test must not leave rows behind.
			_ = txUow.Rollback()
		}()

		session := &entity.Session{
			Id:                uuid.New(),
			UserId:            uuid.New(),
			AppName:           constant.DefaultAppName,
			Status:            constant.SessionStatusActive,
			CurrentStageIndex: 0,
			CreatedAt:         time.Now(),
		}
		err := txUow.SessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		seq, err := txUow.EventRepository().NextSequence(ctx, session.Id)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), seq)

		err = txUow.EventRepository().Append(ctx, &entity.Event{
			Id:        uuid.New(),
			SessionId: session.Id,
			Sequence:  seq,
			Kind:      constant.EventKindStageInput,
			Payload: map[string]interface{}{
				constant.PayloadKeyStageIndex: 0,
				constant.PayloadKeyAuthor:     constant.AuthorDirector,
				constant.PayloadKeyContent:    "integration test pitch",
			},
			CreatedAt: time.Now(),
		})
		assert.NoError(t, err)

		evts, err := txUow.EventRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.OrderBy{Field: "sequence"},
		)
		assert.NoError(t, err)
		assert.Len(t, evts, 1)
	})
}
