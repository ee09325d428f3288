package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func decFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// testEnv wires the full service stack over an in-memory database.
type testEnv struct {
	db *gorm.DB

	settingsRepo repository.SettingsRepository

	users      UserService
	clients    ClientService
	jobs       JobService
	timesheets TimesheetService
	invoices   InvoiceService
	reports    ReportService
	settings   SettingsService

	userID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// One private in-memory database per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	hub := websocket.NewHub(zap.NewNop())
	go hub.Run()

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	jobRepo := repository.NewJobRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	audit := NewAuditService(auditRepo, zap.NewNop())

	env := &testEnv{
		db:           db,
		settingsRepo: settingsRepo,
		users:        NewUserService(userRepo),
		clients:      NewClientService(clientRepo, audit),
		jobs:         NewJobService(jobRepo, clientRepo, txManager, audit, hub),
		timesheets:   NewTimesheetService(timesheetRepo, jobRepo, settingsRepo, txManager, audit, hub),
		invoices:     NewInvoiceService(invoiceRepo, jobRepo, clientRepo, settingsRepo, txManager, audit, hub),
		settings:     NewSettingsService(settingsRepo, audit),
		reports:      NewReportService(jobRepo, invoiceRepo, timesheetRepo, clientRepo, userRepo, settingsRepo),
	}

	// Create the defaults settings row up front
	_, err = settingsRepo.Get(context.Background())
	require.NoError(t, err)

	user, err := env.users.CreateUser(context.Background(), CreateUserRequest{
		Username: "tester",
		Email:    "tester@example.com",
		Password: "secret123",
		Role:     "manager",
	})
	require.NoError(t, err)
	env.userID = user.ID.String()

	return env
}

// updateSettings mutates the singleton settings row directly.
func (e *testEnv) updateSettings(t *testing.T, mutate func(*model.OrgSettings)) {
	t.Helper()
	settings, err := e.settingsRepo.Get(context.Background())
	require.NoError(t, err)
	mutate(settings)
	require.NoError(t, e.settingsRepo.Update(context.Background(), settings))
}

// newJob creates a client, a job and one task, returning their IDs.
func (e *testEnv) newJob(t *testing.T, billingType, rate, quotedHours string) (jobID, taskID string) {
	t.Helper()
	ctx := context.Background()

	client, err := e.clients.CreateClient(ctx, e.userID, CreateClientRequest{
		CompanyName: "Acme Corp",
	})
	require.NoError(t, err)

	job, err := e.jobs.CreateJob(ctx, e.userID, CreateJobRequest{
		Title:       "Website Redesign",
		ClientID:    client.ID,
		BillingType: billingType,
		BillingRate: rate,
		QuotedHours: quotedHours,
	})
	require.NoError(t, err)

	task, err := e.jobs.CreateTask(ctx, job.ID, TaskRequest{Title: "Build"})
	require.NoError(t, err)

	return job.ID, task.ID
}
