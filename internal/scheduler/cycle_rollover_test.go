package scheduler

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository/mocks"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

// blockingCycleManager segura EnsureCurrentCycle até o teste liberar.
type blockingCycleManager struct {
	entered chan struct{}
	release chan struct{}
	cycle   *domain.MonthlyCycle
}

func (m *blockingCycleManager) EnsureCurrentCycle(ctx context.Context) (*domain.MonthlyCycle, error) {
	close(m.entered)
	<-m.release
	return m.cycle, nil
}

func (m *blockingCycleManager) GetCycleByIDOrCurrent(ctx context.Context, cycleID *int) (*domain.MonthlyCycle, error) {
	return m.cycle, nil
}

func (m *blockingCycleManager) EnsureCycleForDate(tx *sql.Tx, date string) (*domain.MonthlyCycle, error) {
	return m.cycle, nil
}

func (m *blockingCycleManager) TouchCycle(tx *sql.Tx, cycleID int) {}

func TestRunRolloverNaoBloqueiaStatusNemReentrada(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	cycleRepo.EXPECT().ListClosed().Return(nil, nil)

	manager := &blockingCycleManager{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		cycle:   &domain.MonthlyCycle{ID: 1, CycleYear: 2025, CycleMonth: 9, Status: domain.CycleStatusOpen},
	}

	service := &CycleRolloverService{
		cycles:    manager,
		cycleRepo: cycleRepo,
		config:    CycleRolloverConfig{CronSchedule: "0 5 1 * *", Enabled: true},
	}

	done := make(chan error, 1)
	go func() {
		done <- service.RunRollover(context.Background())
	}()

	<-manager.entered

	// Com a virada em andamento, o status responde sem esperar o término.
	status := service.Status()
	assert.Equal(t, true, status["running"])

	// Execução concorrente é ignorada na hora, sem enfileirar.
	assert.NoError(t, service.RunRollover(context.Background()))

	close(manager.release)
	require.NoError(t, <-done)

	status = service.Status()
	assert.Equal(t, false, status["running"])
}
