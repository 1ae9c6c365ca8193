package cycling

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository/mocks"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

// fakeTxRunner executa a função transacional diretamente, sem banco.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "formato ISO", value: "2025-02-10", expected: true},
		{name: "com espacos nas bordas", value: " 2025-02-10 ", expected: true},
		{name: "formato brasileiro", value: "10/02/2025", expected: false},
		{name: "vazio", value: "", expected: false},
		{name: "sem zeros a esquerda", value: "2025-2-1", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidDate(tt.value))
		})
	}
}

func TestGetCycleByIDOrCurrentComIDExistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	expected := &domain.MonthlyCycle{ID: 42, CycleYear: 2025, CycleMonth: 2, Status: domain.CycleStatusOpen}
	cycleRepo.EXPECT().GetByID(42).Return(expected, nil)

	service := NewService(nil, cycleRepo)

	cycle, err := service.GetCycleByIDOrCurrent(context.Background(), intPtr(42))
	require.NoError(t, err)
	assert.Equal(t, expected, cycle)
}

func TestGetCycleByIDOrCurrentPropagaErroDeBanco(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	dbErr := errors.New("conexao perdida")
	cycleRepo.EXPECT().GetByID(42).Return(nil, dbErr)

	service := NewService(nil, cycleRepo)

	cycle, err := service.GetCycleByIDOrCurrent(context.Background(), intPtr(42))
	assert.Nil(t, cycle)
	assert.Equal(t, dbErr, err)
}

func TestEnsureCycleForDateComDataInvalida(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	service := NewService(nil, cycleRepo)

	cycle, err := service.EnsureCycleForDate(nil, "10/02/2025")
	assert.NoError(t, err)
	assert.Nil(t, cycle)
}

func TestEnsureCycleForDateReaproveitaCicloExistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	expected := &domain.MonthlyCycle{ID: 7, CycleYear: 2025, CycleMonth: 2}
	cycleRepo.EXPECT().GetByYearMonth(2025, 2).Return(expected, nil)

	service := NewService(nil, cycleRepo)

	cycle, err := service.EnsureCycleForDate(nil, "2025-02-10")
	require.NoError(t, err)
	assert.Equal(t, expected, cycle)
}

func TestEnsureCycleForDateCriaCicloDoMes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	created := &domain.MonthlyCycle{ID: 8, CycleYear: 2025, CycleMonth: 3}
	startedAt := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	cycleRepo.EXPECT().GetByYearMonth(2025, 3).Return(nil, nil)
	cycleRepo.EXPECT().Create(2025, 3, startedAt).Return(created, nil)

	service := NewService(nil, cycleRepo)

	cycle, err := service.EnsureCycleForDate(nil, "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, created, cycle)
}

func TestEnsureCycleForDateResolveCorridaDeCriacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	existing := &domain.MonthlyCycle{ID: 9, CycleYear: 2025, CycleMonth: 3}
	startedAt := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	// Outra requisição criou o ciclo entre a busca e o insert: o insert é
	// descartado pela constraint e o ciclo vencedor é relido.
	cycleRepo.EXPECT().GetByYearMonth(2025, 3).Return(nil, nil)
	cycleRepo.EXPECT().Create(2025, 3, startedAt).Return(nil, nil)
	cycleRepo.EXPECT().GetByYearMonth(2025, 3).Return(existing, nil)

	service := NewService(nil, cycleRepo)

	cycle, err := service.EnsureCycleForDate(nil, "2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, existing, cycle)
}

func TestEnsureCurrentCycleResolveCorridaDeCriacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	winner := &domain.MonthlyCycle{ID: 3, CycleYear: year, CycleMonth: month, Status: domain.CycleStatusOpen}

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	cycleRepo.EXPECT().WithTx(gomock.Nil()).Return(cycleRepo)
	cycleRepo.EXPECT().GetByYearMonth(year, month).Return(nil, nil)
	cycleRepo.EXPECT().ListOpen().Return(nil, nil)
	cycleRepo.EXPECT().Create(year, month, gomock.Any()).Return(nil, nil)
	cycleRepo.EXPECT().GetByYearMonth(year, month).Return(winner, nil)

	service := &Service{conn: fakeTxRunner{}, cycleRepo: cycleRepo}

	cycle, err := service.EnsureCurrentCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, winner, cycle)
}

func TestEnsureCurrentCycleFechaCiclosDeOutrosMeses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	current := &domain.MonthlyCycle{ID: 5, CycleYear: year, CycleMonth: month, Status: domain.CycleStatusOpen}
	stale := &domain.MonthlyCycle{ID: 4, CycleYear: 2024, CycleMonth: 12, Status: domain.CycleStatusOpen}

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	cycleRepo.EXPECT().WithTx(gomock.Nil()).Return(cycleRepo)
	cycleRepo.EXPECT().GetByYearMonth(year, month).Return(current, nil)
	cycleRepo.EXPECT().ListOpen().Return([]*domain.MonthlyCycle{stale, current}, nil)
	cycleRepo.EXPECT().Close(4).Return(nil)

	service := &Service{conn: fakeTxRunner{}, cycleRepo: cycleRepo}

	cycle, err := service.EnsureCurrentCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, current, cycle)
}

func TestTouchCycleIgnoraIDInvalido(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	service := NewService(nil, cycleRepo)

	service.TouchCycle(nil, 0)
	service.TouchCycle(nil, -3)
}

func TestTouchCycleEngoleErroDoRepositorio(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cycleRepo := mocks.NewMockCycleRepository(ctrl)
	cycleRepo.EXPECT().Touch(5).Return(errors.New("ciclo removido"))

	service := NewService(nil, cycleRepo)

	service.TouchCycle(nil, 5)
}

func intPtr(value int) *int {
	return &value
}
