package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

// fakeScriptRepo resolve roteiros a partir de um conjunto em memória.
type fakeScriptRepo struct {
	scripts map[int]*domain.ContentScript
}

func (f *fakeScriptRepo) GetByID(id int) (*domain.ContentScript, error) {
	return f.scripts[id], nil
}

func (f *fakeScriptRepo) ListRecent(limit int) ([]*domain.ContentScript, error) {
	return nil, nil
}

func newPlanTestService(scriptIDs ...int) *Service {
	scripts := make(map[int]*domain.ContentScript, len(scriptIDs))
	for _, id := range scriptIDs {
		scripts[id] = &domain.ContentScript{ID: id, Title: "Roteiro"}
	}
	return &Service{scriptRepo: &fakeScriptRepo{scripts: scripts}}
}

func testCycle() *domain.MonthlyCycle {
	return &domain.MonthlyCycle{ID: 1, CycleYear: 2025, CycleMonth: 2, Status: domain.CycleStatusOpen}
}

func intPtr(value int) *int {
	return &value
}

func TestDedupePositive(t *testing.T) {
	assert.Equal(t, []int{3, 7}, dedupePositive([]int{3, -1, 0, 3, 7}))
	assert.Empty(t, dedupePositive([]int{-5, 0}))
}

func TestNormalizeRequestSemCiclo(t *testing.T) {
	service := newPlanTestService()

	_, err := service.normalizeRequest(nil, &domain.PlanMutationRequest{}, newPlanWorkingSet(nil))
	require.Error(t, err)

	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "Ciclo mensal nao encontrado.", planErr.Message)
}

func TestNormalizeRequestSemEntradasNemRemocoes(t *testing.T) {
	service := newPlanTestService()

	_, err := service.normalizeRequest(testCycle(), &domain.PlanMutationRequest{}, newPlanWorkingSet(nil))
	require.Error(t, err)

	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "Informe ao menos um dia para agendar.", planErr.Message)
}

func TestNormalizeRequestDescartaDatasInvalidasEmSilencio(t *testing.T) {
	service := newPlanTestService()

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "05/02/2025"}, // formato errado
			{Date: "2025-03-05"}, // fora do ciclo
			{Date: "2025-02-31"}, // dia inexistente
			{Date: " 2025-02-10 "},
		},
	}

	norm, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.NoError(t, err)

	require.Len(t, norm.entries, 1)
	assert.Equal(t, "2025-02-10", norm.entries[0].ScheduledDate)
}

func TestNormalizeRequestNenhumDiaValido(t *testing.T) {
	service := newPlanTestService()

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-03-05"},
			{Date: "invalida"},
		},
	}

	_, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.Error(t, err)

	var planErr *PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, "Nao foi possivel identificar dias validos para o agendamento.", planErr.Message)
}

func TestNormalizeRequestApenasRemocoes(t *testing.T) {
	service := newPlanTestService()

	req := &domain.PlanMutationRequest{
		RemovedPlanIDs:   []int{4, 4, -1},
		RemovedScriptIDs: []int{2},
	}

	norm, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.NoError(t, err)

	assert.Empty(t, norm.entries)
	assert.Equal(t, []int{4}, norm.removedPlanIDs)
	assert.Equal(t, []int{2}, norm.removedScriptIDs)
}

func TestNormalizeRequestDeduplicaParesEPlanos(t *testing.T) {
	service := newPlanTestService()

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-10"},
			{Date: "2025-02-10"},
			{PlanID: intPtr(9), Date: "2025-02-12"},
			{PlanID: intPtr(9), Date: "2025-02-13"},
		},
	}

	norm, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.NoError(t, err)

	require.Len(t, norm.entries, 2)
	assert.Equal(t, "2025-02-10", norm.entries[0].ScheduledDate)
	assert.Nil(t, norm.entries[0].PlanID)
	assert.Equal(t, "2025-02-12", norm.entries[1].ScheduledDate)
	require.NotNil(t, norm.entries[1].PlanID)
	assert.Equal(t, 9, *norm.entries[1].PlanID)
}

func TestNormalizeRequestDescartaRoteiroInexistente(t *testing.T) {
	service := newPlanTestService(3)

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-10", ScriptID: intPtr(3)},
			{Date: "2025-02-11", ScriptID: intPtr(99)},
		},
	}

	norm, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.NoError(t, err)

	require.Len(t, norm.entries, 2)
	require.NotNil(t, norm.entries[0].ContentScriptID)
	assert.Equal(t, 3, *norm.entries[0].ContentScriptID)
	assert.Nil(t, norm.entries[1].ContentScriptID)
}

func TestNormalizeRequestHerdaRoteiroDoPlanoExistente(t *testing.T) {
	service := newPlanTestService()

	existing := newPlanWorkingSet([]*domain.InfluencerPlan{
		{ID: 5, CycleID: 1, InfluencerID: 7, ContentScriptID: intPtr(3)},
	})

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{PlanID: intPtr(5), Date: "2025-02-10"},
		},
	}

	norm, err := service.normalizeRequest(testCycle(), req, existing)
	require.NoError(t, err)

	require.Len(t, norm.entries, 1)
	require.NotNil(t, norm.entries[0].ContentScriptID)
	assert.Equal(t, 3, *norm.entries[0].ContentScriptID)
}

func TestNormalizeRequestOrdenaPorData(t *testing.T) {
	service := newPlanTestService()

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-20"},
			{Date: "2025-02-05"},
			{Date: "2025-02-12"},
		},
	}

	norm, err := service.normalizeRequest(testCycle(), req, newPlanWorkingSet(nil))
	require.NoError(t, err)

	require.Len(t, norm.entries, 3)
	assert.Equal(t, "2025-02-05", norm.entries[0].ScheduledDate)
	assert.Equal(t, "2025-02-12", norm.entries[1].ScheduledDate)
	assert.Equal(t, "2025-02-20", norm.entries[2].ScheduledDate)
}

func TestShouldResetStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    domain.PlanStatus
		date      string
		scriptID  *int
		newDate   string
		newScript *int
		expected  bool
	}{
		{name: "agendado na mesma data mantem", status: domain.PlanStatusScheduled, date: "2025-02-10", newDate: "2025-02-10", expected: false},
		{name: "agendado mudando de data reinicia", status: domain.PlanStatusScheduled, date: "2025-02-10", newDate: "2025-02-11", expected: true},
		{name: "validado sem mudanca mantem", status: domain.PlanStatusValidated, date: "2025-02-10", scriptID: intPtr(3), newDate: "2025-02-10", newScript: intPtr(3), expected: false},
		{name: "validado mudando de data reinicia", status: domain.PlanStatusValidated, date: "2025-02-10", scriptID: intPtr(3), newDate: "2025-02-12", newScript: intPtr(3), expected: true},
		{name: "validado trocando de roteiro reinicia", status: domain.PlanStatusValidated, date: "2025-02-10", scriptID: intPtr(3), newDate: "2025-02-10", newScript: intPtr(5), expected: true},
		{name: "validado perdendo o roteiro reinicia", status: domain.PlanStatusValidated, date: "2025-02-10", scriptID: intPtr(3), newDate: "2025-02-10", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &domain.InfluencerPlan{Status: tt.status, ScheduledDate: mustDate(t, tt.date), ContentScriptID: tt.scriptID}
			assert.Equal(t, tt.expected, shouldResetStatus(plan, tt.newDate, tt.newScript))
		})
	}
}
