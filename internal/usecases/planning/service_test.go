package planning

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

// fakeTxRunner executa a função transacional diretamente, sem banco.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

// fakePlanRepo guarda os planos em memória, espelhando as mutações que o
// repositório real faria.
type fakePlanRepo struct {
	plans  map[int]*domain.InfluencerPlan
	nextID int
}

func newFakePlanRepo(plans ...*domain.InfluencerPlan) *fakePlanRepo {
	repo := &fakePlanRepo{plans: make(map[int]*domain.InfluencerPlan), nextID: 1}
	for _, plan := range plans {
		copied := *plan
		repo.plans[plan.ID] = &copied
		if plan.ID >= repo.nextID {
			repo.nextID = plan.ID + 1
		}
	}
	return repo
}

func (f *fakePlanRepo) WithTx(tx *sql.Tx) repository.PlanRepository {
	return f
}

func (f *fakePlanRepo) GetByID(id int) (*domain.InfluencerPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, nil
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlanRepo) GetDetailsByID(id int) (*domain.PlanWithDetails, error) {
	return nil, nil
}

func (f *fakePlanRepo) ListByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.InfluencerPlan, error) {
	result := make([]*domain.InfluencerPlan, 0, len(f.plans))
	for _, plan := range f.plans {
		if plan.CycleID == cycleID && plan.InfluencerID == influencerID {
			copied := *plan
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakePlanRepo) ListDetailsByCycleAndInfluencer(cycleID, influencerID int) ([]*domain.PlanWithDetails, error) {
	plans, _ := f.ListByCycleAndInfluencer(cycleID, influencerID)
	details := make([]*domain.PlanWithDetails, 0, len(plans))
	for _, plan := range plans {
		details = append(details, &domain.PlanWithDetails{
			ID:              plan.ID,
			CycleID:         plan.CycleID,
			InfluencerID:    plan.InfluencerID,
			ScheduledDate:   plan.DateOnly(),
			Status:          plan.Status,
			ContentScriptID: plan.ContentScriptID,
			Notes:           plan.Notes,
		})
	}
	return details, nil
}

func (f *fakePlanRepo) ListDetailsByCycle(cycleID int) ([]*domain.PlanWithDetails, error) {
	return nil, nil
}

func (f *fakePlanRepo) ListPendingValidation(cycleID int) ([]*domain.PlanWithDetails, error) {
	return nil, nil
}

func (f *fakePlanRepo) Create(plan *domain.InfluencerPlan) (*domain.InfluencerPlan, error) {
	plan.ID = f.nextID
	f.nextID++
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	copied := *plan
	f.plans[plan.ID] = &copied
	return plan, nil
}

func (f *fakePlanRepo) Update(plan *domain.InfluencerPlan) error {
	stored, ok := f.plans[plan.ID]
	if !ok {
		return nil
	}
	copied := *plan
	copied.CreatedAt = stored.CreatedAt
	copied.UpdatedAt = time.Now().UTC()
	f.plans[plan.ID] = &copied
	return nil
}

func (f *fakePlanRepo) UpdateStatus(id int, status domain.PlanStatus) error {
	if plan, ok := f.plans[id]; ok {
		plan.Status = status
	}
	return nil
}

func (f *fakePlanRepo) Delete(id int) error {
	delete(f.plans, id)
	return nil
}

func (f *fakePlanRepo) DeleteByScript(cycleID, influencerID, scriptID int) (int64, error) {
	var count int64
	for id, plan := range f.plans {
		if plan.CycleID == cycleID && plan.InfluencerID == influencerID &&
			plan.ContentScriptID != nil && *plan.ContentScriptID == scriptID {
			delete(f.plans, id)
			count++
		}
	}
	return count, nil
}

func (f *fakePlanRepo) ExistsByDate(cycleID, influencerID int, date time.Time, excludeID int) (bool, error) {
	target := date.Format(time.DateOnly)
	for _, plan := range f.plans {
		if plan.ID != excludeID && plan.CycleID == cycleID && plan.InfluencerID == influencerID &&
			plan.DateOnly() == target {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlanRepo) CountByCycleAndInfluencer(cycleID, influencerID int) (int, error) {
	plans, _ := f.ListByCycleAndInfluencer(cycleID, influencerID)
	return len(plans), nil
}

func (f *fakePlanRepo) CountValidated(cycleID, influencerID int) (int, error) {
	count := 0
	for _, plan := range f.plans {
		if plan.CycleID == cycleID && plan.InfluencerID == influencerID && plan.Status == domain.PlanStatusValidated {
			count++
		}
	}
	return count, nil
}

// fakeCycleManager registra os toques de ciclo feitos pela reconciliação.
type fakeCycleManager struct {
	touched []int
}

func (f *fakeCycleManager) EnsureCurrentCycle(ctx context.Context) (*domain.MonthlyCycle, error) {
	return testCycle(), nil
}

func (f *fakeCycleManager) GetCycleByIDOrCurrent(ctx context.Context, cycleID *int) (*domain.MonthlyCycle, error) {
	return testCycle(), nil
}

func (f *fakeCycleManager) EnsureCycleForDate(tx *sql.Tx, date string) (*domain.MonthlyCycle, error) {
	return testCycle(), nil
}

func (f *fakeCycleManager) TouchCycle(tx *sql.Tx, cycleID int) {
	f.touched = append(f.touched, cycleID)
}

func newReconcileTestService(planRepo *fakePlanRepo, scriptIDs ...int) (*Service, *fakeCycleManager) {
	scripts := make(map[int]*domain.ContentScript, len(scriptIDs))
	for _, id := range scriptIDs {
		scripts[id] = &domain.ContentScript{ID: id, Title: "Roteiro"}
	}
	cycles := &fakeCycleManager{}
	service := &Service{
		conn:       fakeTxRunner{},
		planRepo:   planRepo,
		scriptRepo: &fakeScriptRepo{scripts: scripts},
		cycles:     cycles,
	}
	return service, cycles
}

func testInfluencer() *domain.Influencer {
	return &domain.Influencer{ID: 7, Name: "Ana"}
}

func seedPlan(id int, date string, scriptID *int, status domain.PlanStatus) *domain.InfluencerPlan {
	scheduled, _ := time.Parse(time.DateOnly, date)
	return &domain.InfluencerPlan{
		ID:              id,
		CycleID:         1,
		InfluencerID:    7,
		ScheduledDate:   scheduled,
		ContentScriptID: scriptID,
		Status:          status,
	}
}

func TestReconcilePlansAplicacaoRepetidaEIdempotente(t *testing.T) {
	repo := newFakePlanRepo()
	service, _ := newReconcileTestService(repo, 3)

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-05", ScriptID: intPtr(3), Notes: "post do lancamento"},
			{Date: "2025-02-10"},
		},
	}

	first, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)
	require.Len(t, second, 2)

	// A segunda aplicação atualiza os mesmos planos em vez de duplicá-los.
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].ScheduledDate, second[i].ScheduledDate)
	}
	plans, _ := repo.ListByCycleAndInfluencer(1, 7)
	assert.Len(t, plans, 2)
}

func TestReconcilePlansPreservaStatusSemMudanca(t *testing.T) {
	repo := newFakePlanRepo(
		seedPlan(1, "2025-02-05", intPtr(3), domain.PlanStatusValidated),
		seedPlan(2, "2025-02-10", nil, domain.PlanStatusValidated),
	)
	service, _ := newReconcileTestService(repo, 3)

	// O plano 1 volta idêntico (o roteiro é herdado do próprio plano); o
	// plano 2 muda de data.
	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{PlanID: intPtr(1), Date: "2025-02-05"},
			{PlanID: intPtr(2), Date: "2025-02-12"},
		},
	}

	_, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)

	unchanged, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusValidated, unchanged.Status)
	assert.Equal(t, "2025-02-05", unchanged.DateOnly())

	redated, err := repo.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusScheduled, redated.Status)
	assert.Equal(t, "2025-02-12", redated.DateOnly())
}

func TestReconcilePlansMesmaDataComChavesDistintas(t *testing.T) {
	repo := newFakePlanRepo()
	service, _ := newReconcileTestService(repo, 3)

	// Mesma data, chaves (roteiro, data) diferentes: a entrada sem roteiro
	// não pode reaproveitar o plano recém-criado pela entrada com roteiro.
	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-05", ScriptID: intPtr(3)},
			{Date: "2025-02-05"},
		},
	}

	_, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)

	plans, _ := repo.ListByCycleAndInfluencer(1, 7)
	require.Len(t, plans, 2)

	withScript := 0
	for _, plan := range plans {
		assert.Equal(t, "2025-02-05", plan.DateOnly())
		assert.Equal(t, domain.PlanStatusScheduled, plan.Status)
		if plan.ContentScriptID != nil {
			withScript++
			assert.Equal(t, 3, *plan.ContentScriptID)
		}
	}
	assert.Equal(t, 1, withScript)
}

func TestReconcilePlansCasaPorRoteiroEPorData(t *testing.T) {
	repo := newFakePlanRepo(
		seedPlan(1, "2025-02-05", intPtr(3), domain.PlanStatusScheduled),
		seedPlan(2, "2025-02-10", nil, domain.PlanStatusScheduled),
	)
	service, cycles := newReconcileTestService(repo, 3)

	// Reagenda o roteiro 3 e mantém o dia avulso; nada é criado.
	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-08", ScriptID: intPtr(3)},
			{Date: "2025-02-10"},
		},
	}

	result, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	moved, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-08", moved.DateOnly())
	assert.Equal(t, domain.PlanStatusScheduled, moved.Status)

	kept, err := repo.GetByID(2)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-10", kept.DateOnly())

	assert.Equal(t, []int{1}, cycles.touched)
}

func TestReconcilePlansRemocoesPorPlanoEPorRoteiro(t *testing.T) {
	repo := newFakePlanRepo(
		seedPlan(1, "2025-02-05", intPtr(3), domain.PlanStatusScheduled),
		seedPlan(2, "2025-02-10", intPtr(4), domain.PlanStatusScheduled),
		seedPlan(3, "2025-02-15", intPtr(4), domain.PlanStatusScheduled),
		seedPlan(4, "2025-02-20", nil, domain.PlanStatusScheduled),
	)
	service, cycles := newReconcileTestService(repo, 3, 4)

	req := &domain.PlanMutationRequest{
		RemovedPlanIDs:   []int{4},
		RemovedScriptIDs: []int{4},
	}

	result, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)

	assert.Equal(t, []int{1}, cycles.touched)
}

func TestReconcilePlansAppendSempreCria(t *testing.T) {
	repo := newFakePlanRepo(
		seedPlan(1, "2025-02-05", intPtr(3), domain.PlanStatusScheduled),
	)
	service, _ := newReconcileTestService(repo, 3)

	req := &domain.PlanMutationRequest{
		Entries: []domain.PlanEntryInput{
			{Date: "2025-02-18", ScriptID: intPtr(3), Append: true},
		},
	}

	result, err := service.ReconcilePlans(context.Background(), testCycle(), testInfluencer(), req)
	require.NoError(t, err)
	require.Len(t, result, 2)

	original, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-05", original.DateOnly())
}
