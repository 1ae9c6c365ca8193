package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)
	return parsed
}

func TestScriptKey(t *testing.T) {
	assert.Equal(t, 0, scriptKey(nil))
	assert.Equal(t, 3, scriptKey(intPtr(3)))
}

func TestFirstByScriptPrefereMaisRecente(t *testing.T) {
	older := &domain.InfluencerPlan{ID: 1, ContentScriptID: intPtr(3), UpdatedAt: mustDate(t, "2025-02-01")}
	newer := &domain.InfluencerPlan{ID: 2, ContentScriptID: intPtr(3), UpdatedAt: mustDate(t, "2025-02-05")}

	ws := newPlanWorkingSet([]*domain.InfluencerPlan{older, newer})

	found := ws.firstByScript(3, map[int]bool{}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 2, found.ID)

	// Já processado sai da fila e o próximo candidato assume.
	found = ws.firstByScript(3, map[int]bool{2: true}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 1, found.ID)

	assert.Nil(t, ws.firstByScript(3, map[int]bool{1: true, 2: true}, map[int]bool{}))
}

func TestFirstByScriptDesempataPeloMaiorID(t *testing.T) {
	same := mustDate(t, "2025-02-01")
	first := &domain.InfluencerPlan{ID: 4, ContentScriptID: intPtr(3), UpdatedAt: same}
	second := &domain.InfluencerPlan{ID: 9, ContentScriptID: intPtr(3), UpdatedAt: same}

	ws := newPlanWorkingSet([]*domain.InfluencerPlan{first, second})

	found := ws.firstByScript(3, map[int]bool{}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 9, found.ID)
}

func TestFindByDateDesempataPeloMenorID(t *testing.T) {
	ws := newPlanWorkingSet([]*domain.InfluencerPlan{
		{ID: 8, ScheduledDate: mustDate(t, "2025-02-10")},
		{ID: 2, ScheduledDate: mustDate(t, "2025-02-10")},
		{ID: 5, ScheduledDate: mustDate(t, "2025-02-11")},
	})

	found := ws.findByDate("2025-02-10", map[int]bool{}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 2, found.ID)

	found = ws.findByDate("2025-02-10", map[int]bool{2: true}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 8, found.ID)

	assert.Nil(t, ws.findByDate("2025-02-20", map[int]bool{}, map[int]bool{}))
}

func TestRemovePlanoSaiDosDoisIndices(t *testing.T) {
	plan := &domain.InfluencerPlan{ID: 1, ContentScriptID: intPtr(3), UpdatedAt: mustDate(t, "2025-02-01")}
	ws := newPlanWorkingSet([]*domain.InfluencerPlan{plan})

	ws.remove(1)

	assert.Nil(t, ws.get(1))
	assert.Nil(t, ws.firstByScript(3, map[int]bool{}, map[int]bool{}))
}

func TestRemoveScriptApagaOsPlanosDoRoteiro(t *testing.T) {
	ws := newPlanWorkingSet([]*domain.InfluencerPlan{
		{ID: 1, ContentScriptID: intPtr(3)},
		{ID: 2, ContentScriptID: intPtr(3)},
		{ID: 5, ContentScriptID: nil},
	})

	ws.removeScript(3)

	assert.Nil(t, ws.get(1))
	assert.Nil(t, ws.get(2))
	assert.NotNil(t, ws.get(5))
}

func TestPromoteColocaOPlanoNaFrente(t *testing.T) {
	existing := &domain.InfluencerPlan{ID: 1, ContentScriptID: intPtr(3), UpdatedAt: mustDate(t, "2025-02-05")}
	ws := newPlanWorkingSet([]*domain.InfluencerPlan{existing})

	promoted := &domain.InfluencerPlan{ID: 2, ContentScriptID: intPtr(3), UpdatedAt: mustDate(t, "2025-02-01")}
	ws.promote(promoted)

	found := ws.firstByScript(3, map[int]bool{}, map[int]bool{})
	require.NotNil(t, found)
	assert.Equal(t, 2, found.ID)
}
