package domain

import "time"

type PlanStatus string

const (
	PlanStatusScheduled PlanStatus = "scheduled"
	PlanStatusPosted    PlanStatus = "posted"
	PlanStatusValidated PlanStatus = "validated"
	PlanStatusMissed    PlanStatus = "missed"
)

// InfluencerPlan é um compromisso de postagem de uma influenciadora em uma
// data dentro de um ciclo mensal.
type InfluencerPlan struct {
	ID              int        `json:"id"`
	CycleID         int        `json:"cycle_id"`
	InfluencerID    int        `json:"influencer_id"`
	ScheduledDate   time.Time  `json:"-"`
	ContentScriptID *int       `json:"content_script_id"`
	Notes           *string    `json:"notes"`
	Status          PlanStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DateOnly retorna a data agendada no formato YYYY-MM-DD.
func (p *InfluencerPlan) DateOnly() string {
	return p.ScheduledDate.Format(time.DateOnly)
}

// PlanWithDetails é a linha de plano com os campos da influenciadora e do
// roteiro já resolvidos, usada em painéis e validações.
type PlanWithDetails struct {
	ID              int        `json:"id"`
	CycleID         int        `json:"cycle_id"`
	InfluencerID    int        `json:"influencer_id"`
	ScheduledDate   string     `json:"scheduled_date"`
	Status          PlanStatus `json:"status"`
	ContentScriptID *int       `json:"content_script_id"`
	Notes           *string    `json:"notes,omitempty"`
	InfluencerName  *string    `json:"influencer_name"`
	Instagram       *string    `json:"instagram"`
	ScriptTitle     *string    `json:"script_title"`
}

// PlanMutationRequest é o esquema tipado da reconciliação de planos. A
// resolução dos vários apelidos de campo do payload legado acontece no
// adaptador da borda HTTP, nunca aqui dentro.
type PlanMutationRequest struct {
	Entries          []PlanEntryInput
	RemovedScriptIDs []int
	RemovedPlanIDs   []int
}

// PlanEntryInput é uma entrada proposta, ainda não validada, de um dia de
// conteúdo.
type PlanEntryInput struct {
	PlanID   *int
	Date     string
	ScriptID *int
	Notes    string
	Append   bool
}

// NormalizedPlanEntry é a entrada depois da normalização: data validada
// dentro do ciclo, roteiro confirmado em banco e deduplicação aplicada.
type NormalizedPlanEntry struct {
	PlanID          *int
	ScheduledDate   string
	ContentScriptID *int
	Notes           *string
	Append          bool
}

// SinglePlanUpdate descreve a alteração pontual de um plano (PUT por id).
type SinglePlanUpdate struct {
	PlanID       int
	NextDate     *string
	NextScriptID *int
	ClearScript  bool
	Notes        *string
}
