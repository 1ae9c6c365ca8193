package domain

// PlanAlert sinaliza um plano passado que ainda não foi validado.
type PlanAlert struct {
	ID     int        `json:"id"`
	Date   string     `json:"date"`
	Status PlanStatus `json:"status"`
}

// ScriptSuggestion é um roteiro recente oferecido como sugestão de conteúdo.
type ScriptSuggestion struct {
	ID          int    `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
}

// CommissionEstimate é a projeção de comissão do ciclo corrente, antes do
// fechamento.
type CommissionEstimate struct {
	BasePoints    int     `json:"basePoints"`
	TotalPoints   int     `json:"totalPoints"`
	Multiplier    float64 `json:"multiplier"`
	Label         string  `json:"label"`
	ValidatedDays int     `json:"validatedDays"`
	BaseValue     float64 `json:"baseValue"`
	TotalValue    float64 `json:"totalValue"`
	PointValue    float64 `json:"pointValue"`
}

// CycleProgress resume o andamento da influenciadora no ciclo.
type CycleProgress struct {
	PlannedDays         int     `json:"plannedDays"`
	ValidatedDays       int     `json:"validatedDays"`
	PendingValidations  int     `json:"pendingValidations"`
	Multiplier          float64 `json:"multiplier"`
	MultiplierLabel     string  `json:"multiplierLabel"`
	EstimatedCommission float64 `json:"estimatedCommission"`
	EstimatedPoints     int     `json:"estimatedPoints"`
}

// InfluencerDashboard é o painel do ciclo visto pela influenciadora.
type InfluencerDashboard struct {
	Cycle       *MonthlyCycle       `json:"cycle"`
	Influencer  *Influencer         `json:"influencer"`
	Plans       []*PlanWithDetails  `json:"plans"`
	Progress    *CycleProgress      `json:"progress"`
	Commission  *CommissionEstimate `json:"commission"`
	Alerts      []*PlanAlert        `json:"alerts"`
	Suggestions []*ScriptSuggestion `json:"suggestions"`
	NextPlan    *PlanWithDetails    `json:"nextPlan"`
}

// InfluencerCycleSummary é a linha por influenciadora do painel master.
type InfluencerCycleSummary struct {
	ID        int     `json:"id"`
	Name      string  `json:"nome"`
	Instagram *string `json:"instagram"`
	Planned   int     `json:"planned"`
	Validated int     `json:"validated"`
}

// MasterDashboardStats são os contadores agregados do ciclo.
type MasterDashboardStats struct {
	TotalInfluencers   int `json:"totalInfluencers"`
	PlannedPosts       int `json:"plannedPosts"`
	ValidatedPosts     int `json:"validatedPosts"`
	PendingValidations int `json:"pendingValidations"`
	Alerts             int `json:"alerts"`
}

// MasterDashboard é o painel do ciclo visto pela gestão.
type MasterDashboard struct {
	Cycle              *MonthlyCycle             `json:"cycle"`
	Plans              []*PlanWithDetails        `json:"plans"`
	PendingValidations []*PlanWithDetails        `json:"pendingValidations"`
	Influencers        []*InfluencerCycleSummary `json:"influencers"`
	Stats              *MasterDashboardStats     `json:"stats"`
}
