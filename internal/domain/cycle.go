package domain

import (
	"fmt"
	"time"
)

type CycleStatus string

const (
	CycleStatusOpen   CycleStatus = "open"
	CycleStatusClosed CycleStatus = "closed"
)

// MonthlyCycle representa o ciclo mensal de planejamento. Existe no máximo
// um ciclo aberto por (ano, mês); a garantia é reforçada por uma constraint
// única no banco.
type MonthlyCycle struct {
	ID         int         `json:"id"`
	CycleYear  int         `json:"cycle_year"`
	CycleMonth int         `json:"cycle_month"`
	Status     CycleStatus `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	ClosedAt   *time.Time  `json:"closed_at"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// MonthPrefix retorna o prefixo YYYY-MM- que toda data agendada neste ciclo
// precisa carregar.
func (c *MonthlyCycle) MonthPrefix() string {
	return fmt.Sprintf("%04d-%02d-", c.CycleYear, c.CycleMonth)
}

// Label retorna o rótulo MM/YYYY exibido nos painéis.
func (c *MonthlyCycle) Label() string {
	return fmt.Sprintf("%02d/%04d", c.CycleMonth, c.CycleYear)
}

// StartDate retorna o primeiro dia do mês do ciclo (UTC).
func (c *MonthlyCycle) StartDate() time.Time {
	return time.Date(c.CycleYear, time.Month(c.CycleMonth), 1, 0, 0, 0, 0, time.UTC)
}

// EndDate retorna o último dia do mês do ciclo (UTC).
func (c *MonthlyCycle) EndDate() time.Time {
	return c.StartDate().AddDate(0, 1, -1)
}

// CycleSummary é a projeção do ciclo usada nas respostas dos painéis.
type CycleSummary struct {
	ID        int         `json:"id"`
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Status    CycleStatus `json:"status"`
	Label     string      `json:"label"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
}

// Summary monta a projeção do ciclo para a API.
func (c *MonthlyCycle) Summary() *CycleSummary {
	return &CycleSummary{
		ID:        c.ID,
		Year:      c.CycleYear,
		Month:     c.CycleMonth,
		Status:    c.Status,
		Label:     c.Label(),
		StartDate: c.StartDate().Format(time.DateOnly),
		EndDate:   c.EndDate().Format(time.DateOnly),
	}
}
