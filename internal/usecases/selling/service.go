package selling

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
	"github.com/hidrapink/influencer-ops-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// SaleRequest é o corpo de criação/edição manual de uma venda, já com os
// apelidos de campo resolvidos pela camada HTTP.
type SaleRequest struct {
	OrderNumber string
	Coupon      string
	Date        string
	Points      *float64
	Status      string
	Items       []*SaleItemRequest
}

// SaleItemRequest é um item SKU/quantidade informado no corpo da venda.
type SaleItemRequest struct {
	SKU      string
	Quantity float64
}

type Seller interface {
	AnalyzeImport(ctx context.Context, text string) (*domain.ImportAnalysis, error)
	ConfirmImport(ctx context.Context, text string) (*domain.ImportResult, error)
	CreateSale(ctx context.Context, req *SaleRequest) (*domain.Sale, error)
	UpdateSale(ctx context.Context, saleID int, req *SaleRequest) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID int) error
	ListSalesByInfluencer(influencerID int) ([]*domain.Sale, error)
	GetSalesSummary(influencer *domain.Influencer) (*domain.SalesSummary, error)
}

type Service struct {
	conn           *postgres.Connection
	saleRepo       repository.SaleRepository
	skuRepo        repository.SkuPointRepository
	influencerRepo repository.InfluencerRepository
	cycles         cycling.CycleManager
	converter      *points.Converter
}

func NewService(
	conn *postgres.Connection,
	saleRepo repository.SaleRepository,
	skuRepo repository.SkuPointRepository,
	influencerRepo repository.InfluencerRepository,
	cycles cycling.CycleManager,
	converter *points.Converter,
) Seller {
	return &Service{
		conn:           conn,
		saleRepo:       saleRepo,
		skuRepo:        skuRepo,
		influencerRepo: influencerRepo,
		cycles:         cycles,
		converter:      converter,
	}
}

// AnalyzeImport interpreta o texto colado (exportação do e-commerce ou
// formato livre) e devolve o relatório linha a linha, sem persistir nada.
func (s *Service) AnalyzeImport(ctx context.Context, text string) (*domain.ImportAnalysis, error) {
	trimmed := strings.TrimSpace(stripBOM(text))
	if trimmed == "" {
		return nil, NewSaleError(ErrEmptyImport, apiErrors.ErrMissingRequiredData, "Cole os dados das vendas para realizar a importacao.")
	}

	skuPoints, err := s.skuRepo.MapActivePoints()
	if err != nil {
		return nil, err
	}

	entries, err := tryParseShopifySalesImport(trimmed, skuPoints)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = parseManualSalesImport(trimmed)
	}
	if len(entries) == 0 {
		return nil, NewSaleError(ErrNoRowsToImport, apiErrors.ErrInvalidFormat, "Nenhuma venda encontrada nos dados informados.")
	}

	coupons := make([]string, 0, len(entries))
	seenCoupons := make(map[string]bool)
	for _, entry := range entries {
		coupon := strings.TrimSpace(entry.Coupon)
		if coupon == "" || seenCoupons[coupon] {
			continue
		}
		seenCoupons[coupon] = true
		coupons = append(coupons, coupon)
	}
	couponMap, err := s.influencerRepo.MapByCoupons(coupons)
	if err != nil {
		return nil, err
	}

	orderNumbers := make([]string, 0, len(entries))
	seenOrders := make(map[string]bool)
	for _, entry := range entries {
		order := strings.TrimSpace(entry.OrderNumber)
		if order == "" || seenOrders[order] {
			continue
		}
		seenOrders[order] = true
		orderNumbers = append(orderNumbers, order)
	}
	existingOrders, err := s.saleRepo.FilterExistingOrderNumbers(orderNumbers)
	if err != nil {
		return nil, err
	}

	return buildImportAnalysis(entries, couponMap, existingOrders, s.converter), nil
}

// ConfirmImport reanalisa o texto e insere as linhas válidas em uma única
// transação. Linhas com erro são ignoradas e contabilizadas no resultado.
func (s *Service) ConfirmImport(ctx context.Context, text string) (*domain.ImportResult, error) {
	analysis, err := s.AnalyzeImport(ctx, text)
	if err != nil {
		return nil, err
	}
	if analysis.TotalCount == 0 {
		return nil, NewSaleError(ErrNoRowsToImport, apiErrors.ErrInvalidRequest, "Nenhuma venda encontrada para importar.")
	}

	validRows := make([]*domain.AnalyzedImportRow, 0, len(analysis.Rows))
	for _, row := range analysis.Rows {
		if row.Valid() {
			validRows = append(validRows, row)
		}
	}
	if len(validRows) == 0 {
		return nil, &SaleError{
			Err:     ErrNoValidRows,
			Code:    apiErrors.ErrResourceConflict,
			Message: "Nenhum pedido pronto para importacao.",
			Details: analysis,
		}
	}

	batchID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o identificador do lote: %w", err)
	}

	createdIDs := make([]int, 0, len(validRows))
	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		saleRepo := s.saleRepo.WithTx(tx)

		for _, row := range validRows {
			cycle, err := s.cycles.EnsureCycleForDate(tx, *row.Date)
			if err != nil {
				return err
			}

			date, err := time.Parse(time.DateOnly, *row.Date)
			if err != nil {
				return fmt.Errorf("erro ao interpretar a data da venda: %w", err)
			}

			sale := &domain.Sale{
				InfluencerID: *row.InfluencerID,
				OrderNumber:  row.OrderNumber,
				Date:         date,
				Commission:   s.converter.PointsToBRL(float64(row.Points)),
				Points:       row.Points,
				Status:       domain.SaleStatusPending,
			}
			if cycle != nil {
				sale.CycleID = &cycle.ID
			}

			if _, err := saleRepo.Create(sale); err != nil {
				return err
			}

			items := make([]*domain.SaleSkuPoint, 0, len(row.SkuDetails))
			for _, detail := range row.SkuDetails {
				if detail == nil || detail.SKU == "" {
					continue
				}
				item := &domain.SaleSkuPoint{SKU: detail.SKU}
				if detail.Quantity != nil {
					item.Quantity = int(math.Round(*detail.Quantity))
				}
				if detail.PointsPerUnit != nil {
					item.PointsPerUnit = *detail.PointsPerUnit
				}
				if detail.Points != nil {
					item.Points = *detail.Points
				}
				items = append(items, item)
			}
			if err := saleRepo.InsertItems(sale.ID, items); err != nil {
				return err
			}

			if sale.CycleID != nil {
				s.cycles.TouchCycle(tx, *sale.CycleID)
			}

			createdIDs = append(createdIDs, sale.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]*domain.Sale, 0, len(createdIDs))
	for _, id := range createdIDs {
		sale, err := s.saleRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if sale != nil {
			created = append(created, sale)
		}
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"inserted": len(created),
	}).Info("Importação de vendas concluída")

	return &domain.ImportResult{
		BatchID:  batchID,
		Inserted: len(created),
		Ignored:  analysis.TotalCount - len(validRows),
		Rows:     created,
		Summary:  analysis.Summary,
	}, nil
}

type normalizedSale struct {
	orderNumber string
	coupon      string
	date        string
	points      int
	items       []*domain.SaleSkuPoint
}

// normalizeSaleItems resolve os itens informados contra a tabela de SKUs
// ativa. Todos os problemas encontrados voltam juntos em Details.
func (s *Service) normalizeSaleItems(items []*SaleItemRequest) ([]*domain.SaleSkuPoint, int, error) {
	if len(items) == 0 {
		return nil, 0, nil
	}

	normalized := make([]*domain.SaleSkuPoint, 0, len(items))
	var problems []string

	for index, item := range items {
		if item == nil {
			continue
		}

		positionLabel := fmt.Sprintf("Item %d", index+1)
		sku := strings.TrimSpace(item.SKU)
		if sku == "" {
			problems = append(problems, fmt.Sprintf("%s: informe o SKU.", positionLabel))
			continue
		}

		record, err := s.skuRepo.GetActiveBySKU(sku)
		if err != nil {
			return nil, 0, err
		}
		if record == nil {
			problems = append(problems, fmt.Sprintf("SKU %s nao possui pontuacao cadastrada.", sku))
			continue
		}

		if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) || item.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("%s: quantidade invalida.", positionLabel))
			continue
		}
		quantity := int(math.Round(item.Quantity))
		if math.Abs(float64(quantity)-item.Quantity) > 0.0001 {
			problems = append(problems, fmt.Sprintf("%s: quantidade deve ser um numero inteiro.", positionLabel))
			continue
		}

		pointsPerUnit := points.RoundPoints(record.PointsPerUnit)
		normalized = append(normalized, &domain.SaleSkuPoint{
			SKU:           record.SKU,
			Quantity:      quantity,
			PointsPerUnit: float64(pointsPerUnit),
			Points:        points.RoundPoints(float64(quantity) * float64(pointsPerUnit)),
		})
	}

	if len(problems) > 0 {
		return nil, 0, &SaleError{
			Err:     ErrInvalidSaleBody,
			Code:    apiErrors.ErrInvalidRequest,
			Message: problems[0],
			Details: problems,
		}
	}

	totalPoints := 0
	for _, item := range normalized {
		totalPoints += item.Points
	}

	return normalized, totalPoints, nil
}

// normalizeSaleBody valida o corpo da venda manual. A pontuação informada
// precisa bater com o total calculado pelos SKUs quando há itens.
func (s *Service) normalizeSaleBody(req *SaleRequest) (*normalizedSale, error) {
	if req == nil {
		req = &SaleRequest{}
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	coupon := strings.TrimSpace(req.Coupon)
	date := strings.TrimSpace(req.Date)

	if orderNumber == "" {
		return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrMissingRequiredData, "Informe o numero do pedido.")
	}
	if len(orderNumber) > 100 {
		return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrInvalidFormat, "Numero do pedido deve ter no maximo 100 caracteres.")
	}
	if coupon == "" {
		return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrMissingRequiredData, "Informe o cupom da influenciadora.")
	}
	if !cycling.IsValidDate(date) {
		return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrInvalidFormat, "Informe uma data valida (YYYY-MM-DD).")
	}

	items, totalPoints, err := s.normalizeSaleItems(req.Items)
	if err != nil {
		return nil, err
	}

	var pointsValue *int
	if req.Points != nil {
		raw := *req.Points
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
			return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrInvalidFormat, "Pontos deve ser um numero inteiro maior ou igual a zero.")
		}
		rounded := points.RoundPoints(raw)
		if math.Abs(float64(rounded)-raw) > 0.0001 {
			return nil, NewSaleError(ErrInvalidSaleBody, apiErrors.ErrInvalidFormat, "Pontos deve ser um numero inteiro.")
		}
		pointsValue = &rounded
	}

	if len(items) > 0 {
		if pointsValue != nil && *pointsValue != totalPoints {
			return nil, &SaleError{
				Err:     ErrInvalidSaleBody,
				Code:    apiErrors.ErrInvalidRequest,
				Message: "A pontuacao informada nao corresponde ao total calculado pelos SKUs.",
				Details: []string{"Ajuste os pontos ou os itens cadastrados para prosseguir."},
			}
		}
		pointsValue = &totalPoints
	}

	if pointsValue == nil {
		return nil, &SaleError{
			Err:     ErrInvalidSaleBody,
			Code:    apiErrors.ErrMissingRequiredData,
			Message: "Informe a pontuacao da venda ou cadastre pelo menos um SKU valido.",
			Details: []string{"Adicione itens com SKU cadastrado para calcular os pontos automaticamente."},
		}
	}

	return &normalizedSale{
		orderNumber: orderNumber,
		coupon:      coupon,
		date:        date,
		points:      *pointsValue,
		items:       items,
	}, nil
}

func validateSaleStatus(value string, fallback domain.SaleStatus) (domain.SaleStatus, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		if fallback == "" {
			return domain.SaleStatusPending, nil
		}
		return fallback, nil
	}

	status := domain.SaleStatus(trimmed)
	if !domain.ValidSaleStatus(status) {
		return "", NewSaleError(ErrInvalidSaleStatus, apiErrors.ErrInvalidFormat, "Status invalido. Use pending, approved ou rejected.")
	}
	return status, nil
}

// CreateSale cadastra uma venda manual atribuída pelo cupom da
// influenciadora. O número do pedido é único globalmente.
func (s *Service) CreateSale(ctx context.Context, req *SaleRequest) (*domain.Sale, error) {
	data, err := s.normalizeSaleBody(req)
	if err != nil {
		return nil, err
	}

	influencer, err := s.influencerRepo.GetByCoupon(data.coupon)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, NewSaleError(ErrCouponNotFound, apiErrors.ErrResourceNotFound, "Cupom nao encontrado.")
	}

	existingID, err := s.saleRepo.GetIDByOrderNumber(data.orderNumber)
	if err != nil {
		return nil, err
	}
	if existingID > 0 {
		return nil, NewSaleError(ErrDuplicateOrder, apiErrors.ErrResourceConflict, "Ja existe uma venda com esse numero de pedido.")
	}

	var saleID int
	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		saleRepo := s.saleRepo.WithTx(tx)

		cycle, err := s.cycles.EnsureCycleForDate(tx, data.date)
		if err != nil {
			return err
		}

		date, err := time.Parse(time.DateOnly, data.date)
		if err != nil {
			return fmt.Errorf("erro ao interpretar a data da venda: %w", err)
		}

		orderNumber := data.orderNumber
		sale := &domain.Sale{
			InfluencerID: influencer.ID,
			OrderNumber:  &orderNumber,
			Date:         date,
			Commission:   s.converter.PointsToBRL(float64(data.points)),
			Points:       data.points,
			Status:       domain.SaleStatusPending,
		}
		if cycle != nil {
			sale.CycleID = &cycle.ID
		}

		if _, err := saleRepo.Create(sale); err != nil {
			return err
		}
		if err := saleRepo.InsertItems(sale.ID, data.items); err != nil {
			return err
		}

		if sale.CycleID != nil {
			s.cycles.TouchCycle(tx, *sale.CycleID)
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetByID(saleID)
}

// UpdateSale substitui todos os campos da venda, inclusive os itens. O ciclo
// antigo também é tocado quando a venda muda de mês.
func (s *Service) UpdateSale(ctx context.Context, saleID int, req *SaleRequest) (*domain.Sale, error) {
	if saleID <= 0 {
		return nil, NewSaleError(ErrInvalidSaleID, apiErrors.ErrInvalidRequest, "ID invalido.")
	}

	existing, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NewSaleError(ErrSaleNotFound, apiErrors.ErrResourceNotFound, "Venda nao encontrada.")
	}

	data, err := s.normalizeSaleBody(req)
	if err != nil {
		return nil, err
	}

	influencer, err := s.influencerRepo.GetByCoupon(data.coupon)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, NewSaleError(ErrCouponNotFound, apiErrors.ErrResourceNotFound, "Cupom nao encontrado.")
	}

	conflictingID, err := s.saleRepo.GetIDByOrderNumber(data.orderNumber)
	if err != nil {
		return nil, err
	}
	if conflictingID > 0 && conflictingID != saleID {
		return nil, NewSaleError(ErrDuplicateOrder, apiErrors.ErrResourceConflict, "Ja existe uma venda com esse numero de pedido.")
	}

	status := req.Status
	nextStatus, err := validateSaleStatus(status, existing.Status)
	if err != nil {
		return nil, err
	}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		saleRepo := s.saleRepo.WithTx(tx)

		cycle, err := s.cycles.EnsureCycleForDate(tx, data.date)
		if err != nil {
			return err
		}

		date, err := time.Parse(time.DateOnly, data.date)
		if err != nil {
			return fmt.Errorf("erro ao interpretar a data da venda: %w", err)
		}

		orderNumber := data.orderNumber
		sale := &domain.Sale{
			ID:           saleID,
			InfluencerID: influencer.ID,
			OrderNumber:  &orderNumber,
			Date:         date,
			Commission:   s.converter.PointsToBRL(float64(data.points)),
			Points:       data.points,
			Status:       nextStatus,
		}
		if cycle != nil {
			sale.CycleID = &cycle.ID
		}

		if err := saleRepo.Update(sale); err != nil {
			return err
		}

		if err := saleRepo.DeleteItems(saleID); err != nil {
			return err
		}
		if err := saleRepo.InsertItems(saleID, data.items); err != nil {
			return err
		}

		if sale.CycleID != nil {
			s.cycles.TouchCycle(tx, *sale.CycleID)
		}
		if existing.CycleID != nil && (sale.CycleID == nil || *existing.CycleID != *sale.CycleID) {
			s.cycles.TouchCycle(tx, *existing.CycleID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetByID(saleID)
}

// DeleteSale remove a venda e seus itens, tocando o ciclo da venda.
func (s *Service) DeleteSale(ctx context.Context, saleID int) error {
	if saleID <= 0 {
		return NewSaleError(ErrInvalidSaleID, apiErrors.ErrInvalidRequest, "ID invalido.")
	}

	existing, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewSaleError(ErrSaleNotFound, apiErrors.ErrResourceNotFound, "Venda nao encontrada.")
	}

	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		saleRepo := s.saleRepo.WithTx(tx)

		if err := saleRepo.DeleteItems(saleID); err != nil {
			return err
		}
		if err := saleRepo.Delete(saleID); err != nil {
			return err
		}

		if existing.CycleID != nil {
			s.cycles.TouchCycle(tx, *existing.CycleID)
		}
		return nil
	})
}

func (s *Service) ListSalesByInfluencer(influencerID int) ([]*domain.Sale, error) {
	if influencerID <= 0 {
		return []*domain.Sale{}, nil
	}
	return s.saleRepo.ListByInfluencer(influencerID)
}

// GetSalesSummary soma os pontos aprovados da influenciadora.
func (s *Service) GetSalesSummary(influencer *domain.Influencer) (*domain.SalesSummary, error) {
	summary := &domain.SalesSummary{
		PointValueBRL: s.converter.PointValueBRL(),
	}
	if influencer == nil || influencer.ID <= 0 {
		return summary, nil
	}

	totalPoints, err := s.saleRepo.SumApprovedPoints(influencer.ID)
	if err != nil {
		return nil, err
	}

	summary.InfluencerID = &influencer.ID
	summary.Coupon = influencer.Coupon
	summary.CommissionRate = influencer.CommissionRate
	summary.TotalPoints = totalPoints
	summary.TotalPointsValue = s.converter.PointsToBRL(float64(totalPoints))

	return summary, nil
}
