package handler

import (
	"net/http"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/api/handler/router"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/authenticating"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/planning"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/reporting"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/selling"
	"github.com/hidrapink/influencer-ops-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Planner retorna as rotas do planejamento mensal de conteúdo
func Planner(
	planner planning.Planner,
	cycles cycling.CycleManager,
	influencerRepo repository.InfluencerRepository,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/plans",
			Method:      http.MethodGet,
			Handler:     ListInfluencerPlans(planner, cycles, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/plans",
			Method:      http.MethodPost,
			Handler:     ReconcileInfluencerPlans(planner, cycles, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/plans/:id",
			Method:      http.MethodPut,
			Handler:     UpdatePlan(planner, cycles, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/validations",
			Method:      http.MethodGet,
			Handler:     ListPendingValidations(planner, cycles),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/validations/:id/approve",
			Method:      http.MethodPost,
			Handler:     ApprovePlanValidation(planner),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/validations/:id/reject",
			Method:      http.MethodPost,
			Handler:     RejectPlanValidation(planner),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
	}
}

// Sales retorna as rotas de vendas: importação em lote, cadastro manual e
// consultas por influenciadora
func Sales(seller selling.Seller, influencerRepo repository.InfluencerRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sales/import/analyze",
			Method:      http.MethodPost,
			Handler:     AnalyzeSalesImport(seller),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/sales/import/confirm",
			Method:      http.MethodPost,
			Handler:     ConfirmSalesImport(seller),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     CreateSale(seller),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodPut,
			Handler:     UpdateSale(seller),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteSale(seller),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/influencers/:influencerId/sales",
			Method:      http.MethodGet,
			Handler:     ListInfluencerSales(seller, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/influencers/:influencerId/sales/summary",
			Method:      http.MethodGet,
			Handler:     GetSalesSummary(seller, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Dashboards retorna as rotas dos painéis e do histórico de comissões
func Dashboards(
	reporter reporting.Reporter,
	cycles cycling.CycleManager,
	influencerRepo repository.InfluencerRepository,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/influencer",
			Method:      http.MethodGet,
			Handler:     GetInfluencerDashboard(reporter, cycles, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/dashboard/master",
			Method:      http.MethodGet,
			Handler:     GetMasterDashboard(reporter, cycles),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/commissions/history",
			Method:      http.MethodGet,
			Handler:     GetCommissionHistory(reporter, influencerRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.MasterOnly()},
		},
	}
}
