package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/api"
	"github.com/hidrapink/influencer-ops-api/internal/config"
	"github.com/hidrapink/influencer-ops-api/internal/scheduler"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/authenticating"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/planning"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/reporting"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/selling"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
	"github.com/sirupsen/logrus"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	cycleRepo := repository.NewCycleRepository(pgConn)
	planRepo := repository.NewPlanRepository(pgConn)
	scriptRepo := repository.NewScriptRepository(pgConn)
	influencerRepo := repository.NewInfluencerRepository(pgConn)
	saleRepo := repository.NewSaleRepository(pgConn)
	skuPointRepo := repository.NewSkuPointRepository(pgConn)
	commissionRepo := repository.NewMonthlyCommissionRepository(pgConn)

	converter := points.NewConverter(cfg.Points.PointValueBRL)

	authenticator := authenticating.NewService(userRepo, cfg)
	cycleManager := cycling.NewService(pgConn, cycleRepo)
	planner := planning.NewService(pgConn, planRepo, scriptRepo, cycleManager)
	seller := selling.NewService(pgConn, saleRepo, skuPointRepo, influencerRepo, cycleManager, converter)
	reporter := reporting.NewService(planRepo, scriptRepo, influencerRepo, saleRepo, commissionRepo, converter)

	rolloverService := scheduler.NewCycleRolloverService(
		cycleManager,
		cycleRepo,
		planRepo,
		saleRepo,
		influencerRepo,
		commissionRepo,
		converter,
		cfg,
	)

	if err := rolloverService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador da virada de ciclo")
	} else {
		logrus.Info("Agendador da virada de ciclo iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		planner,
		seller,
		reporter,
		cycleManager,
		influencerRepo,
		rolloverService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
