package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/driver-settlement-go/internal/config"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/deduction"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/driver"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/fuel"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/load"
	"github.com/cmlabs-hris/driver-settlement-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/driver-settlement-go/internal/handler/http"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/database"
	"github.com/cmlabs-hris/driver-settlement-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/driver-settlement-go/internal/repository/sqlite"
	serviceAuth "github.com/cmlabs-hris/driver-settlement-go/internal/service/auth"
	deductionService "github.com/cmlabs-hris/driver-settlement-go/internal/service/deduction"
	driverService "github.com/cmlabs-hris/driver-settlement-go/internal/service/driver"
	fuelService "github.com/cmlabs-hris/driver-settlement-go/internal/service/fuel"
	loadService "github.com/cmlabs-hris/driver-settlement-go/internal/service/load"
	settlementService "github.com/cmlabs-hris/driver-settlement-go/internal/service/settlement"
)

// repositories is the set of stores every service is built from.
type repositories struct {
	tx          database.Transactor
	users       user.UserRepository
	drivers     driver.DriverRepository
	loads       load.LoadRepository
	fuel        fuel.FuelRepository
	fees        deduction.FeeRepository
	advances    deduction.AdvanceRepository
	installment deduction.InstallmentRepository
	close       func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return repositories{
			tx:          store,
			users:       sqlite.NewUserRepository(store),
			drivers:     sqlite.NewDriverRepository(store),
			loads:       sqlite.NewLoadRepository(store),
			fuel:        sqlite.NewFuelRepository(store),
			fees:        sqlite.NewFeeRepository(store),
			advances:    sqlite.NewAdvanceRepository(store),
			installment: sqlite.NewInstallmentRepository(store),
			close:       func() { store.Close() },
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return repositories{}, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return repositories{
			tx:          postgresql.NewTransactor(db),
			users:       postgresql.NewUserRepository(db),
			drivers:     postgresql.NewDriverRepository(db),
			loads:       postgresql.NewLoadRepository(db),
			fuel:        postgresql.NewFuelRepository(db),
			fees:        postgresql.NewFeeRepository(db),
			advances:    postgresql.NewAdvanceRepository(db),
			installment: postgresql.NewInstallmentRepository(db),
			close:       db.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx := context.Background()
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer repos.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authService := serviceAuth.NewAuthService(repos.users, JWTService)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}
	driverSvc := driverService.NewDriverService(repos.tx, repos.drivers)
	loadSvc := loadService.NewLoadService(repos.tx, repos.loads)
	fuelSvc := fuelService.NewFuelService(repos.tx, repos.fuel, repos.drivers)
	deductionSvc := deductionService.NewDeductionService(repos.tx, repos.fees, repos.advances, repos.drivers)
	settlementSvc := settlementService.NewSettlementService(
		repos.tx,
		repos.drivers,
		repos.loads,
		repos.fuel,
		repos.fees,
		repos.advances,
		repos.installment,
		cfg.Settlement,
	)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewDriverHandler(driverSvc),
		appHTTP.NewLoadHandler(loadSvc),
		appHTTP.NewFuelHandler(fuelSvc),
		appHTTP.NewDeductionHandler(deductionSvc),
		appHTTP.NewSettlementHandler(settlementSvc),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("server starting", "addr", port, "store", cfg.Store.Driver)
	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server error", "error", err)
	}
}
