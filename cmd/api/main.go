package main

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine-go/internal/service/attendance"
	disbursementService "github.com/cmlabs-hris/payroll-engine-go/internal/service/disbursement"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	cycleRepo := postgresql.NewCycleRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	componentRepo := postgresql.NewComponentRepository(db)
	rulesRepo := postgresql.NewRulesRepository(db)
	taxConfigRepo := postgresql.NewTaxConfigurationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	disbursementRepo := postgresql.NewDisbursementRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	aggregator := attendanceService.NewAggregator(attendanceRepo)
	payrollSvc := payrollService.NewPayrollService(
		cycleRepo,
		payslipRepo,
		componentRepo,
		rulesRepo,
		taxConfigRepo,
		employeeRepo,
		aggregator,
		cfg.Payroll.Workers,
	)
	disbursementSvc := disbursementService.NewDisbursementService(
		disbursementRepo,
		payslipRepo,
		cycleRepo,
		employeeRepo,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	disbursementHandler := appHTTP.NewDisbursementHandler(disbursementSvc)

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(cycleRepo, payslipRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		disbursementHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
