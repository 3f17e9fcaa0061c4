package main

import (
	"fmt"
	"net/http"

	"github.com/suweldohq/suweldo-backend-go/internal/config"
	appHTTP "github.com/suweldohq/suweldo-backend-go/internal/handler/http"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/database"
	"github.com/suweldohq/suweldo-backend-go/internal/pkg/jwt"
	"github.com/suweldohq/suweldo-backend-go/internal/repository/postgresql"
	attendanceService "github.com/suweldohq/suweldo-backend-go/internal/service/attendance"
	deductionService "github.com/suweldohq/suweldo-backend-go/internal/service/deduction"
	leaveService "github.com/suweldohq/suweldo-backend-go/internal/service/leave"
	payrollService "github.com/suweldohq/suweldo-backend-go/internal/service/payroll"
	rateconfigService "github.com/suweldohq/suweldo-backend-go/internal/service/rateconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	configRepo := postgresql.NewConfigurationRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	configSvc := rateconfigService.NewConfigurationService(db, configRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo, leaveRepo)
	leaveSvc := leaveService.NewLeaveService(db, leaveRepo, employeeRepo, attendanceRepo)
	loanSvc := deductionService.NewLoanService(db, loanRepo)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		configRepo,
		loanRepo,
		leaveRepo,
		loanSvc,
		cfg.Payroll.WorkerCount,
	)

	rateConfigHandler := appHTTP.NewRateConfigHandler(configSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	deductionHandler := appHTTP.NewDeductionHandler(loanSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		rateConfigHandler,
		attendanceHandler,
		leaveHandler,
		deductionHandler,
		payrollHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server running on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
