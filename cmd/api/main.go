package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kelolahr/hr-backend-go/internal/config"
	appHTTP "github.com/kelolahr/hr-backend-go/internal/handler/http"
	"github.com/kelolahr/hr-backend-go/internal/pkg/calendar"
	"github.com/kelolahr/hr-backend-go/internal/pkg/clock"
	"github.com/kelolahr/hr-backend-go/internal/pkg/cron"
	"github.com/kelolahr/hr-backend-go/internal/pkg/database"
	"github.com/kelolahr/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/kelolahr/hr-backend-go/internal/service/attendance"
	loanService "github.com/kelolahr/hr-backend-go/internal/service/loan"
	payrollService "github.com/kelolahr/hr-backend-go/internal/service/payroll"
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

	txm := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)

	clk := clock.New()
	cal := calendar.NewGregorian()

	attendanceSvc := attendanceService.NewAttendanceService(txm, attendanceRepo, employeeRepo, shiftRepo, clk)
	payrollSvc := payrollService.NewPayrollService(txm, payrollRepo, attendanceRepo, employeeRepo, shiftRepo, loanRepo, cal, clk)
	loanSvc := loanService.NewLoanService(txm, loanRepo, employeeRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)

	router := appHTTP.NewRouter(cfg, attendanceHandler, payrollHandler, loanHandler)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		txm,
		attendanceRepo,
		shiftRepo,
		clk,
		time.Duration(cfg.Attendance.StaleCloseAfterHours)*time.Hour,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
