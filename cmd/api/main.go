package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lendmarket/internal/adapter/http"
	adapterMiddleware "lendmarket/internal/adapter/middleware"
	"lendmarket/internal/adapter/repository/mysql"
	"lendmarket/internal/config"
	"lendmarket/internal/infrastructure/cache"
	"lendmarket/internal/infrastructure/db"
	kycUC "lendmarket/internal/usecase/kyc"
	loanUC "lendmarket/internal/usecase/loan"
	paymentUC "lendmarket/internal/usecase/payment"
	userUC "lendmarket/internal/usecase/user"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Error("mysql connect failed", "err", err)
		os.Exit(1)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	kycRepo := mysql.NewKYCRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	userUsecase := userUC.NewUsecase(users, kycRepo, uow)
	loanUsecase := loanUC.NewUsecase(loans, uow)
	kycUsecase := kycUC.NewUsecase(kycRepo, uow)
	paymentUsecase := paymentUC.NewUsecase(repayments, uow, log)
	paymentUsecase.RetryAttempts = cfg.GatewayRetryAttempts
	paymentUsecase.RetryInterval = cfg.GatewayRetryInterval

	h := httpadp.NewHandler()
	userHandler := httpadp.NewUserHandler(userUsecase)
	loanHandler := httpadp.NewLoanHandler(loanUsecase)
	paymentHandler := httpadp.NewPaymentHandler(paymentUsecase)
	adminHandler := httpadp.NewAdminHandler(kycUsecase, userUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	auth := adapterMiddleware.WithAuth(cfg.JWTSecret)
	admin := adapterMiddleware.RequireAdmin()
	idemp := adapterMiddleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)

	e.POST("/users", userHandler.Register)
	e.GET("/users/:user_id", userHandler.GetUser, auth)
	e.POST("/users/:user_id/kyc", userHandler.SubmitKYC, auth, idemp)

	e.POST("/loans", loanHandler.ApplyLoan, auth, idemp)
	e.GET("/loans", loanHandler.ListOpenLoans)
	e.GET("/loans/:loan_id", loanHandler.GetLoan)
	e.GET("/loans/:loan_id/schedule", loanHandler.GetSchedule)
	e.POST("/loans/:loan_id/fund", loanHandler.FundLoan, auth, idemp)

	// The gateway redirect carries no auth; the payload is its credential.
	e.POST("/payments/return", paymentHandler.GatewayReturn)
	e.GET("/payments/return", paymentHandler.GatewayReturn)
	e.POST("/fines/:fine_id/pay", paymentHandler.PayFine, auth, idemp)

	e.GET("/admin/kyc", adminHandler.ListPendingKYC, auth, admin)
	e.POST("/admin/kyc/:submission_id/review", adminHandler.ReviewKYC, auth, admin, idemp)
	e.POST("/admin/loans/:loan_id/default", paymentHandler.MarkDefaulted, auth, admin, idemp)
	e.POST("/admin/users/:user_id/ban", adminHandler.BanUser, auth, admin)
	e.POST("/admin/users/:user_id/unban", adminHandler.UnbanUser, auth, admin)

	addr := ":" + cfg.AppPort
	log.Info("listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
