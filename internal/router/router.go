package router

import (
	"time"

	"dollarpay/config"
	"dollarpay/internal/handler"
	"dollarpay/internal/middleware"
	"dollarpay/internal/repository"
	"dollarpay/internal/service"
	"dollarpay/internal/ws"
	"dollarpay/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	walletRepo := repository.NewCryptoWalletRepository(db)

	notifHub := ws.NewHub()

	// Services
	settingsSvc := service.NewSettingsService(settingRepo)
	teamSvc := service.NewTeamService(teamRepo)
	authSvc := service.NewAuthService(cfg, db, userRepo, adminRepo, settingsSvc, teamSvc)
	notifSvc := service.NewNotificationService(notifRepo, notifHub)
	txSvc := service.NewTransactionService(db, userRepo, txRepo, settingsSvc, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	txHandler := handler.NewTransactionHandler(txSvc, txRepo, userRepo)
	userHandler := handler.NewUserHandler(userRepo, teamSvc, commissionRepo, notifRepo)
	adminHandler := handler.NewAdminHandler(authSvc, txSvc, txRepo, settingRepo, walletRepo, notifRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/admin/login", adminHandler.Login)

		user := api.Group("", middleware.AuthRequired(&cfg.JWT))
		{
			user.GET("/me", userHandler.Profile)
			user.GET("/me/team", userHandler.Team)
			user.GET("/me/commissions", userHandler.Commissions)
			user.POST("/me/upi", userHandler.BindUpi)
			user.GET("/me/notifications", userHandler.Notifications)
			user.POST("/me/notifications/:id/read", userHandler.MarkNotificationRead)

			user.GET("/balance", txHandler.Balance)
			user.POST("/transactions/deposit", txHandler.CreateDeposit)
			user.POST("/transactions/withdrawal", txHandler.CreateWithdrawal)
			user.POST("/transactions/upi-payout", txHandler.CreateUpiPayout)
			user.GET("/transactions", txHandler.ListMine)
			user.GET("/transactions/:id", txHandler.Detail)

			user.POST("/uploads/screenshot", uploadHandler.Screenshot)
		}

		admin := api.Group("/admin", middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
		{
			admin.GET("/transactions/pending", adminHandler.PendingTransactions)
			admin.GET("/transactions/search", adminHandler.SearchTransactions)
			admin.GET("/transactions/:id", adminHandler.TransactionDetail)
			admin.GET("/transactions", adminHandler.AllTransactions)
			admin.POST("/transactions/:id/review", adminHandler.Review)
			admin.POST("/payouts", adminHandler.CreatePayout)
			admin.GET("/settings", adminHandler.Settings)
			admin.PUT("/settings/:key", adminHandler.UpdateSetting)
			admin.GET("/notifications", adminHandler.Notifications)
			admin.GET("/wallets", adminHandler.Wallets)
			admin.POST("/wallets", adminHandler.CreateWallet)
		}
	}

	r.GET("/ws/admin/notifications", ws.UpgradeNotificationWS(&cfg.JWT, notifHub, "ADMIN"))

	return r
}
