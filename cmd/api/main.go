package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/config"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/database"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/handlers"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/logger"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/middleware"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/services"
	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/validator"

	_ "github.com/OmarGodoy2077/AhorrAI-sub000/internal/docs" // Import swagger docs
)

// @title           AhorrAI API
// @version         1.0
// @description     AhorrAI is a personal finance application for tracking incomes, expenses, accounts, savings goals, and recurring salary schedules.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db)
	categoryService := services.NewCategoryService(db)
	scheduleService := services.NewSalaryScheduleService(db)
	incomeService := services.NewIncomeService(db, accountService)
	expenseService := services.NewExpenseService(db, accountService)
	savingsService := services.NewSavingsService(db, accountService)
	statementService := services.NewStatementService(db)
	dashboardService := services.NewDashboardService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	savingsHandler := handlers.NewSavingsHandler(savingsService, auditService)
	statementHandler := handlers.NewStatementHandler(statementService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Salary schedule routes
	schedules := protected.Group("/salary-schedules")
	schedules.POST("", scheduleHandler.CreateSchedule)
	schedules.GET("", scheduleHandler.GetUserSchedules)
	schedules.GET("/:id", scheduleHandler.GetScheduleByID)
	schedules.PUT("/:id", scheduleHandler.UpdateSchedule)
	schedules.DELETE("/:id", scheduleHandler.DeactivateSchedule)

	// Income routes. The static generate/period paths are registered before
	// the :id routes so Gin does not treat them as income IDs.
	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.GetUserIncomes)
	incomes.POST("/generate/salary-incomes", incomeHandler.GenerateSalaryIncomes)
	incomes.GET("/salary-confirmation-period", incomeHandler.SalaryConfirmationPeriod)
	incomes.GET("/:id", incomeHandler.GetIncomeByID)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)
	incomes.POST("/:id/confirm", incomeHandler.ConfirmIncome)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetUserExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Savings goal routes
	goals := protected.Group("/savings-goals")
	goals.POST("", savingsHandler.CreateGoal)
	goals.GET("", savingsHandler.GetUserGoals)
	goals.GET("/:id", savingsHandler.GetGoalByID)
	goals.DELETE("/:id", savingsHandler.DeleteGoal)
	goals.POST("/:id/deposits", savingsHandler.CreateDeposit)
	goals.GET("/:id/deposits", savingsHandler.GetGoalDeposits)

	// Statement and dashboard routes
	protected.GET("/account-statements", statementHandler.GetAccountStatement)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)
	protected.GET("/dashboard/yearly", dashboardHandler.GetYearlySummary)
	protected.GET("/chat/context", dashboardHandler.GetChatContext)

	log.Infof("Starting AhorrAI backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
