package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-dairy-ops/internal/handler"
	"go-dairy-ops/internal/middleware"
	"go-dairy-ops/internal/model"
	"go-dairy-ops/internal/repository"
	"go-dairy-ops/internal/service"
	"go-dairy-ops/internal/ws"
	"go-dairy-ops/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup structured logger
	zapLogger, err := zap.NewProduction()
	if os.Getenv("APP_ENV") == "development" {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// 3. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Product{}, &model.Location{}, &model.Shop{},
		&model.Supplier{}, &model.MilkCollection{},
		&model.Batch{}, &model.InventoryItem{},
		&model.Route{}, &model.Delivery{},
		&model.LedgerEntry{}, &model.AuditLog{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 4. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 5. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 6. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	shopRepo := repository.NewShopRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	collectionRepo := repository.NewCollectionRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	invRepo := repository.NewInventoryRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	deliveryRepo := repository.NewDeliveryRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	allowMultipleRefunds := os.Getenv("ALLOW_MULTIPLE_REFUNDS") == "true"

	invService := service.NewInventoryService(invRepo, auditRepo, db, wsHub, zapLogger)
	routeService := service.NewRouteService(routeRepo, deliveryRepo, db, zapLogger)
	deliveryService := service.NewDeliveryService(deliveryRepo, wsHub, zapLogger)
	ledgerService := service.NewLedgerService(ledgerRepo, auditRepo, db, zapLogger, allowMultipleRefunds)
	collectionService := service.NewCollectionService(collectionRepo, supplierRepo, ledgerRepo, db, zapLogger)
	batchService := service.NewBatchService(batchRepo, productRepo, invRepo, auditRepo, db, zapLogger)
	dashService := service.NewDashboardService(collectionRepo, invRepo, deliveryRepo, ledgerRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	invHandler := handler.NewInventoryHandler(invService)
	routeHandler := handler.NewRouteHandler(routeService, deliveryService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	collectionHandler := handler.NewCollectionHandler(collectionService, supplierRepo)
	batchHandler := handler.NewBatchHandler(batchService)
	catalogHandler := handler.NewCatalogHandler(productRepo, locationRepo, shopRepo)
	dashHandler := handler.NewDashboardHandler(dashService, auditRepo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Dairy Ops v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat) // Heartbeat uses Auth but available to all authenticated

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard Routes (authenticated users can view)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/collection-trend", dashHandler.GetCollectionTrend)

	// Catalog Routes (with privilege checks)
	protected.Get("/products", catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("catalog:manage"), catalogHandler.CreateProduct)
	protected.Get("/locations", catalogHandler.GetLocations)
	protected.Post("/locations", middleware.RequirePrivilege("catalog:manage"), catalogHandler.CreateLocation)
	protected.Get("/shops", catalogHandler.GetShops)
	protected.Post("/shops", middleware.RequirePrivilege("catalog:manage"), catalogHandler.CreateShop)

	// Supplier and Milk Collection Routes
	protected.Get("/suppliers", middleware.RequirePrivilege("supplier:view"), collectionHandler.GetSuppliers)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:create"), collectionHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("supplier:update"), collectionHandler.UpdateSupplier)
	protected.Get("/collections", middleware.RequirePrivilege("collection:view"), collectionHandler.GetCollections)
	protected.Post("/collections", middleware.RequirePrivilege("collection:create"), collectionHandler.RecordCollection)

	// Batch Routes
	protected.Get("/batches", middleware.RequirePrivilege("batch:view"), batchHandler.GetBatches)
	protected.Get("/batches/:id", middleware.RequirePrivilege("batch:view"), batchHandler.GetBatch)
	protected.Post("/batches", middleware.RequirePrivilege("batch:create"), batchHandler.CreateBatch)
	protected.Put("/batches/:id/qc", middleware.RequirePrivilege("batch:qc"), batchHandler.UpdateQCStatus)

	// Inventory Routes (with privilege checks)
	protected.Get("/inventory", middleware.RequirePrivilege("inventory:view"), invHandler.GetInventory)
	protected.Get("/inventory/:id", middleware.RequirePrivilege("inventory:view"), invHandler.GetItem)
	protected.Post("/inventory/adjust", middleware.RequirePrivilege("inventory:adjust"), invHandler.AdjustStock)
	protected.Post("/inventory/transfer", middleware.RequirePrivilege("inventory:transfer"), invHandler.TransferStock)

	// Route and Delivery Routes
	protected.Get("/routes", middleware.RequirePrivilege("route:view"), routeHandler.GetRoutes)
	protected.Get("/routes/:id", middleware.RequirePrivilege("route:view"), routeHandler.GetRoute)
	protected.Post("/routes", middleware.RequirePrivilege("route:create"), routeHandler.CreateRoute)
	protected.Put("/routes/:id", middleware.RequirePrivilege("route:update"), routeHandler.UpdateRoute)
	protected.Get("/routes/:id/deliveries", middleware.RequirePrivilege("route:view"), routeHandler.GetRouteDeliveries)
	protected.Put("/deliveries/:id/status", middleware.RequirePrivilege("delivery:update"), routeHandler.UpdateDeliveryStatus)

	// Ledger Routes
	protected.Get("/ledger", middleware.RequirePrivilege("ledger:view"), ledgerHandler.GetEntries)
	protected.Get("/ledger/:id", middleware.RequirePrivilege("ledger:view"), ledgerHandler.GetEntry)
	protected.Post("/ledger", middleware.RequirePrivilege("ledger:create"), ledgerHandler.CreateEntry)
	protected.Post("/ledger/:id/refund", middleware.RequirePrivilege("ledger:refund"), ledgerHandler.RefundEntry)

	// Audit Log Routes
	protected.Get("/audit-logs", middleware.RequirePrivilege("audit:view"), dashHandler.GetAuditLogs)

	// User Management Routes (with privilege checks)
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// SUPERVISOR runs plant operations: collections, batches, inventory, ledger
	supervisorCodes := map[string]bool{
		"dashboard:view": true, "audit:view": true,
		"supplier:view": true, "supplier:create": true, "supplier:update": true,
		"collection:view": true, "collection:create": true,
		"catalog:view": true,
		"batch:view":   true, "batch:create": true, "batch:qc": true,
		"inventory:view": true, "inventory:adjust": true, "inventory:transfer": true,
		"route:view": true, "route:create": true, "route:update": true,
		"ledger:view": true, "ledger:create": true,
	}
	supervisorRole, err := roleRepo.FindByCode(model.RoleSupervisor)
	if err == nil && len(supervisorRole.Privileges) == 0 {
		supervisorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if supervisorCodes[p.Code] {
				supervisorPrivileges = append(supervisorPrivileges, p)
			}
		}
		db.Model(&supervisorRole).Association("Privileges").Replace(supervisorPrivileges)
		log.Println("✅ SUPERVISOR role assigned plant privileges")
	}

	// FIELD_AGENT only views routes and reports deliveries
	agentCodes := map[string]bool{
		"route:view": true, "delivery:update": true, "catalog:view": true,
	}
	agentRole, err := roleRepo.FindByCode(model.RoleFieldAgent)
	if err == nil && len(agentRole.Privileges) == 0 {
		agentPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if agentCodes[p.Code] {
				agentPrivileges = append(agentPrivileges, p)
			}
		}
		db.Model(&agentRole).Association("Privileges").Replace(agentPrivileges)
		log.Println("✅ FIELD_AGENT role assigned delivery privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
