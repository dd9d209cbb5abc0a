package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/bitfantasy/labstock/internal/config"
	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/handler"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_labstock"
	JWTSecret  = "labstock-test-jwt-secret"
)

// Env holds the wired test application: an isolated database, a router
// with the full route table, and the repository layer for direct seeding.
type Env struct {
	DB     *gorm.DB
	Router *gin.Engine
	Repos  *repository.Repositories
}

// projectRoot walks up from this file until it finds go.mod.
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB opens a connection scoped to a fresh schema so parallel
// test packages do not see each other's rows. The schema is dropped on
// test cleanup.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "labstock")
	password := getEnv("DB_PASSWORD", "labstock123")
	dbname := getEnv("DB_NAME", "labstock")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so every pooled connection uses the schema.
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.InventoryItem{},
		&entity.WithdrawalRequest{},
		&entity.EmailConfig{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// TestConfig returns the configuration used by test services.
func TestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            JWTSecret,
			AccessTokenExpire: 24 * time.Hour,
			Issuer:            "labstock-test",
		},
	}
}

// SetupEnv wires the full application against an isolated test database
// and registers the production route table. Redis and minio are left
// nil, so caching and export archiving run in their degraded modes.
func SetupEnv(t *testing.T) *Env {
	t.Helper()

	db := SetupTestDB(t)
	cfg := TestConfig()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, nil, cfg)
	handlers := handler.NewHandlers(services, repos)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/login", handlers.Auth.Login)

	authed := api.Group("", middleware.Auth(cfg.JWT.Secret, repos.User))
	authed.GET("/profile", handlers.Auth.Profile)
	authed.GET("/inventory", handlers.Item.List)
	authed.GET("/inventory/:id", handlers.Item.Get)
	authed.GET("/inventory/export/excel", handlers.Export.ExportExcel)
	authed.POST("/withdrawal-requests", handlers.Withdrawal.Submit)
	authed.GET("/withdrawal-requests", handlers.Withdrawal.List)
	authed.GET("/dashboard/stats", handlers.Dashboard.Stats)
	authed.GET("/dashboard/category-stats", handlers.Dashboard.CategoryStats)
	authed.GET("/dashboard/low-stock-items", handlers.Dashboard.LowStockItems)
	authed.GET("/dashboard/expiring-items", handlers.Dashboard.ExpiringItems)

	admin := authed.Group("", middleware.RequireAdmin())
	admin.POST("/register", handlers.User.Register)
	admin.GET("/users", handlers.User.List)
	admin.DELETE("/users/:id", handlers.User.Delete)
	admin.POST("/inventory", handlers.Item.Create)
	admin.PUT("/inventory/:id", handlers.Item.Update)
	admin.DELETE("/inventory/:id", handlers.Item.Delete)
	admin.POST("/withdrawal-requests/process", handlers.Withdrawal.Process)
	admin.POST("/email-config", handlers.EmailConfig.Add)
	admin.GET("/email-config", handlers.EmailConfig.List)
	admin.DELETE("/email-config/:id", handlers.EmailConfig.Delete)

	return &Env{DB: db, Router: r, Repos: repos}
}

// GenerateToken signs a token for the given user id with the test secret.
func GenerateToken(userID string) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    "labstock-test",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		ID:        uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// GenerateExpiredToken signs a token whose expiry is already in the
// past, for exercising expiry rejection.
func GenerateExpiredToken(userID string) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    "labstock-test",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		ID:        uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// SeedUser creates a user with the given role and returns it with a
// valid access token.
func SeedUser(t *testing.T, db *gorm.DB, employeeNumber, password string, role entity.Role) (*entity.User, string) {
	t.Helper()

	hash, err := service.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &entity.User{
		ID:             uuid.New().String(),
		EmployeeNumber: employeeNumber,
		PasswordHash:   hash,
		Role:           role,
		FullName:       "Test " + employeeNumber,
		Email:          employeeNumber + "@test.com",
		Section:        "QC Lab",
		CreatedAt:      time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user, GenerateToken(user.ID)
}

// SeedAdmin creates an administrator and returns it with a token.
func SeedAdmin(t *testing.T, db *gorm.DB) (*entity.User, string) {
	t.Helper()
	return SeedUser(t, db, "ADM"+uuid.New().String()[:8], "admin-pass", entity.RoleAdmin)
}

// SeedItem creates an inventory item with the given quantity and
// reorder level.
func SeedItem(t *testing.T, db *gorm.DB, name string, quantity, reorderLevel int) *entity.InventoryItem {
	t.Helper()

	item := &entity.InventoryItem{
		ID:               uuid.New().String(),
		ItemName:         name,
		Category:         "Chemicals",
		SubCategory:      "Solvents",
		Location:         "Shelf A1",
		Manufacturer:     "Acme",
		Supplier:         "LabSupply",
		Model:            "STD",
		UOM:              "bottle",
		CatalogueNo:      "CAT-001",
		Quantity:         quantity,
		TargetStockLevel: quantity * 2,
		ReorderLevel:     reorderLevel,
		AddedBy:          "ADMIN001",
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	return item
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the JSON envelope into a generic map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
