package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	apimod "github.com/example/todo-backend/modules/api"
	attachmentsmod "github.com/example/todo-backend/modules/attachments"
	authmod "github.com/example/todo-backend/modules/auth"
	cachemod "github.com/example/todo-backend/modules/cache"
	reportsmod "github.com/example/todo-backend/modules/reports"
	taskmod "github.com/example/todo-backend/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	natsURL := getEnv("NATS_URL", "nats://localhost:4222")
	dbPath := getEnv("DB_PATH", "./todo.db")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	cachePrefix := getEnv("CACHE_PREFIX", "report:")
	bucketName := getEnv("ATTACHMENTS_BUCKET", "task-attachments")

	log.Println("=== Todo Backend ===")
	log.Printf("Redis: %s", redisAddr)
	log.Printf("NATS: %s", natsURL)
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)

	// The database handle is shared between the task and auth modules and
	// owned here; modules migrate their own tables.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Create modules
	cacheModule := cachemod.NewModule(redisAddr, cachePrefix)
	attachmentsModule := attachmentsmod.NewModule(natsURL, bucketName)
	authModule := authmod.NewModule(db)
	taskModule := taskmod.NewModule(db)
	reportsModule := reportsmod.NewModule()
	apiModule := apimod.NewModule(httpPort)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules, dependencies first
	app.Register(cacheModule)
	app.Register(attachmentsModule)
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(reportsModule)
	app.Register(apiModule)

	// Start modules (this handles Init and Start)
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// Wire up dependencies after start
	taskModule.SetAttachmentStore(attachmentsModule.GetService())

	reportsModule.SetTaskDirectory(taskModule.GetService())
	reportsModule.SetAccountDirectory(authModule.GetService())
	reportsModule.SetReportCache(cacheModule.GetCache())

	apiModule.SetTaskService(taskModule.GetService())
	apiModule.SetReportsService(reportsModule.GetService())
	apiModule.SetAuthService(authModule.GetService())
	apiModule.SetReportCache(cacheModule.GetCache())

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", httpPort)
	log.Println("Endpoints:")
	log.Println("  POST   /accounts/register/           - Register account")
	log.Println("  POST   /accounts/login/              - Login, returns bearer token")
	log.Println("  POST   /accounts/logout/             - Logout, clears cached reports")
	log.Println("  POST   /task-create/                 - Create task (multipart)")
	log.Println("  PUT    /task-update/{title}/         - Update task (multipart)")
	log.Println("  DELETE /task-delete/{title}/         - Delete task")
	log.Println("  GET    /task-list/                   - List tasks")
	log.Println("  GET    /task-detail/{title}/         - Task detail")
	log.Println("  GET    /reports/total-tasks/         - Totals report")
	log.Println("  GET    /reports/average-completed/   - Average completed report")
	log.Println("  GET    /reports/overdue-tasks/       - Overdue report")
	log.Println("  GET    /reports/max-date/            - Max completion date report")
	log.Println("  GET    /reports/count-opened/        - Weekday histogram report")
	log.Println("  GET    /reports/similar-tasks/       - Similar title pairs")
	log.Println("  GET    /health                       - Health check")
	log.Println("  GET    /cache/stats                  - Report cache statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"database": func(_ context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}
