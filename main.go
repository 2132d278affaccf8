package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"lms-backend/internal/books"
	"lms-backend/internal/loans"
	"lms-backend/internal/platform/auth"
	"lms-backend/internal/platform/db"
	"lms-backend/internal/students"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := db.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[ERROR] load config: %v", err)
	}
	log.Printf("[INFO] mode:%s", cfg.Mode)

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("[ERROR] connect: %v", err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	// Schema or seed failure is fatal: serving without the tables would
	// only turn every request into a 500.
	adminHash, err := auth.HashPassword(cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Fatalf("[ERROR] bootstrap: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Bootstrap(ctx, conn, cfg.Bootstrap.AdminEmail, adminHash); err != nil {
		cancel()
		log.Fatalf("[ERROR] bootstrap: %v", err)
	}
	cancel()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.Session.Secret)
	authStore := auth.NewStore(conn)

	studentSvc := students.NewService(conn)
	bookSvc := books.NewService(conn)
	loanSvc := loans.NewService(conn)

	// Login routes sit at the root: the role guards redirect there.
	auth.RegisterRoutes(r, auth.NewService(conn, secret))

	api := r.Group("/api/v1")
	api.Use(auth.ResolveSession(secret, authStore))

	students.RegisterPublicRoutes(api, studentSvc)

	admin := api.Group("")
	admin.Use(auth.RequireAdmin())
	students.RegisterAdminRoutes(admin, studentSvc)
	books.RegisterAdminRoutes(admin, bookSvc)
	loans.RegisterAdminRoutes(admin, loanSvc)

	student := api.Group("")
	student.Use(auth.RequireStudent())
	books.RegisterStudentRoutes(student, bookSvc)
	loans.RegisterStudentRoutes(student, loanSvc)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
