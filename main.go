package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"teamup-app/internal/completion"
	"teamup-app/internal/store"
	"teamup-app/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		_ = godotenv.Load(".env", ".env.local")
	}
	var appStore store.Store
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		pgStore, err := store.NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("postgres store: %v", err)
		}
		appStore = pgStore
	} else if dbPath := strings.TrimSpace(os.Getenv("DB_PATH")); dbPath != "" {
		sqliteStore, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("sqlite store: %v", err)
		}
		appStore = sqliteStore
	} else {
		appStore = store.NewMemoryStore()
	}
	coordinator := completion.NewCoordinator(appStore, completion.NewLifecycle(appStore))
	server := web.NewServer(appStore, coordinator)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return web.WithCurrentActor(appStore, next)
	})
	r.Mount("/", server.Routes())

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
		return
	}
	addr := ":" + envOr("PORT", "8080")
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
