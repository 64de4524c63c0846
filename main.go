package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/focusflow/focusflow/database"
	"github.com/focusflow/focusflow/handlers"
	"github.com/focusflow/focusflow/services"
	"github.com/focusflow/focusflow/store"
	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables from .env file
	if err := LoadEnv(".env"); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	dataDir := os.Getenv("FOCUSFLOW_DATA")
	if dataDir == "" {
		dataDir = "."
	}

	// Restore the local snapshot before anything else
	st := store.NewStore()
	local := store.NewFileStore(dataDir)
	snap, found, err := local.Load()
	if err != nil {
		log.Fatalf("Failed to load local state: %v", err)
	}
	if found {
		st.Restore(snap)
	}
	st.CheckStreak()

	// Initialize the backend database used for remote sync
	dbPath := os.Getenv("FOCUSFLOW_DB")
	if dbPath == "" {
		dbPath = "./focusflow.db"
	}
	db, err := database.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	st.SetRemote(database.NewDataService(db))

	// Initialize services
	authService := services.NewAuthService()

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Every applied mutation saves the snapshot and fans the new state
	// out to connected sessions.
	st.OnChange = func() {
		if err := local.Save(st.Snapshot()); err != nil {
			log.Printf("Failed to save local state: %v", err)
		}
		hub.Broadcast(services.WebSocketMessage{
			Type: services.MessageState,
			Data: st.Snapshot(),
		}, "")
	}

	// Sync failures are counted for the health endpoint on top of the
	// store's own logging; they are never surfaced as UI errors.
	var syncFailures atomic.Int64
	st.OnSyncError = func(op string, err error) {
		syncFailures.Add(1)
	}

	// Focus timer, ticking until shutdown
	timer := store.NewTimer()
	timerCtx, cancelTimer := context.WithCancel(context.Background())
	defer cancelTimer()
	go timer.Run(timerCtx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, st)
	appHandler := handlers.NewAppHandler(st, timer, hub)
	authMw := handlers.NewAuthMiddleware(authService)

	// Setup router
	r := mux.NewRouter()

	// Auth routes
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify", authHandler.VerifyToken).Methods("GET")
	r.HandleFunc("/api/auth/magic-link", authHandler.HandleMagicLink).Methods("GET")

	// Application state and navigation
	r.HandleFunc("/api/state", appHandler.GetState).Methods("GET")
	r.HandleFunc("/api/view", appHandler.UpdateView).Methods("PUT")
	r.HandleFunc("/api/settings", appHandler.UpdateSettings).Methods("PATCH")

	// Tasks
	r.HandleFunc("/api/tasks", appHandler.AddTask).Methods("POST")
	r.HandleFunc("/api/tasks/{id}", appHandler.DeleteTask).Methods("DELETE")
	r.HandleFunc("/api/tasks/{id}/toggle", appHandler.ToggleTask).Methods("POST")
	r.HandleFunc("/api/tasks/{id}/status", appHandler.UpdateTaskStatus).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}/project", appHandler.MoveTask).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}/content", appHandler.UpdateTaskContent).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}/plan", appHandler.PlanTask).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}/slot", appHandler.PlanTaskSlot).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}/subtasks", appHandler.AddSubtask).Methods("POST")
	r.HandleFunc("/api/tasks/{id}/subtasks/{subtaskId}/toggle", appHandler.ToggleSubtask).Methods("POST")
	r.HandleFunc("/api/tasks/{id}/attachments", appHandler.AddAttachments).Methods("POST")
	r.HandleFunc("/api/tasks/{id}/attachments/{attachmentId}", appHandler.DeleteAttachment).Methods("DELETE")

	// Projects and boards
	r.HandleFunc("/api/projects", appHandler.AddProject).Methods("POST")
	r.HandleFunc("/api/projects/{id}", appHandler.DeleteProject).Methods("DELETE")
	r.HandleFunc("/api/projects/{id}/board", appHandler.GetBoard).Methods("GET")
	r.HandleFunc("/api/projects/{id}/columns", appHandler.AddColumn).Methods("POST")
	r.HandleFunc("/api/projects/{id}/columns/{columnId}", appHandler.UpdateColumn).Methods("PUT")
	r.HandleFunc("/api/projects/{id}/columns/{columnId}", appHandler.DeleteColumn).Methods("DELETE")

	// Planner, focus timer and the popup widget
	r.HandleFunc("/api/planner", appHandler.GetPlanner).Methods("GET")
	r.HandleFunc("/api/timer", appHandler.GetTimer).Methods("GET")
	r.HandleFunc("/api/timer/start", appHandler.StartTimer).Methods("POST")
	r.HandleFunc("/api/timer/pause", appHandler.PauseTimer).Methods("POST")
	r.HandleFunc("/api/timer/reset", appHandler.ResetTimer).Methods("POST")
	r.HandleFunc("/api/timer/focus", appHandler.StartFocusPhase).Methods("POST")
	r.HandleFunc("/api/timer/complete", appHandler.CompleteActiveTask).Methods("POST")
	r.HandleFunc("/api/widget", appHandler.GetWidget).Methods("GET")

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","syncFailures":%d}`, syncFailures.Load())
	}).Methods("GET")

	// WebSocket route for state broadcasts; auth is optional here
	r.Handle("/api/ws", optional(authMw, http.HandlerFunc(appHandler.HandleWebSocket)))

	// Static file server for frontend; ?mode=widget selects the
	// reduced widget chrome on the client side
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, change to your domain
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(server.ListenAndServe())
}

// optional runs the auth middleware only when a bearer token is
// present, so pre-login sessions can still connect.
func optional(mw *handlers.AuthMiddleware, next http.Handler) http.Handler {
	authed := mw.Auth(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		authed.ServeHTTP(w, r)
	})
}
