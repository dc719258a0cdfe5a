package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/electric-hospitality/catering-api/internal/auth"
	"github.com/electric-hospitality/catering-api/internal/config"
	"github.com/electric-hospitality/catering-api/internal/draft"
	"github.com/electric-hospitality/catering-api/internal/handler"
	"github.com/electric-hospitality/catering-api/internal/health"
	"github.com/electric-hospitality/catering-api/internal/menu"
	mw "github.com/electric-hospitality/catering-api/internal/middleware"
	"github.com/electric-hospitality/catering-api/internal/submit"
	"github.com/electric-hospitality/catering-api/internal/ws"
)

// New creates a Chi router with all application routes wired up. The
// external clients (sheet recorder, CRM, email) are swapped for log-only
// stand-ins when dry-run mode is on; draft storage and the submission log
// fall back to memory when no database is configured.
func New(cfg *config.Config, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",                       // Storefront dev server
			"https://catering.ladybirdatl.com",            // Ladybird production
			"https://catering.muchachoatl.com",            // Muchacho production
			"https://catering.thedugoutatl.com",           // Dug-Out production
			"https://orders.electric-hospitality.com",     // Shared order portal
			"https://stg-orders.electric-hospitality.com", // Staging
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// External service clients
	menuClient := menu.NewClient(cfg.SpreadsheetID, cfg.SheetsAPIKey, cfg.HTTPTimeout)

	var (
		sheet submit.SheetRecorder
		lead  submit.LeadCreator
		email submit.EmailSender
	)
	if cfg.DryRun {
		log.Println("Dry-run mode: external writes are logged, not sent")
		sheet = submit.DryRunSheetRecorder{}
		lead = submit.DryRunLeadCreator{}
		email = submit.DryRunEmailSender{}
	} else {
		sheet = submit.NewAppsScriptRecorder(cfg.AppsScriptURL, cfg.HTTPTimeout)
		lead = submit.NewTripleseatClient(cfg.TripleseatURL, submit.TripleseatCredentials{
			PublicKey:      cfg.TripleseatPublicKey,
			ConsumerKey:    cfg.TripleseatConsumerKey,
			ConsumerSecret: cfg.TripleseatConsumerSecret,
		}, cfg.TripleseatFireAndForget, cfg.HTTPTimeout)
		email = submit.NewWeb3FormsSender(cfg.Web3FormsURL, cfg.Web3FormsKey, cfg.OrderEmailTo, cfg.HTTPTimeout)
	}

	// Storage
	var drafts draft.Store
	var logbook submit.Logbook
	if pool != nil {
		drafts = draft.NewPGStore(pool)
		logbook = submit.NewPGLogbook(pool)
	} else {
		log.Println("No database configured, drafts are in-memory only")
		drafts = draft.NewMemStore()
	}

	orchestrator := submit.NewOrchestrator(sheet, lead, email, drafts, logbook, hub)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Session issue (public)
	sessionHandler := handler.NewSessionHandler(cfg.JWTSecret)
	sessionHandler.RegisterRoutes(r)

	// Staff auth (public)
	staffHandler := handler.NewStaffHandler(cfg.JWTSecret, cfg.StaffPasswordHash)
	r.Route("/auth/staff", staffHandler.RegisterRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/venues/{venue}/submissions", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Legacy serverless surface. These stay public: the old storefront
	// calls them without a session.
	r.Route("/api", func(r chi.Router) {
		proxyHandler := handler.NewProxyHandler(cfg, sheet)
		proxyHandler.RegisterRoutes(r)

		checker := health.NewChecker(health.Targets(cfg), cfg.HTTPTimeout)
		healthHandler := handler.NewHealthHandler(checker)
		healthHandler.RegisterRoutes(r)
	})

	// Venue routes
	r.Route("/venues/{venue}", func(r chi.Router) {
		menuHandler := handler.NewMenuHandler(menuClient)
		r.Route("/menu", menuHandler.RegisterRoutes)

		// Session-scoped routes (require a guest token)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			r.Use(mw.RequireRole(auth.RoleGuest, auth.RoleStaff))

			draftHandler := handler.NewDraftHandler(drafts)
			r.Route("/draft", draftHandler.RegisterRoutes)

			quoteHandler := handler.NewQuoteHandler(menuClient, orchestrator)
			r.Route("/quote", quoteHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
