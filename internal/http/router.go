package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/geocoder89/askhub/internal/auth"
	"github.com/geocoder89/askhub/internal/cache"
	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/http/handlers"
	"github.com/geocoder89/askhub/internal/http/middlewares"
	"github.com/geocoder89/askhub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // 1 MiB is plenty for JSON bodies here

// Deps carries everything the router wires into handlers. Repos are
// interfaces so tests can swap in the memory implementations.
type Deps struct {
	Users     handlers.UserStore
	Questions handlers.QuestionStore
	Finder    handlers.QuestionFinder
	Answers   handlers.AnswerStore
	Completer handlers.Completer

	JWT *auth.Manager

	Prom    *observability.Prom // optional
	Metrics http.Handler        // optional, served at /metrics
	Ping    func() error        // optional, backs /readyz
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	cfgEnv := os.Getenv("APP_ENV")

	if cfgEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if cfg.OTELEndpoint != "" {
		r.Use(otelgin.Middleware("askhub"))
	}

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health + metrics
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// Wire up handlers

	usersHandler := handlers.NewUsersHandler(deps.Users, deps.JWT)
	questionsHandler := handlers.NewQuestionsHandler(deps.Questions, cache.New(cfg.ListCacheTTL()))
	answersHandler := handlers.NewAnswersHandler(deps.Answers, deps.Finder)
	gptHandler := handlers.NewChatGPTHandler(deps.Completer)

	authmw := middlewares.NewAuthMiddleware(deps.JWT)

	// unauthenticated endpoints get the tighter per-IP limiter
	publicLimiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow())

	api := r.Group("/api")

	users := api.Group("/user")
	users.POST("/register", publicLimiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Register)
	users.POST("/login", publicLimiter.RateLimiterMiddleware(middlewares.KeyByIP), usersHandler.Login)
	users.GET("/check", authmw.RequireAuth(), usersHandler.Check)

	questions := api.Group("/questions", authmw.RequireAuth())
	questions.POST("", questionsHandler.Ask)
	questions.GET("", questionsHandler.List) // handles ?questionid= too
	questions.PATCH("/:questionid", questionsHandler.Edit)
	questions.PUT("/:questionid", questionsHandler.Edit)
	questions.DELETE("/:questionid", questionsHandler.Delete)

	answers := api.Group("/answer", authmw.RequireAuth())
	answers.POST("/:questionid", answersHandler.Post)
	answers.GET("", answersHandler.ListForQuestion)

	// open route, so rate limit it before it burns upstream quota
	api.POST("/chatgpt", publicLimiter.RateLimiterMiddleware(middlewares.KeyByIP), gptHandler.Ask)

	return r
}
