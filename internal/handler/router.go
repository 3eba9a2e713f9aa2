package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dormwash/internal/handler/api"
	"dormwash/internal/handler/middleware"
	"dormwash/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	machineHandler *api.MachineHandler,
	reservationHandler *api.ReservationHandler,
	waitlistHandler *api.WaitlistHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, machineHandler, reservationHandler, waitlistHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	machineHandler *api.MachineHandler,
	reservationHandler *api.ReservationHandler,
	waitlistHandler *api.WaitlistHandler,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		machines := apiGroup.Group("/machines")
		{
			addRoutes(machines, []route{
				{Method: http.MethodGet, Path: "", Handler: machineHandler.ListMachines},
				{Method: http.MethodGet, Path: "/:id", Handler: machineHandler.GetMachine},
				{Method: http.MethodGet, Path: "/:id/waitlist", Handler: waitlistHandler.PeekWaitlist},
				{Method: http.MethodPost, Path: "/:id/waitlist", Handler: waitlistHandler.JoinWaitlist},
				{Method: http.MethodDelete, Path: "/:id/waitlist", Handler: waitlistHandler.LeaveWaitlist},
			})
		}

		reservations := apiGroup.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListMemberReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.CancelReservation},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
