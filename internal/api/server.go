package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

// NewServer builds the echo instance with the handler's routes. rateLimit
// is requests per second per client IP; zero disables limiting.
func NewServer(h *Handler, rateLimit float64) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}
	e.Logger.SetLevel(gommonlog.INFO)

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if rateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStore(rate.Limit(rateLimit))
		e.Use(middleware.RateLimiter(store))
	}

	h.RegisterRoutes(e)
	return e
}
