package app

import (
	"errors"
	"io"
	"os"
	"time"

	"hotfood/internal/handlers"
	"hotfood/internal/middleware"
	"hotfood/internal/repositories"
	"hotfood/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services bundles every service the HTTP layer depends on.
type Services struct {
	Auth          *services.AuthService
	Products      *services.ProductService
	Cart          *services.CartService
	Orders        *services.OrderService
	Events        *services.EventService
	Reviews       *services.ReviewService
	Admin         *services.AdminService
	Notifications *services.NotificationService
	// Direct is the in-process publisher, nil when a broker carries order events.
	Direct *services.DirectPublisher
}

// ServiceDeps are the collaborators NewServices wires together. Verifier, Publisher,
// Mailer and Uploader may be nil.
type ServiceDeps struct {
	Repos              repositories.Repositories
	JWTSecret          string
	EventStrictPricing bool
	Verifier           services.IdentityVerifier
	Publisher          services.OrderEventPublisher
	Mailer             services.Mailer
	Uploader           services.ImageUploader
}

// NewServices builds the service layer. Without a Publisher order events are handed to
// the notification service in process.
func NewServices(deps ServiceDeps) *Services {
	notifications := services.NewNotificationService(deps.Mailer)
	publisher := deps.Publisher
	var direct *services.DirectPublisher
	if publisher == nil {
		direct = services.NewDirectPublisher(notifications)
		publisher = direct
	}

	var reviewOpts []services.ReviewOption
	if deps.Uploader != nil {
		reviewOpts = append(reviewOpts, services.WithImageUploader(deps.Uploader))
	}

	return &Services{
		Auth:          services.NewAuthService(deps.Repos.Users, deps.Repos.Admins, deps.Verifier, deps.JWTSecret),
		Products:      services.NewProductService(deps.Repos.Products),
		Cart:          services.NewCartService(deps.Repos.Users),
		Orders:        services.NewOrderService(deps.Repos.Orders, deps.Repos.Products, publisher),
		Events:        services.NewEventService(deps.Repos.Events, deps.Repos.Products, deps.EventStrictPricing),
		Reviews:       services.NewReviewService(deps.Repos.Reviews, deps.Repos.Orders, reviewOpts...),
		Admin:         services.NewAdminService(deps.Repos.Users, deps.Repos.Orders, deps.Repos.Events),
		Notifications: notifications,
		Direct:        direct,
	}
}

// Options tune the HTTP stack.
type Options struct {
	CORSOrigins string
	// AuthRateLimit caps credential requests per client per minute. Zero disables it.
	AuthRateLimit int
	// LimiterStorage backs the rate limiter. Nil keeps counters in memory.
	LimiterStorage fiber.Storage
	// AccessLog receives the request log. Nil means stdout; io.Discard silences it.
	AccessLog io.Writer
}

// NewApp builds the Fiber application with every route mounted under /api.
func NewApp(svcs *Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "hotfood",
		ErrorHandler: errorHandler,
	})

	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     accessLog,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	startedAt := time.Now()
	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	})

	auth := middleware.AuthRequired(svcs.Auth)
	optionalAuth := middleware.OptionalAuth(svcs.Auth)
	adminAuth := middleware.AdminRequired(svcs.Auth)

	handlers.NewAuthHandler(svcs.Auth).RegisterRoutes(api, authLimiter(opts))
	handlers.NewProductHandler(svcs.Products).RegisterRoutes(api)
	handlers.NewCartHandler(svcs.Cart).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(svcs.Orders).RegisterRoutes(api, auth, optionalAuth)
	handlers.NewEventHandler(svcs.Events).RegisterRoutes(api, auth, optionalAuth)
	handlers.NewReviewHandler(svcs.Reviews).RegisterRoutes(api, auth)
	handlers.NewAdminHandler(svcs.Admin, svcs.Orders, svcs.Events, svcs.Products).RegisterRoutes(api, adminAuth)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Endpoint not found",
		})
	})

	return app
}

func authLimiter(opts Options) fiber.Handler {
	if opts.AuthRateLimit <= 0 {
		return nil
	}
	return limiter.New(limiter.Config{
		Max:        opts.AuthRateLimit,
		Expiration: time.Minute,
		Storage:    opts.LimiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later",
			})
		},
	})
}

// errorHandler answers errors no handler turned into a response.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"message": fe.Message,
		})
	}
	log.Errorf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
