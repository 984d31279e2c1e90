// Package kernel boots galeria: it opens the configured store and the
// optional infrastructure (Redis, Kafka, S3, SQL failed-jobs table), wires
// events to listeners and jobs, and builds the HTTP handler with the global
// middleware stack.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/galeria/app/controllers"
	appgraphql "github.com/shashiranjanraj/galeria/app/graphql"
	"github.com/shashiranjanraj/galeria/app/jobs"
	"github.com/shashiranjanraj/galeria/app/listeners"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/app/routes"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/pkg/broker"
	"github.com/shashiranjanraj/galeria/pkg/cache"
	"github.com/shashiranjanraj/galeria/pkg/database"
	"github.com/shashiranjanraj/galeria/pkg/docstore"
	"github.com/shashiranjanraj/galeria/pkg/event"
	"github.com/shashiranjanraj/galeria/pkg/graphql"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/mail"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
	"github.com/shashiranjanraj/galeria/pkg/middleware"
	"github.com/shashiranjanraj/galeria/pkg/notification"
	"github.com/shashiranjanraj/galeria/pkg/queue"
	"github.com/shashiranjanraj/galeria/pkg/reqid"
	"github.com/shashiranjanraj/galeria/pkg/router"
	"github.com/shashiranjanraj/galeria/pkg/schedule"
	"github.com/shashiranjanraj/galeria/pkg/storage"
	"github.com/shashiranjanraj/galeria/pkg/workerpool"
	"github.com/shashiranjanraj/galeria/pkg/ws"
)

// Kernel holds the wired application.
type Kernel struct {
	Store  *repositories.Store
	Events *event.Dispatcher
	Queue  *queue.Manager
	Hub    *ws.Hub
	Broker broker.Publisher
	Disk   storage.Disk

	Catalog      *services.CatalogService
	Coupons      *services.CouponService
	Checkout     *services.CheckoutService
	Orders       *services.OrderService
	CustomOrders *services.CustomOrderService
	Blog         *services.BlogService
	Reviews      *services.ReviewService
	Users        *services.UserService
	Settings     *services.SettingsService
	Uploads      *services.UploadService

	ping    func(context.Context) error
	pool    *workerpool.Pool
	stopHub context.CancelFunc
	closers []func(context.Context) error
}

// Boot connects everything configured. Only the store is mandatory; Redis,
// Kafka and the SQL failed-jobs table degrade to in-process fallbacks.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	k := &Kernel{}

	if uri := config.LogMongoURI(); uri != "" {
		if err := logger.EnableMongoSink(uri, config.MongoDatabase()); err != nil {
			logger.Warn("logger: mongo sink disabled", "error", err)
		} else {
			k.onClose(func(context.Context) error { logger.Close(); return nil })
		}
	}

	if err := k.openStore(ctx); err != nil {
		k.Close(ctx)
		return nil, err
	}

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: redis unavailable, caching disabled", "error", err)
	} else {
		k.onClose(func(context.Context) error { return cache.Close() })
	}

	if err := storage.Connect(ctx); err != nil {
		k.Close(ctx)
		return nil, err
	}
	k.Disk = storage.Default()

	k.Queue = queue.NewManager(queueDriver())
	if database.DB != nil {
		k.Queue.UseDB(database.DB)
	}
	k.pool = workerpool.New(intFromConfig("NOTIFY_WORKERS", 4))
	jobs.Register(k.Queue, notification.New(mail.FromConfig(), config.Get("SLACK_WEBHOOK_URL", ""), k.pool))

	k.Broker = broker.New(config.KafkaBrokers())
	k.onClose(func(context.Context) error { return k.Broker.Close() })

	hubCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	k.Hub = ws.NewHub(allowedOrigin(middleware.DefaultCORSOptions().AllowedOrigins))
	k.stopHub = stop
	go k.Hub.Run(hubCtx)

	k.Events = event.NewDispatcher()
	(&listeners.Listeners{
		Queue:      k.Queue,
		Feed:       k.Hub,
		Broker:     k.Broker,
		AdminEmail: config.AdminEmail(),
	}).Register(k.Events)

	k.wireServices()
	return k, nil
}

func (k *Kernel) openStore(ctx context.Context) error {
	switch config.StoreDriver() {
	case "mongo":
		if err := docstore.Connect(ctx); err != nil {
			return err
		}
		k.onClose(docstore.Close)
		if err := docstore.EnsureIndexes(ctx, docstore.DB); err != nil {
			return fmt.Errorf("docstore: indexes: %w", err)
		}
		client := docstore.Client
		k.Store = repositories.NewMongoStore(client, docstore.DB)
		k.ping = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }

		// The SQL database only backs failed_jobs here.
		if err := database.Connect(ctx); err != nil {
			logger.Warn("database: failed jobs kept in memory only", "error", err)
		} else {
			k.onClose(func(context.Context) error { return database.Close() })
		}
	default:
		if err := database.Connect(ctx); err != nil {
			return err
		}
		k.onClose(func(context.Context) error { return database.Close() })
		k.Store = repositories.NewSQLStore(database.DB)
		sqlDB, err := database.DB.DB()
		if err != nil {
			return err
		}
		k.ping = sqlDB.PingContext
	}
	logger.Info("store: connected", "driver", config.StoreDriver())
	return nil
}

func queueDriver() queue.Driver {
	if config.QueueDriver() == "redis" {
		if cache.RDB != nil {
			return queue.NewRedisDriver(cache.RDB)
		}
		logger.Warn("queue: redis driver requested but redis is unavailable, using memory")
	}
	return queue.NewMemoryDriver()
}

func (k *Kernel) wireServices() {
	s := k.Store
	shipping := config.ShippingCost()

	k.Catalog = services.NewCatalogService(s.Paintings)
	k.Coupons = services.NewCouponService(s.Coupons, nil)
	k.Checkout = services.NewCheckoutService(s.Paintings, s.Orders, k.Coupons, k.Events, shipping, nil)
	k.Orders = services.NewOrderService(s.Orders, s.CustomOrders, s.Paintings, k.Events, nil)
	k.CustomOrders = services.NewCustomOrderService(s.CustomOrders, k.Events, nil)
	k.Blog = services.NewBlogService(s.Blog, nil)
	k.Reviews = services.NewReviewService(s.Reviews, s.Paintings, k.Events)
	k.Users = services.NewUserService(s.Users)
	k.Settings = services.NewSettingsService(s.Settings, config.SettingsCacheTTL(), nil)
	k.Uploads = services.NewUploadService(k.Disk, nil)
}

// Handlers builds the controllers and the auxiliary handlers for the route
// table.
func (k *Kernel) Handlers() (*routes.Handlers, error) {
	schema, err := appgraphql.NewSchema(k.Catalog, k.Blog)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}

	h := &routes.Handlers{
		Auth:         controllers.NewAuthController(k.Users),
		Paintings:    controllers.NewPaintingController(k.Catalog),
		Checkout:     controllers.NewCheckoutController(k.Checkout, k.Coupons, config.ShippingCost()),
		Coupons:      controllers.NewCouponController(k.Coupons),
		Orders:       controllers.NewOrderController(k.Orders),
		CustomOrders: controllers.NewCustomOrderController(k.CustomOrders),
		Reviews:      controllers.NewReviewController(k.Reviews),
		Blog:         controllers.NewBlogController(k.Blog),
		Settings:     controllers.NewSettingsController(k.Settings),
		Uploads:      controllers.NewUploadController(k.Uploads),
		GraphQL:      graphql.Handler(schema),
		LiveFeed:     http.HandlerFunc(k.Hub.Serve),
		LiveFeedSSE:  http.HandlerFunc(k.Hub.ServeSSE),
	}
	if local, ok := k.Disk.(*storage.LocalDisk); ok {
		h.Storage = http.FileServer(http.Dir(local.Root()))
	}
	return h, nil
}

// Handler is the HTTP entry point with the global middleware stack.
func (k *Kernel) Handler() (http.Handler, error) {
	h, err := k.Handlers()
	if err != nil {
		return nil, err
	}
	r := NewRouter()
	routes.RegisterAPI(r, h)
	return r.Handler(), nil
}

// NewRouter returns a router with the global middleware applied, outermost
// first: metrics, request id, recovery, logging, CORS.
func NewRouter() *router.Router {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	return r
}

// Maintenance returns the scheduled tasks bound to this kernel.
func (k *Kernel) Maintenance() *jobs.Maintenance {
	return &jobs.Maintenance{
		Coupons:    k.Coupons,
		Orders:     k.Orders,
		Queue:      k.Queue,
		AdminEmail: config.AdminEmail(),
	}
}

// Scheduler registers the maintenance tasks on a fresh scheduler.
func (k *Kernel) Scheduler() (*schedule.Scheduler, error) {
	s := schedule.New()
	if err := k.Maintenance().Schedule(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Ping reports whether the primary store is reachable.
func (k *Kernel) Ping(ctx context.Context) error { return k.ping(ctx) }

func (k *Kernel) onClose(fn func(context.Context) error) {
	k.closers = append(k.closers, fn)
}

// Close waits for in-flight listeners, then releases connections in reverse
// order of opening.
func (k *Kernel) Close(ctx context.Context) error {
	if k.Events != nil {
		k.Events.Wait()
	}
	if k.stopHub != nil {
		k.stopHub()
	}
	if k.pool != nil {
		k.pool.Shutdown()
	}
	var errs []error
	for i := len(k.closers) - 1; i >= 0; i-- {
		errs = append(errs, k.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// allowedOrigin accepts WebSocket upgrades from the CORS origins and from
// clients that send no Origin header.
func allowedOrigin(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

func intFromConfig(key string, def int) int {
	n, err := strconv.Atoi(config.Get(key, strconv.Itoa(def)))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// QueueWorkers is how many queue workers `serve` runs in-process. Zero
// leaves the queue to `galeria queue:work`.
func QueueWorkers() int { return intFromConfig("QUEUE_WORKERS", 4) }

// Timeouts for the HTTP server.
const (
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 15 * time.Second
)
