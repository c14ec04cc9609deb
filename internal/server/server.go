package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/karatledger/internal/agent"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	"github.com/smallbiznis/karatledger/internal/audit"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	"github.com/smallbiznis/karatledger/internal/auth"
	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/auth/session"
	"github.com/smallbiznis/karatledger/internal/authorization"
	"github.com/smallbiznis/karatledger/internal/bill"
	billdomain "github.com/smallbiznis/karatledger/internal/bill/domain"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/customer"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	"github.com/smallbiznis/karatledger/internal/item"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/jobworker"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	"github.com/smallbiznis/karatledger/internal/loan"
	loandomain "github.com/smallbiznis/karatledger/internal/loan/domain"
	"github.com/smallbiznis/karatledger/internal/observability"
	obsmiddleware "github.com/smallbiznis/karatledger/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	obstracing "github.com/smallbiznis/karatledger/internal/observability/tracing"
	"github.com/smallbiznis/karatledger/internal/order"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/payment"
	paymentdomain "github.com/smallbiznis/karatledger/internal/payment/domain"
	"github.com/smallbiznis/karatledger/internal/providers/pdf"
	"github.com/smallbiznis/karatledger/internal/ratebook"
	ratebookdomain "github.com/smallbiznis/karatledger/internal/ratebook/domain"
	"github.com/smallbiznis/karatledger/internal/ratelimit"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/station"
	stationdomain "github.com/smallbiznis/karatledger/internal/station/domain"
	"github.com/smallbiznis/karatledger/internal/transaction"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	sequence.Module,
	party.Module,
	pdf.Module,
	authorization.Module,
	audit.Module,
	auth.Module,
	ratelimit.Module,
	customer.Module,
	jobworker.Module,
	agent.Module,
	item.Module,
	station.Module,
	ratebook.Module,
	transaction.Module,
	loan.Module,
	order.Module,
	bill.Module,
	payment.Module,
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(corsMiddleware(cfg.CORSOrigin))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	clock  clock.Clock

	authsvc    authdomain.Service
	sessions   *session.Manager
	authzSvc   authorization.Service
	auditSvc   auditdomain.Service
	apiLimiter *ratelimit.APILimiter
	obsMetrics *obsmetrics.Metrics
	sequences  *sequence.Generator

	customerSvc    customerdomain.Service
	jobWorkerSvc   jobworkerdomain.Service
	agentSvc       agentdomain.Service
	itemSvc        itemdomain.Service
	stationSvc     stationdomain.Service
	rateBookSvc    ratebookdomain.Service
	loanSvc        loandomain.Service
	billSvc        billdomain.Service
	orderSvc       orderdomain.Service
	paymentSvc     paymentdomain.Service
	transactionSvc transactiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock `optional:"true"`

	Authsvc    authdomain.Service
	Sessions   *session.Manager
	AuthzSvc   authorization.Service
	AuditSvc   auditdomain.Service   `optional:"true"`
	APILimiter *ratelimit.APILimiter `optional:"true"`
	ObsMetrics *obsmetrics.Metrics   `optional:"true"`
	Sequences  *sequence.Generator

	CustomerSvc    customerdomain.Service
	JobWorkerSvc   jobworkerdomain.Service
	AgentSvc       agentdomain.Service
	ItemSvc        itemdomain.Service
	StationSvc     stationdomain.Service
	RateBookSvc    ratebookdomain.Service
	LoanSvc        loandomain.Service
	BillSvc        billdomain.Service
	OrderSvc       orderdomain.Service
	PaymentSvc     paymentdomain.Service
	TransactionSvc transactiondomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		clock:          clock.OrReal(p.Clock),
		authsvc:        p.Authsvc,
		sessions:       p.Sessions,
		authzSvc:       p.AuthzSvc,
		auditSvc:       p.AuditSvc,
		apiLimiter:     p.APILimiter,
		obsMetrics:     p.ObsMetrics,
		sequences:      p.Sequences,
		customerSvc:    p.CustomerSvc,
		jobWorkerSvc:   p.JobWorkerSvc,
		agentSvc:       p.AgentSvc,
		itemSvc:        p.ItemSvc,
		stationSvc:     p.StationSvc,
		rateBookSvc:    p.RateBookSvc,
		loanSvc:        p.LoanSvc,
		billSvc:        p.BillSvc,
		orderSvc:       p.OrderSvc,
		paymentSvc:     p.PaymentSvc,
		transactionSvc: p.TransactionSvc,
	}

	svc.registerRootRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRootRoutes() {
	s.engine.GET("/health", s.Health)
	s.engine.GET("/", func(c *gin.Context) {
		if fileExists(s.cfg.StaticDir, "index.html") {
			c.File(filepath.Join(s.cfg.StaticDir, "index.html"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Ledger API Server",
			"version": s.cfg.AppVersion,
		})
	})
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/api", s.RateLimit()).Group("/v1")

	v1.GET("/health", s.Health)
	v1.POST("/auth/login", s.Login)

	api := v1.Group("", s.AuthRequired())

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/logout", s.Logout)
		authGroup.GET("/me", s.Me)
		authGroup.PUT("/password", s.ChangePassword)
		authGroup.POST("/register", s.authorize(authorization.ObjectUser, authorization.ActionCreate), s.Register)
	}

	customers := api.Group("/customers", entity("Customer"))
	{
		customers.GET("", s.ListCustomers)
		customers.POST("", s.CreateCustomer)
		customers.GET("/search", s.SearchCustomers)
		customers.GET("/:id", s.GetCustomerByID)
		customers.PUT("/:id", s.UpdateCustomer)
		customers.DELETE("/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionDelete), s.DeleteCustomer)
		customers.GET("/:id/balance", s.GetCustomerBalance)
		customers.PUT("/:id/balance", s.UpdateCustomerBalance)
	}

	jobWorkers := api.Group("/jobworkers", entity("Job worker"))
	{
		jobWorkers.GET("", s.ListJobWorkers)
		jobWorkers.POST("", s.CreateJobWorker)
		jobWorkers.GET("/:id", s.GetJobWorkerByID)
		jobWorkers.PUT("/:id", s.UpdateJobWorker)
		jobWorkers.DELETE("/:id", s.authorize(authorization.ObjectJobWorker, authorization.ActionDelete), s.DeleteJobWorker)
		jobWorkers.GET("/:id/balance", s.GetJobWorkerBalance)
		jobWorkers.PUT("/:id/balance", s.UpdateJobWorkerBalance)
	}

	agents := api.Group("/agents", entity("Agent"))
	{
		agents.GET("", s.ListAgents)
		agents.POST("", s.CreateAgent)
		agents.GET("/:id", s.GetAgentByID)
		agents.PUT("/:id", s.UpdateAgent)
		agents.DELETE("/:id", s.authorize(authorization.ObjectAgent, authorization.ActionDelete), s.DeleteAgent)
		agents.GET("/:id/stats", s.GetAgentStats)
	}

	items := api.Group("/items", entity("Item"))
	{
		items.GET("", s.ListItems)
		items.POST("", s.CreateItem)
		items.GET("/search", s.SearchItems)
		items.GET("/lowstock", s.LowStockItems)
		items.GET("/:id", s.GetItemByID)
		items.PUT("/:id", s.UpdateItem)
		items.DELETE("/:id", s.authorize(authorization.ObjectItem, authorization.ActionDelete), s.DeleteItem)
		items.PUT("/:id/stock", s.UpdateItemStock)
	}

	stations := api.Group("/stations", entity("Station"))
	{
		stations.GET("", s.ListStations)
		stations.POST("", s.authorize(authorization.ObjectStation, authorization.ActionCreate), s.CreateStation)
		stations.GET("/:id", s.GetStationByID)
		stations.PUT("/:id", s.authorize(authorization.ObjectStation, authorization.ActionUpdate), s.UpdateStation)
		stations.DELETE("/:id", s.authorize(authorization.ObjectStation, authorization.ActionDelete), s.DeleteStation)
	}

	rateBooks := api.Group("/ratebook", entity("Rate book"))
	{
		rateBooks.GET("", s.ListRateBooks)
		rateBooks.POST("", s.authorize(authorization.ObjectRateBook, authorization.ActionCreate), s.CreateRateBook)
		rateBooks.GET("/latest", s.LatestRateBook)
		rateBooks.GET("/date/:date", s.RateBookByDate)
		rateBooks.GET("/rate/:metal/:purity", s.GetRate)
		rateBooks.GET("/:id", s.GetRateBookByID)
		rateBooks.PUT("/:id", s.authorize(authorization.ObjectRateBook, authorization.ActionUpdate), s.UpdateRateBook)
		rateBooks.DELETE("/:id", s.authorize(authorization.ObjectRateBook, authorization.ActionDelete), s.DeleteRateBook)
	}

	loans := api.Group("/loans", entity("Loan"))
	{
		loans.GET("", s.ListLoans)
		loans.POST("", s.CreateLoan)
		loans.GET("/pending", s.PendingLoans)
		loans.GET("/:id", s.GetLoanByID)
		loans.PUT("/:id", s.UpdateLoan)
		loans.DELETE("/:id", s.authorize(authorization.ObjectLoan, authorization.ActionDelete), s.DeleteLoan)
		loans.POST("/:id/payment", s.RecordLoanPayment)
		loans.POST("/:id/return-metal", s.ReturnLoanMetal)
	}

	bills := api.Group("/bills", entity("Bill"))
	{
		bills.GET("", s.ListBills)
		bills.POST("", s.CreateBill)
		bills.GET("/unpaid", s.UnpaidBills)
		bills.GET("/:id", s.GetBillByID)
		bills.PUT("/:id", s.UpdateBill)
		bills.DELETE("/:id", s.authorize(authorization.ObjectBill, authorization.ActionDelete), s.DeleteBill)
		bills.PUT("/:id/finalize", s.FinalizeBill)
		bills.PUT("/:id/cancel", s.CancelBill)
		bills.POST("/:id/payment", s.RecordBillPayment)
		bills.GET("/:id/pdf", s.BillPDF)
	}

	orders := api.Group("/orders", entity("Order"))
	{
		orders.GET("", s.ListOrders)
		orders.POST("", s.CreateOrder)
		orders.GET("/pending", s.PendingOrders)
		orders.GET("/ready", s.ReadyOrders)
		orders.GET("/:id", s.GetOrderByID)
		orders.PUT("/:id", s.UpdateOrder)
		orders.DELETE("/:id", s.authorize(authorization.ObjectOrder, authorization.ActionDelete), s.DeleteOrder)
		orders.PUT("/:id/status", s.UpdateOrderStatus)
		orders.PUT("/:id/assign", s.AssignOrder)
	}

	payments := api.Group("/payments", entity("Payment"))
	{
		payments.GET("", s.ListPayments)
		payments.POST("", s.CreatePayment)
		payments.GET("/:id", s.GetPaymentByID)
		payments.PUT("/:id", s.UpdatePayment)
		payments.DELETE("/:id", s.authorize(authorization.ObjectPayment, authorization.ActionDelete), s.DeletePayment)
		payments.PUT("/:id/status", s.UpdatePaymentStatus)
		payments.GET("/:id/receipt", s.PaymentReceipt)
	}

	transactions := api.Group("/transactions", entity("Transaction"))
	{
		transactions.GET("", s.ListTransactions)
		transactions.POST("", s.CreateTransaction)
		transactions.GET("/daybook/:date", s.DayBook)
		transactions.GET("/financialyear/:year", s.TransactionsByFinancialYear)
		transactions.GET("/daterange", s.TransactionsByDateRange)
		transactions.GET("/:id", s.GetTransactionByID)
		transactions.PUT("/:id/reconcile", s.ReconcileTransaction)
	}

	api.GET("/sequences/:kind/next", s.NextSequence)
	api.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API is running",
		"timestamp": s.clock.Now().UTC(),
	})
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		// static assets of the dashboard build
		if fileExists(s.cfg.StaticDir, c.Request.URL.Path) {
			c.File(filepath.Join(s.cfg.StaticDir, filepath.Clean(c.Request.URL.Path)))
			return
		}
		AbortWithError(c, withMessage(ErrNotFound, http.StatusNotFound, "Route not found"))
	})
}

func fileExists(publicDir, reqPath string) bool {
	if publicDir == "" {
		return false
	}
	clean := filepath.Clean("/" + reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
