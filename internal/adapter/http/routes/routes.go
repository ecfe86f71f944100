package routes

import (
	"context"
	"log"
	"os"
	"strings"

	_ "b2bdesk/docs" // This will be auto-generated
	"b2bdesk/internal/adapter/http/handlers"
	repository2 "b2bdesk/internal/adapter/persistence/repository"
	"b2bdesk/internal/infrastructure/database"
	"b2bdesk/internal/infrastructure/events"
	"b2bdesk/internal/infrastructure/logger"
	"b2bdesk/internal/infrastructure/payments"
	"b2bdesk/internal/usecase"
	"b2bdesk/internal/usecase/interfaces"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

const defaultSellerState = "Maharashtra"

// Run will start the server
func Run() {
	if err := logger.Setup(); err != nil {
		log.Printf("Logger setup failed, using defaults: %v", err)
	}
	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	err := router.Run(":" + port)
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes() {
	ddb := database.ConnectDynamoDB()

	orderRepo := repository2.NewOrderDynamoRepository(ddb)
	invoiceRepo := repository2.NewInvoiceDynamoRepository(ddb)
	paymentRepo := repository2.NewPaymentDynamoRepository(ddb)

	var productRepo interfaces.IProductRepository = repository2.NewProductDynamoRepository(ddb)
	var customerRepo interfaces.ICustomerRepository = repository2.NewCustomerDynamoRepository(ddb)

	rdb, err := database.ConnectRedis(context.Background())
	if err != nil {
		log.Printf("Redis catalog cache not configured: %v", err)
	} else if rdb != nil {
		productRepo = repository2.NewCachedProductRepository(productRepo, rdb)
		customerRepo = repository2.NewCachedCustomerRepository(customerRepo, rdb)
	}

	var publisher interfaces.IEventPublisher
	if kp := events.NewKafkaStatusPublisherFromEnv(); kp != nil {
		publisher = kp
	}

	sellerState := strings.TrimSpace(os.Getenv("SELLER_STATE"))
	if sellerState == "" {
		sellerState = defaultSellerState
	}

	invoiceUseCase := usecase.NewInvoiceUseCase(invoiceRepo, orderRepo, customerRepo, sellerState)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, invoiceUseCase, publisher)
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, customerRepo)

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, orderUseCase, paymentGateway)

	orderHandler := handlers.NewOrderHandler(orderUseCase)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceUseCase)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase)
	catalogHandler := handlers.NewCatalogHandler(catalogUseCase)

	// Public routes
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addOrderRoutes(v1, orderHandler, invoiceHandler, paymentHandler)
	addCatalogRoutes(v1, catalogHandler)
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}

func corsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
