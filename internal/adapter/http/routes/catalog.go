package routes

import (
	"b2bdesk/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathProducts  = "/products"
	PathCustomers = "/customers"
)

func addCatalogRoutes(rg *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	products := rg.Group(PathProducts)
	{
		products.POST("", catalogHandler.CreateProduct)
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	customers := rg.Group(PathCustomers)
	{
		customers.POST("", catalogHandler.CreateCustomer)
		customers.GET("", catalogHandler.ListCustomers)
		customers.GET("/:id", catalogHandler.GetCustomer)
	}
}
