package http

import (
	"net/http"

	"soundstage/pkg/logger"
	"soundstage/services/ledger/internal/entity"
	"soundstage/services/ledger/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productUseCase usecase.ProductUseCase
	logger         *logger.Logger
}

func NewProductHandler(productUseCase usecase.ProductUseCase, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		logger:         logger,
	}
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type" example:"PHYSICAL"`
	Price       int64  `json:"price"`
	Stock       *int   `json:"stock"`
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of products"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, offset := pageParams(c)

	products, total, err := h.productUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// CreateProduct godoc
// @Summary      Create a product
// @Description  Merchant only. Price is in coins.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateProductRequest true "Product"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productUseCase.Create(c.Request.Context(), userID, usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Type:        entity.ProductType(req.Type),
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// PurchaseProduct godoc
// @Summary      Buy a product with coins
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  usecase.ProductPurchaseResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /products/{id}/purchase [post]
func (h *ProductHandler) PurchaseProduct(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.productUseCase.Purchase(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
