package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsplit/pkg/response"
)

const maxReceiptSize = 10 << 20 // 10 MB

// Handler handles HTTP requests for order operations
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for order endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/upload-receipt", h.UploadReceipt)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /orders
// @Summary      Create a new order
// @Description  Create an order together with its items in one payload
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body CreateOrderRequest true "Order creation request"
// @Success      201 {object} response.APIResponse{data=OrderResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /orders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPayerNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNoItems):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create order")
		}
		return
	}

	response.JSON(w, http.StatusCreated, order.ToResponse())
}

// List handles GET /orders
// @Summary      List all orders
// @Description  Get a paginated list of all orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]OrderResponse}
// @Router       /orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	orders, total, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list orders")
		return
	}

	orderResponses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		orderResponses[i] = order.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, orderResponses, meta)
}

// GetByID handles GET /orders/{id}
// @Summary      Get order by ID
// @Description  Get a single order with its items
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} response.APIResponse{data=OrderResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /orders/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get order")
		return
	}

	response.JSON(w, http.StatusOK, order.ToResponse())
}

// Delete handles DELETE /orders/{id}
// @Summary      Delete an order
// @Description  Delete an order; its items and splits are removed with it
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /orders/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete order")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}

// UploadReceipt handles POST /orders/upload-receipt
// @Summary      Upload a receipt image
// @Description  Store the receipt image and parse it into structured order data
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Receipt image"
// @Success      200 {object} response.APIResponse{data=UploadReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /orders/upload-receipt [post]
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing receipt file")
		return
	}
	defer file.Close()

	result, err := h.service.UploadReceipt(r.Context(), file, header)
	if err != nil {
		response.BadGateway(w, "Failed to process receipt: "+err.Error())
		return
	}

	response.JSON(w, http.StatusOK, result)
}
