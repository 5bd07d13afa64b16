package split

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsplit/internal/order"
	"github.com/fkhayef/billsplit/internal/split/calc"
	"github.com/fkhayef/billsplit/pkg/response"
)

// Handler handles HTTP requests for split operations
type Handler struct {
	service *Service
}

// NewHandler creates a new split handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for split endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/bulk", h.CreateBulk)
	r.Get("/order/{orderID}", h.ListByOrder)
	r.Post("/order/{orderID}/send-all-reminders", h.SendAllReminders)
	r.Put("/{id}/paid", h.SetPaid)
	r.Post("/{id}/send-reminder", h.SendReminder)
	r.Delete("/{id}", h.Delete)

	return r
}

// CreateBulk handles POST /splits/bulk
// @Summary      Create splits from item assignments
// @Description  Compute each user's share from per-item assignments and replace the order's splits
// @Tags         splits
// @Accept       json
// @Produce      json
// @Param        request body BulkCreateRequest true "Bulk split request"
// @Success      201 {object} response.APIResponse{data=[]SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /splits/bulk [post]
func (h *Handler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.OrderID == 0 || len(req.Assignments) == 0 {
		response.BadRequest(w, "order_id and assignments are required")
		return
	}

	splits, err := h.service.CreateBulk(r.Context(), &req)
	if err != nil {
		var verr *calc.ValidationError
		switch {
		case errors.As(err, &verr):
			response.UnprocessableEntity(w, verr.Error(), map[string]interface{}{
				"code":     verr.Code,
				"item_ids": verr.ItemIDs,
			})
		case errors.Is(err, order.ErrOrderNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to create splits")
		}
		return
	}

	splitResponses := make([]*SplitResponse, len(splits))
	for i, s := range splits {
		splitResponses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusCreated, splitResponses)
}

// ListByOrder handles GET /splits/order/{orderID}
// @Summary      List splits for an order
// @Description  Get all splits belonging to an order
// @Tags         splits
// @Produce      json
// @Param        orderID path int true "Order ID"
// @Success      200 {object} response.APIResponse{data=[]SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /splits/order/{orderID} [get]
func (h *Handler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	splits, err := h.service.ListByOrderID(r.Context(), orderID)
	if err != nil {
		response.InternalError(w, "Failed to list splits")
		return
	}

	splitResponses := make([]*SplitResponse, len(splits))
	for i, s := range splits {
		splitResponses[i] = s.ToResponse()
	}

	response.JSON(w, http.StatusOK, splitResponses)
}

// SetPaid handles PUT /splits/{id}/paid
// @Summary      Mark a split paid or unpaid
// @Description  Set the paid status of a split via the paid query parameter
// @Tags         splits
// @Produce      json
// @Param        id path int true "Split ID"
// @Param        paid query bool true "New paid status"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /splits/{id}/paid [put]
func (h *Handler) SetPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid split ID")
		return
	}

	paid, err := strconv.ParseBool(r.URL.Query().Get("paid"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'paid' must be true or false")
		return
	}

	split, err := h.service.SetPaid(r.Context(), id, paid)
	if err != nil {
		if errors.Is(err, ErrSplitNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update split")
		return
	}

	response.JSON(w, http.StatusOK, split.ToResponse())
}

// SendReminder handles POST /splits/{id}/send-reminder
// @Summary      Send a payment reminder for a split
// @Description  Compose and dispatch a payment reminder to the split's user
// @Tags         splits
// @Produce      json
// @Param        id path int true "Split ID"
// @Success      200 {object} response.APIResponse{data=ReminderResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /splits/{id}/send-reminder [post]
func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid split ID")
		return
	}

	split, result, err := h.service.SendReminder(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSplitNotFound) || errors.Is(err, order.ErrOrderNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to send reminder")
		return
	}

	response.JSON(w, http.StatusOK, &ReminderResponse{
		Split:  split.ToResponse(),
		Result: result,
	})
}

// SendAllReminders handles POST /splits/order/{orderID}/send-all-reminders
// @Summary      Send reminders for all unpaid splits of an order
// @Description  Dispatch payment reminders to every user with an unpaid split
// @Tags         splits
// @Produce      json
// @Param        orderID path int true "Order ID"
// @Success      200 {object} response.APIResponse{data=BulkReminderResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /splits/order/{orderID}/send-all-reminders [post]
func (h *Handler) SendAllReminders(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	results, err := h.service.SendAllReminders(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, ErrNoSplits) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to send reminders")
		return
	}

	message := fmt.Sprintf("Sent %d reminders", len(results))
	if len(results) == 0 {
		message = "No unpaid splits to send reminders for"
	}

	response.JSON(w, http.StatusOK, &BulkReminderResponse{
		Message: message,
		Results: results,
	})
}

// Delete handles DELETE /splits/{id}
// @Summary      Delete a split
// @Description  Delete a split by its ID
// @Tags         splits
// @Produce      json
// @Param        id path int true "Split ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Router       /splits/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid split ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.InternalError(w, "Failed to delete split")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Split deleted successfully"})
}
