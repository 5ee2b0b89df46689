package workorders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"condo-facility-management/internal/domain/condos"
	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) {
	r.Route("/condos/{condoID}/workorders", func(wr chi.Router) {
		wr.Post("/", createWorkOrderHandler(svc, condosSvc, membersSvc))
		wr.Get("/", listWorkOrdersHandler(svc, condosSvc, membersSvc))
		wr.Get("/{workOrderID}", getWorkOrderHandler(svc, condosSvc, membersSvc))

		wr.Post("/{workOrderID}/start", transitionHandler(svc, condosSvc, membersSvc, StatusInProgress))
		wr.Post("/{workOrderID}/complete", transitionHandler(svc, condosSvc, membersSvc, StatusCompleted))
		wr.Post("/{workOrderID}/cancel", transitionHandler(svc, condosSvc, membersSvc, StatusCancelled))
	})
}

type createWorkOrderRequest struct {
	AssetID     string `json:"asset_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // low | medium | high (default medium)
	DueDate     string `json:"due_date"` // YYYY-MM-DD opcional
}

type workOrderResponse struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	CondoID      string          `json:"condo_id"`
	AssetID      string          `json:"asset_id,omitempty"`
	SourceItemID string          `json:"source_item_id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Priority     Priority        `json:"priority"`
	Origin       Origin          `json:"origin"`
	Status       WorkOrderStatus `json:"status"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
}

// createWorkOrderHandler godoc
// @Summary Crear orden de servicio manual
// @Description Crea una OS manual con numeración secuencial "OS-<año>-<secuencia>" por condominio.
// @Tags workorders
// @Accept json
// @Produce json
// @Param condoID path string true "ID del condominio"
// @Param payload body createWorkOrderRequest true "Datos de la OS; due_date en formato YYYY-MM-DD"
// @Success 201 {object} workOrderResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /condos/{condoID}/workorders [post]
func createWorkOrderHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeWorkOrdersWrite) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createWorkOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var due *time.Time
		if strings.TrimSpace(req.DueDate) != "" {
			t, err := time.Parse("2006-01-02", req.DueDate)
			if err != nil {
				http.Error(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			due = &t
		}

		wo, err := svc.Create(r.Context(), condoID, claims.UserID, CreateInput{
			AssetID:     req.AssetID,
			Title:       req.Title,
			Description: req.Description,
			Priority:    Priority(strings.TrimSpace(req.Priority)),
			Origin:      OriginManual,
			DueDate:     due,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toWorkOrderResponse(wo))
	}
}

func listWorkOrdersHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeWorkOrdersRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		q := r.URL.Query()

		limit := 0
		if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		status := WorkOrderStatus(strings.TrimSpace(q.Get("status")))
		switch status {
		case "", StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		default:
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByCondo(r.Context(), condoID, ListFilter{
			Status:  status,
			AssetID: q.Get("asset_id"),
			Limit:   limit,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]workOrderResponse, 0, len(items))
		for _, wo := range items {
			out = append(out, toWorkOrderResponse(wo))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getWorkOrderHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeWorkOrdersRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		wo, err := svc.GetByID(r.Context(), chi.URLParam(r, "workOrderID"))
		if err != nil || wo.CondoID != condoID {
			http.Error(w, "work order not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toWorkOrderResponse(wo))
	}
}

func transitionHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service, target WorkOrderStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeWorkOrdersWrite) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		id := chi.URLParam(r, "workOrderID")
		current, err := svc.GetByID(r.Context(), id)
		if err != nil || current.CondoID != condoID {
			http.Error(w, "work order not found", http.StatusNotFound)
			return
		}

		var wo WorkOrder
		switch target {
		case StatusInProgress:
			wo, err = svc.Start(r.Context(), id)
		case StatusCompleted:
			wo, err = svc.Complete(r.Context(), id)
		case StatusCancelled:
			wo, err = svc.Cancel(r.Context(), id)
		default:
			http.Error(w, "invalid transition", http.StatusBadRequest)
			return
		}
		if err != nil {
			switch {
			case errors.Is(err, ErrBadState):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "work order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toWorkOrderResponse(wo))
	}
}

// authorizeCondo: síndico bypass, miembro requiere membresía activa con
// el scope. (Duplicado por módulo a propósito, ver comentario en assets.)
func authorizeCondo(r *http.Request, condosSvc *condos.Service, membersSvc *memberships.Service, condoID, userID string, scope memberships.Scope) bool {
	manager, err := condosSvc.ManagerOf(r.Context(), condoID)
	if err != nil {
		return false
	}
	if manager == userID {
		return true
	}

	m, err := membersSvc.GetActiveMembership(r.Context(), condoID, userID)
	if err != nil {
		return false
	}
	return memberships.HasScope(m, scope)
}

func toWorkOrderResponse(wo WorkOrder) workOrderResponse {
	return workOrderResponse{
		ID:           wo.ID,
		Number:       wo.Number,
		CondoID:      wo.CondoID,
		AssetID:      wo.AssetID,
		SourceItemID: wo.SourceItemID,
		Title:        wo.Title,
		Description:  wo.Description,
		Priority:     wo.Priority,
		Origin:       wo.Origin,
		Status:       wo.Status,
		DueDate:      wo.DueDate,
		CreatedBy:    wo.CreatedBy,
		CreatedAt:    wo.CreatedAt,
		UpdatedAt:    wo.UpdatedAt,
		StartedAt:    wo.StartedAt,
		CompletedAt:  wo.CompletedAt,
		CancelledAt:  wo.CancelledAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
