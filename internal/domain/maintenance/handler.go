package maintenance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"condo-facility-management/internal/domain/assets"
	"condo-facility-management/internal/domain/condos"
	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/domain/workorders"
	"condo-facility-management/internal/middleware"
	"condo-facility-management/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

const featureAutoWorkOrders = "workorders:auto"

func RegisterRoutes(
	r chi.Router,
	svc *Service,
	assetsSvc *assets.Service,
	condosSvc *condos.Service,
	membersSvc *memberships.Service,
	workordersSvc *workorders.Service,
	resolver capabilities.CapabilitiesResolver, // puede ser nil (todo permitido, modo dev)
) {
	r.Route("/condos/{condoID}/maintenance", func(mr chi.Router) {
		mr.Post("/", createItemHandler(svc, condosSvc, membersSvc))
		mr.Get("/", listItemsHandler(svc, condosSvc, membersSvc))
		mr.Get("/{itemID}", getItemHandler(svc, condosSvc, membersSvc))

		mr.Post("/{itemID}/complete", completeItemHandler(svc, assetsSvc, condosSvc, membersSvc, workordersSvc, resolver))
		mr.Post("/{itemID}/postpone", postponeItemHandler(svc, condosSvc, membersSvc))
	})
}

type createItemRequest struct {
	AssetID      string `json:"asset_id"`
	Title        string `json:"title"`
	Periodicity  string `json:"periodicity"`        // "<n> <unit>(s)", ej: "6 months"
	NextDue      string `json:"next_due,omitempty"` // YYYY-MM-DD opcional
	Observations string `json:"observations"`
}

type itemResponse struct {
	ID           string     `json:"id"`
	CondoID      string     `json:"condo_id"`
	AssetID      string     `json:"asset_id"`
	Title        string     `json:"title"`
	Periodicity  string     `json:"periodicity"`
	LastDone     *time.Time `json:"last_done,omitempty"`
	NextDue      time.Time  `json:"next_due"`
	Status       Status     `json:"status"`
	StatusLabel  string     `json:"status_label"`
	Observations string     `json:"observations"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type completeItemRequest struct {
	CompletionDate string `json:"completion_date"` // YYYY-MM-DD
	SpawnWorkOrder bool   `json:"spawn_work_order"`
	Notes          string `json:"notes"`
}

// completeItemResponse separa los dos resultados: la ejecución del
// ítem (verdad primaria) y la creación de la OS (mejor esfuerzo).
type completeItemResponse struct {
	Item           itemResponse      `json:"item"`
	WorkOrder      *workOrderSummary `json:"work_order,omitempty"`
	WorkOrderError string            `json:"work_order_error,omitempty"`
}

type workOrderSummary struct {
	ID      string                     `json:"id"`
	Number  string                     `json:"number"`
	Title   string                     `json:"title"`
	Status  workorders.WorkOrderStatus `json:"status"`
	DueDate *time.Time                 `json:"due_date,omitempty"`
}

type postponeItemRequest struct {
	NewNextDue string `json:"new_next_due"` // YYYY-MM-DD
	Reason     string `json:"reason"`
}

func createItemHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeMaintenanceComplete) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := ParsePeriodicity(req.Periodicity)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var nextDue *time.Time
		if strings.TrimSpace(req.NextDue) != "" {
			t, err := time.Parse("2006-01-02", req.NextDue)
			if err != nil {
				http.Error(w, "next_due must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			nextDue = &t
		}

		it, err := svc.Create(r.Context(), condoID, CreateInput{
			AssetID:      req.AssetID,
			Title:        req.Title,
			Periodicity:  p,
			NextDue:      nextDue,
			Observations: req.Observations,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

// listItemsHandler godoc
// @Summary Listar ítems de mantenimiento del condominio
// @Description Lista las obligaciones de mantenimiento con su semáforo (green="Em Dia", yellow="Próxima", red="Vencida") recalculado al momento de la lectura. Filtros opcionales por status, activo y límite.
// @Tags maintenance
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param condoID path string true "ID del condominio"
// @Param status query string false "green | yellow | red"
// @Param asset_id query string false "filtrar por activo"
// @Param limit query int false "máximo de ítems"
// @Success 200 {array} itemResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /condos/{condoID}/maintenance [get]
func listItemsHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeMaintenanceRead) {
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

		status := Status(strings.TrimSpace(q.Get("status")))
		switch status {
		case "", StatusGreen, StatusYellow, StatusRed:
		default:
			http.Error(w, "status must be green, yellow or red", http.StatusBadRequest)
			return
		}

		items, err := svc.ListByCondo(r.Context(), condoID, ListInput{
			AssetID: q.Get("asset_id"),
			Status:  status,
			Limit:   limit,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getItemHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeMaintenanceRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil || it.CondoID != condoID {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

// completeItemHandler godoc
// @Summary Registrar ejecución de un ítem de mantenimiento
// @Description Marca el ítem como ejecutado: actualiza last_done, recalcula next_due con la periodicidad y el semáforo. Si spawn_work_order es true (y el plan lo habilita) genera una OS de seguimiento con vencimiento en next_due. La actualización del ítem y la creación de la OS son escrituras independientes: si la OS falla, la ejecución NO se revierte y el error se informa aparte en work_order_error.
// @Tags maintenance
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param condoID path string true "ID del condominio"
// @Param itemID path string true "ID del ítem"
// @Param payload body completeItemRequest true "completion_date en formato YYYY-MM-DD, no puede ser futura"
// @Success 200 {object} completeItemResponse
// @Failure 400 {string} string "invalid json / fecha futura / periodicidad inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden / feature no habilitada"
// @Failure 404 {string} string "item not found"
// @Router /condos/{condoID}/maintenance/{itemID}/complete [post]
func completeItemHandler(
	svc *Service,
	assetsSvc *assets.Service,
	condosSvc *condos.Service,
	membersSvc *memberships.Service,
	workordersSvc *workorders.Service,
	resolver capabilities.CapabilitiesResolver,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeMaintenanceComplete) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		current, err := svc.GetByID(r.Context(), itemID)
		if err != nil || current.CondoID != condoID {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		var req completeItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		completionDate, err := time.Parse("2006-01-02", req.CompletionDate)
		if err != nil {
			http.Error(w, "completion_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		// Gate por plan: la generación automática de OS puede no estar
		// en el plan del condominio. Resolver nil = permitido (dev).
		if req.SpawnWorkOrder && resolver != nil {
			allowed, err := resolver.HasFeature(r.Context(), capabilities.CapabilityCheck{
				CondoID: condoID,
				UserID:  claims.UserID,
				Feature: featureAutoWorkOrders,
			})
			if err != nil || !allowed {
				http.Error(w, "plan does not include automatic work orders", http.StatusForbidden)
				return
			}
		}

		assetName := ""
		if a, err := assetsSvc.GetByID(r.Context(), current.AssetID); err == nil {
			assetName = a.Name
		}

		it, woReq, err := svc.Complete(r.Context(), itemID, CompleteInput{
			CompletionDate: completionDate,
			SpawnWorkOrder: req.SpawnWorkOrder,
			Notes:          req.Notes,
			AssetName:      assetName,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrFutureCompletionDate), errors.Is(err, ErrInvalidPeriodicity), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "item not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := completeItemResponse{Item: toItemResponse(it)}

		if woReq != nil {
			due := woReq.DueDate
			wo, err := workordersSvc.Create(r.Context(), condoID, claims.UserID, workorders.CreateInput{
				AssetID:      woReq.AssetID,
				SourceItemID: woReq.SourceItemID,
				Title:        woReq.Title,
				Description:  woReq.Description,
				Origin:       workorders.OriginMaintenance,
				DueDate:      &due,
			})
			if err != nil {
				// La ejecución ya quedó registrada; la OS se reintenta
				// o se crea a mano. Nunca rollback.
				resp.WorkOrderError = "work order creation failed"
			} else {
				resp.WorkOrder = &workOrderSummary{
					ID:      wo.ID,
					Number:  wo.Number,
					Title:   wo.Title,
					Status:  wo.Status,
					DueDate: wo.DueDate,
				}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// postponeItemHandler godoc
// @Summary Adiar un ítem de mantenimiento
// @Description Corre next_due sin registrar ejecución (last_done no cambia). La nueva fecha debe ser estrictamente posterior a la actual.
// @Tags maintenance
// @Accept json
// @Produce json
// @Param condoID path string true "ID del condominio"
// @Param itemID path string true "ID del ítem"
// @Param payload body postponeItemRequest true "new_next_due en formato YYYY-MM-DD"
// @Success 200 {object} itemResponse
// @Failure 400 {string} string "invalid json / fecha no posterior a la actual"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "item not found"
// @Router /condos/{condoID}/maintenance/{itemID}/postpone [post]
func postponeItemHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeMaintenanceComplete) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		itemID := chi.URLParam(r, "itemID")
		current, err := svc.GetByID(r.Context(), itemID)
		if err != nil || current.CondoID != condoID {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		var req postponeItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		newNextDue, err := time.Parse("2006-01-02", req.NewNextDue)
		if err != nil {
			http.Error(w, "new_next_due must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		it, err := svc.Postpone(r.Context(), itemID, newNextDue, req.Reason)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidPostponeDate), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "item not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
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

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		CondoID:      it.CondoID,
		AssetID:      it.AssetID,
		Title:        it.Title,
		Periodicity:  it.Periodicity.String(),
		LastDone:     it.LastDone,
		NextDue:      it.NextDue,
		Status:       it.Status,
		StatusLabel:  it.Status.Label(),
		Observations: it.Observations,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
