package condos

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, membersSvc *memberships.Service) {
	r.Route("/condos", func(cr chi.Router) {
		cr.Post("/", createCondoHandler(svc))
		cr.Get("/", listCondosHandler(svc))

		// Perfil del condominio (síndico o miembro activo)
		cr.Get("/{condoID}", getCondoHandler(svc, membersSvc))
	})
}

type createCondoRequest struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	Plan    string `json:"plan"` // basic | professional (opcional)
}

type condoResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CNPJ          string    `json:"cnpj"`
	Address       string    `json:"address"`
	Plan          Plan      `json:"plan"`
	ManagerUserID string    `json:"manager_user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func createCondoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createCondoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			CNPJ:    req.CNPJ,
			Address: req.Address,
			Plan:    Plan(strings.TrimSpace(req.Plan)),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCondoResponse(c))
	}
}

func listCondosHandler(svc *Service) http.HandlerFunc {
	// Solo condominios donde soy síndico (los de membresía van por /me/memberships)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByManager(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]condoResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCondoResponse(c))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getCondoHandler(svc *Service, membersSvc *memberships.Service) http.HandlerFunc {
	// Síndico bypass; miembro requiere membresía activa (cualquier scope)
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		c, err := svc.GetByID(r.Context(), condoID)
		if err != nil {
			http.Error(w, "condo not found", http.StatusNotFound)
			return
		}

		if c.ManagerUserID != claims.UserID {
			if _, err := membersSvc.GetActiveMembership(r.Context(), condoID, claims.UserID); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		writeJSON(w, http.StatusOK, toCondoResponse(c))
	}
}

func toCondoResponse(c Condominium) condoResponse {
	return condoResponse{
		ID:            c.ID,
		Name:          c.Name,
		CNPJ:          c.CNPJ,
		Address:       c.Address,
		Plan:          c.Plan,
		ManagerUserID: c.ManagerUserID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada
// módulo para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
