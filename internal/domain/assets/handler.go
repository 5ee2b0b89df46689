package assets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"condo-facility-management/internal/domain/condos"
	"condo-facility-management/internal/domain/memberships"
	"condo-facility-management/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Provisioner aprovisiona las obligaciones de mantenimiento al
// registrar un activo con impacto de conformidad. La interfaz vive acá
// para evitar el ciclo de imports assets <-> maintenance.
type Provisioner interface {
	ProvisionAsset(ctx context.Context, condoID, assetID string, category Category) (int, error)
}

func RegisterRoutes(r chi.Router, svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service, prov Provisioner) {
	r.Route("/condos/{condoID}/assets", func(ar chi.Router) {
		ar.Post("/", createAssetHandler(svc, condosSvc, membersSvc, prov))
		ar.Get("/", listAssetsHandler(svc, condosSvc, membersSvc))

		ar.Get("/{assetID}", getAssetHandler(svc, condosSvc, membersSvc))
		ar.Patch("/{assetID}", updateAssetHandler(svc, condosSvc, membersSvc))
	})
}

type createAssetRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	SerialNumber string `json:"serial_number"`
	InstalledAt  string `json:"installed_at"` // YYYY-MM-DD opcional
	Notes        string `json:"notes"`
}

type assetResponse struct {
	ID           string     `json:"id"`
	CondoID      string     `json:"condo_id"`
	Name         string     `json:"name"`
	Category     Category   `json:"category"`
	Location     string     `json:"location"`
	SerialNumber string     `json:"serial_number"`
	InstalledAt  *time.Time `json:"installed_at,omitempty"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type createAssetResponse struct {
	Asset assetResponse `json:"asset"`

	// ProvisionedItems cuenta las obligaciones creadas desde el
	// catálogo para la categoría del activo.
	ProvisionedItems int `json:"provisioned_items"`
}

type updateAssetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	SerialNumber *string `json:"serial_number"`
	InstalledAt  *string `json:"installed_at"` // YYYY-MM-DD; null = limpiar
	Notes        *string `json:"notes"`
}

func createAssetHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service, prov Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeAssetsWrite) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createAssetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var installed *time.Time
		if strings.TrimSpace(req.InstalledAt) != "" {
			t, err := time.Parse("2006-01-02", req.InstalledAt)
			if err != nil {
				http.Error(w, "installed_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			installed = &t
		}

		a, err := svc.Create(r.Context(), condoID, CreateInput{
			Name:         req.Name,
			Category:     Category(strings.TrimSpace(req.Category)),
			Location:     req.Location,
			SerialNumber: req.SerialNumber,
			InstalledAt:  installed,
			Notes:        req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// El aprovisionamiento es una escritura independiente: si
		// falla, el activo ya quedó registrado y no se revierte.
		provisioned := 0
		if prov != nil && ComplianceImpacting(a.Category) {
			n, err := prov.ProvisionAsset(r.Context(), a.CondoID, a.ID, a.Category)
			if err != nil {
				http.Error(w, "asset created but maintenance provisioning failed", http.StatusInternalServerError)
				return
			}
			provisioned = n
		}

		writeJSON(w, http.StatusCreated, createAssetResponse{
			Asset:            toAssetResponse(a),
			ProvisionedItems: provisioned,
		})
	}
}

func listAssetsHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeAssetsRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByCondo(r.Context(), condoID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]assetResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAssetResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getAssetHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeAssetsRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "assetID"))
		if err != nil || a.CondoID != condoID {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAssetResponse(a))
	}
}

func updateAssetHandler(svc *Service, condosSvc *condos.Service, membersSvc *memberships.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")
		if !authorizeCondo(r, condosSvc, membersSvc, condoID, claims.UserID, memberships.ScopeAssetsWrite) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		assetID := chi.URLParam(r, "assetID")
		current, err := svc.GetByID(r.Context(), assetID)
		if err != nil || current.CondoID != condoID {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}

		// Para soportar installed_at: null, detectamos presencia del
		// campo decodificando primero a map.
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateAssetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		installed := PatchDate{}
		if v, exists := raw["installed_at"]; exists {
			installed.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "installed_at must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				t, err := time.Parse("2006-01-02", s)
				if err != nil {
					http.Error(w, "installed_at must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				installed.Value = &t
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), assetID, UpdateProfileInput{
			Name:         req.Name,
			Location:     req.Location,
			SerialNumber: req.SerialNumber,
			Notes:        req.Notes,
			InstalledAt:  installed,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "asset not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toAssetResponse(updated))
	}
}

// authorizeCondo aplica la regla de permisos estándar:
// síndico bypass, miembro requiere membresía activa con el scope.
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

func toAssetResponse(a Asset) assetResponse {
	return assetResponse{
		ID:           a.ID,
		CondoID:      a.CondoID,
		Name:         a.Name,
		Category:     a.Category,
		Location:     a.Location,
		SerialNumber: a.SerialNumber,
		InstalledAt:  a.InstalledAt,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente por módulo (ver condos).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
