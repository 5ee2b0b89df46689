package memberships

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"condo-facility-management/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// CondoManagerLookup evita importar el paquete condos (rompe ciclos).
type CondoManagerLookup interface {
	ManagerOf(ctx context.Context, condoID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, condoManagers CondoManagerLookup) {
	// Acciones del síndico por condominio
	r.Route("/condos/{condoID}/members", func(mr chi.Router) {
		mr.Post("/", inviteMemberHandler(svc, condoManagers))
		mr.Get("/", listMembersByCondoHandler(svc, condoManagers))
	})

	// Acciones por membresía
	r.Route("/members/{membershipID}", func(mr chi.Router) {
		mr.Post("/accept", acceptMembershipHandler(svc))
		mr.Post("/revoke", revokeMembershipHandler(svc))
	})

	// Miembro: ver sus invitaciones / membresías
	r.Route("/me/memberships", func(mr chi.Router) {
		mr.Get("/", listMyMembershipsHandler(svc))
	})
}

type inviteMemberRequest struct {
	MemberUserID string  `json:"member_user_id"`
	Scopes       []Scope `json:"scopes"`
}

type membershipResponse struct {
	ID            string     `json:"id"`
	CondoID       string     `json:"condo_id"`
	ManagerUserID string     `json:"manager_user_id"`
	MemberUserID  string     `json:"member_user_id"`
	Scopes        []Scope    `json:"scopes"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

func inviteMemberHandler(svc *Service, condoManagers CondoManagerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")

		managerID, err := condoManagers.ManagerOf(r.Context(), condoID)
		if err != nil || strings.TrimSpace(managerID) == "" {
			http.Error(w, "condo not found", http.StatusNotFound)
			return
		}
		if managerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req inviteMemberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.MemberUserID) == "" {
			http.Error(w, "member_user_id required", http.StatusBadRequest)
			return
		}

		m, err := svc.Invite(r.Context(), InviteInput{
			CondoID:       condoID,
			ManagerUserID: claims.UserID,
			MemberUserID:  strings.TrimSpace(req.MemberUserID),
			Scopes:        req.Scopes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMembershipResponse(m))
	}
}

func listMembersByCondoHandler(svc *Service, condoManagers CondoManagerLookup) http.HandlerFunc {
	// Solo el síndico ve el equipo completo del condominio.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		condoID := chi.URLParam(r, "condoID")

		managerID, err := condoManagers.ManagerOf(r.Context(), condoID)
		if err != nil || strings.TrimSpace(managerID) == "" {
			http.Error(w, "condo not found", http.StatusNotFound)
			return
		}
		if managerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByCondo(r.Context(), condoID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMembershipResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func acceptMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Accept(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "membership not found", http.StatusNotFound)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			case ErrBadState:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func revokeMembershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.Revoke(r.Context(), chi.URLParam(r, "membershipID"), claims.UserID)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "membership not found", http.StatusNotFound)
			case ErrForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMembershipResponse(m))
	}
}

func listMyMembershipsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByMember(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]membershipResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMembershipResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toMembershipResponse(m Membership) membershipResponse {
	return membershipResponse{
		ID:            m.ID,
		CondoID:       m.CondoID,
		ManagerUserID: m.ManagerUserID,
		MemberUserID:  m.MemberUserID,
		Scopes:        m.Scopes,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		RevokedAt:     m.RevokedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
