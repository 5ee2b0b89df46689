package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"condo-facility-management/internal/adapters/auth/jwtlocal"
	"condo-facility-management/internal/adapters/auth/portaria"
	"condo-facility-management/internal/adapters/capabilities/plansfeatures"
	"condo-facility-management/internal/platform/logger"
	"condo-facility-management/internal/ports/auth"
	"condo-facility-management/internal/ports/capabilities"
	"condo-facility-management/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	verifier := buildVerifier(log)
	resolver := buildResolver(log)

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Capabilities: resolver,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier elige el verifier por env:
// - JWT_SECRET => tokens HS256 locales
// - PORTARIA_BASE_URL + PORTARIA_API_KEY => Portaria
// - nada => nil (modo dev, X-Debug-User-ID)
func buildVerifier(log logger.Logger) auth.AuthVerifier {
	if secret := strings.TrimSpace(os.Getenv("JWT_SECRET")); secret != "" {
		v, err := jwtlocal.NewVerifier(secret)
		if err != nil {
			log.Error("jwt verifier init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		log.Info("auth ready", map[string]any{"mode": "jwt"})
		return v
	}

	baseURL := strings.TrimSpace(os.Getenv("PORTARIA_BASE_URL"))
	apiKey := strings.TrimSpace(os.Getenv("PORTARIA_API_KEY"))
	if baseURL != "" && apiKey != "" {
		client, err := portaria.NewClient(portaria.Config{
			BaseURL: baseURL,
			APIKey:  apiKey,
		})
		if err != nil {
			log.Error("portaria client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		log.Info("auth ready", map[string]any{"mode": "portaria"})
		return portaria.NewVerifier(client)
	}

	log.Warn("auth running in dev mode (X-Debug-User-ID)", nil)
	return nil
}

// buildResolver arma el resolver de features si hay config de planes.
// Sin config devuelve nil y los handlers permiten todo.
func buildResolver(log logger.Logger) capabilities.CapabilitiesResolver {
	baseURL := strings.TrimSpace(os.Getenv("PLANS_BASE_URL"))
	apiKey := strings.TrimSpace(os.Getenv("PLANS_API_KEY"))
	if baseURL == "" || apiKey == "" {
		return nil
	}

	client, err := plansfeatures.NewClient(plansfeatures.Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
	})
	if err != nil {
		log.Error("plans-features client init failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	log.Info("plans-features ready", nil)
	return plansfeatures.NewResolver(client)
}
