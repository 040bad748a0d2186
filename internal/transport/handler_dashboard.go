package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosaiq/mosaiq/internal/interaction"
)

func handleNavigation(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, svc.Navigation(r.Context()))
	}
}

func handleGetDashboard(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		desc, err := svc.Describe(r.Context(), chi.URLParam(r, "dashboardId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, desc)
	}
}

func handleGetDashboardState(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.DashboardState(r.Context(), chi.URLParam(r, "dashboardId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, state)
	}
}

func handleClearFilters(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCrossFilters(r.Context(), chi.URLParam(r, "dashboardId")); err != nil {
			WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
