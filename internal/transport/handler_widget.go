package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mosaiq/mosaiq/internal/interaction"
	"github.com/mosaiq/mosaiq/model"
)

func handleGetWidgetData(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := svc.WidgetData(r.Context(), chi.URLParam(r, "widgetId"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func handleDrill(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interaction.DrillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		resp, err := svc.Drill(r.Context(), chi.URLParam(r, "widgetId"), req)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func handleSelect(svc *interaction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interaction.SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		resp, err := svc.Select(r.Context(), chi.URLParam(r, "widgetId"), req)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
