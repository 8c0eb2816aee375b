package controllers

import (
	"net/http"
	"strconv"

	"github.com/mesalivre/pos-backend/api/responses"
	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/internal/session"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

type floorSnapshotResponse struct {
	Version uint64              `json:"version"`
	Changed bool                `json:"changed"`
	Tables  []floorUnitResponse `json:"tables,omitempty"`
	Tabs    []floorUnitResponse `json:"tabs,omitempty"`
}

type floorUnitResponse struct {
	unitKeyResponse
	Number        int     `json:"number"`
	Status        string  `json:"status"`
	Capacity      *int    `json:"capacity,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	ReadyItems    int     `json:"ready_items"`
}

func newFloorUnitResponse(unit floor.Unit) floorUnitResponse {
	return floorUnitResponse{
		unitKeyResponse: unitKeyResponse{Kind: string(unit.Key.Kind), ID: unit.Key.ID},
		Number:          unit.Number,
		Status:          string(unit.Status),
		Capacity:        unit.Capacity,
		CustomerName:    unit.CustomerName,
		CustomerPhone:   unit.CustomerPhone,
		ReadyItems:      unit.ReadyItems,
	}
}

// FloorSnapshot returns the rendered floor for the session's restaurant.
// Clients pass their last seen version; an unchanged floor returns only
// the version so idle terminals stay cheap.
func FloorSnapshot(manager *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := terminalFrom(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registry := manager.Registry(term.restaurantID)
		since, _ := strconv.ParseUint(r.URL.Query().Get("since"), 10, 64)
		if since > 0 && registry.Version() == since {
			responses.WriteSuccess(w, floorSnapshotResponse{Version: since, Changed: false})
			return
		}

		snap := registry.Snapshot()
		resp := floorSnapshotResponse{
			Version: snap.Version,
			Changed: true,
			Tables:  make([]floorUnitResponse, 0, len(snap.Tables)),
			Tabs:    make([]floorUnitResponse, 0, len(snap.Tabs)),
		}
		for _, unit := range snap.Tables {
			resp.Tables = append(resp.Tables, newFloorUnitResponse(unit))
		}
		for _, unit := range snap.Tabs {
			resp.Tabs = append(resp.Tabs, newFloorUnitResponse(unit))
		}
		responses.WriteSuccess(w, resp)
	}
}
