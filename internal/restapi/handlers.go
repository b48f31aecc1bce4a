package restapi

import (
	"errors"
	"net/http"

	"github.com/carris-ui/carris/internal/models"
	"github.com/carris-ui/carris/internal/utils"
	"github.com/carris-ui/carris/stopdb"
)

const defaultStopsLimit = 100

// validateIDParam extracts and validates the :id route parameter. On failure
// the 400 response has been written.
func (api *RestAPI) validateIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return "", false
	}
	return id, true
}

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewOKResponse(models.NewCurrentTimeData(api.now())))
}

func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q, err := utils.ValidateAndSanitizeQuery(params.Get("q"))
	fieldErrors := map[string][]string{}
	if err != nil {
		fieldErrors["q"] = append(fieldErrors["q"], err.Error())
	}

	limit, fieldErrors := utils.ParseIntParam(params, "limit", defaultStopsLimit, fieldErrors)
	if _, invalid := fieldErrors["limit"]; !invalid {
		if err := utils.ValidateLimit(limit); err != nil {
			fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if limit == 0 {
		limit = defaultStopsLimit
	}

	// One extra row tells whether the limit cut the list.
	stops, err := api.StopDB.SearchStops(r.Context(), q, limit+1)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	limitExceeded := len(stops) > limit
	if limitExceeded {
		stops = stops[:limit]
	}

	api.sendResponse(w, r, models.NewLimitedListResponse(stops, models.NewEmptyReferences(), limitExceeded))
}

func (api *RestAPI) stopHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.validateIDParam(w, r)
	if !ok {
		return
	}

	stop, err := api.StopDB.GetStop(r.Context(), id)
	if errors.Is(err, stopdb.ErrNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(stop, models.NewEmptyReferences()))
}

func (api *RestAPI) stopsForLineHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.validateIDParam(w, r)
	if !ok {
		return
	}

	stops, err := api.StopDB.StopsForLine(r.Context(), id)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(stops, models.NewEmptyReferences()))
}

func (api *RestAPI) arrivalsForStopHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.validateIDParam(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	rows, err := api.Board(ctx, id, api.now())
	if err != nil {
		api.upstreamErrorResponse(w, r, err)
		return
	}

	references := models.NewEmptyReferences()
	if stop, err := api.StopDB.GetStop(ctx, id); err == nil {
		references.Stops = append(references.Stops, stop)
	}

	entry := models.ArrivalsForStopEntry{StopID: id, Arrivals: rows}
	api.sendResponse(w, r, models.NewEntryResponse(entry, references))
}
