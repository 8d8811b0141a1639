package main

import (
	"net/http"
	"strconv"

	"github.com/rastraverba/etl/internal/response"
	"github.com/rastraverba/etl/internal/store"
)

type GetRunsResponse = response.APIResponse[[]store.PipelineRun]

// @Summary		Get pipeline runs
// @Description	Get a list of the latest pipeline executions.
// @Tags			Runs
// @Produce		json
// @Param			limit	query		int						false	"Limit the number of results"	default(20)
// @Success		200		{object}	GetRunsResponse			"Successfully retrieved latest pipeline runs"
// @Failure		500		{object}	response.ErrorResponse	"Failed to get pipeline runs"
// @Router			/runs [get]
func (app *application) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	limitParam := r.URL.Query().Get("limit")
	limit := 20
	if limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil {
			limit = l
		}
	}

	ctx := r.Context()
	data, err := app.store.PipelineRuns.GetLatest(ctx, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get pipeline runs: "+err.Error())
		return
	}

	resp := &GetRunsResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest pipeline runs",
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
