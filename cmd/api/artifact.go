package main

import (
	"net/http"
	"os"
	"path/filepath"
)

// @Summary		Download pipeline artifact
// @Description	Serves the parquet table produced by the latest pipeline run.
// @Tags			Runs
// @Produce		application/octet-stream
// @Success		200	{file}		binary
// @Failure		404	{object}	response.ErrorResponse	"No artifact has been produced yet"
// @Router			/artifact [get]
func (app *application) handleDownloadArtifact(w http.ResponseWriter, r *http.Request) {
	path := app.config.artifactPath

	if _, err := os.Stat(path); err != nil {
		writeJSONError(w, http.StatusNotFound, "no artifact has been produced yet")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}
