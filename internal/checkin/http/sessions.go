package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
	"github.com/aussiebroadwan/checkin/pkg/httpx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
)

// maxImageSize bounds uploaded QR photos.
const maxImageSize = 10 << 20

type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleCreate godoc
//
//	@Summary		Open a scan session
//	@Description	Opens a session with its own replay guard, ready to accept scans.
//	@Tags			Sessions
//	@Produce		json
//	@Success		201	{object}	checkinsdk.Session
//	@Failure		500	{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Create(r.Context())
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSession(view))
}

// HandleGet godoc
//
//	@Summary	Get a scan session
//	@Tags		Sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	checkinsdk.Session
//	@Failure	404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/sessions/{id} [get].
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(view))
}

// HandleDelete godoc
//
//	@Summary	End a scan session
//	@Tags		Sessions
//	@Param		id	path	string	true	"Session ID"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/sessions/{id} [delete].
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleScan godoc
//
//	@Summary		Submit a scanned code
//	@Description	Verifies decoded QR text. Only accepted while the session is scanning; during
//	@Description	cooldown the request is rejected with 409 busy.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"
//	@Param			request	body		checkinsdk.ScanRequest	true	"Decoded QR text"
//	@Success		200		{object}	checkinsdk.ScanResult
//	@Failure		400		{object}	httpx.ErrorBody	"error, error_description"
//	@Failure		404		{object}	httpx.ErrorBody	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sessions/{id}/scan [post].
func (h *SessionsHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req checkinsdk.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	res, err := h.SessionService.Scan(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toScanResult(res))
}

// HandleImage godoc
//
//	@Summary		Upload a QR code image
//	@Description	Decodes a PNG, JPEG or GIF and verifies the code found in it. The session
//	@Description	does not resume scanning on its own afterwards.
//	@Tags			Sessions
//	@Accept			mpfd
//	@Produce		json
//	@Param			id		path		string	true	"Session ID"
//	@Param			file	formData	file	true	"QR code image"
//	@Success		200		{object}	checkinsdk.ScanResult
//	@Failure		400		{object}	httpx.ErrorBody	"error, error_description"
//	@Failure		404		{object}	httpx.ErrorBody	"error, error_description"
//	@Failure		422		{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sessions/{id}/image [post].
func (h *SessionsHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "Failed to read upload")
		return
	}

	res, err := h.SessionService.SubmitImage(r.Context(), r.PathValue("id"), data)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toScanResult(res))
}

// HandleNext godoc
//
//	@Summary	Scan the next attendee
//	@Tags		Sessions
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	checkinsdk.Session
//	@Failure	404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/sessions/{id}/next [post].
func (h *SessionsHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(view))
}

// HandleRestart godoc
//
//	@Summary		Dismiss the result and restart scanning
//	@Description	Clears the displayed result and any security alert.
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	checkinsdk.Session
//	@Failure		404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/sessions/{id}/restart [post].
func (h *SessionsHandler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := h.SessionService.Restart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSession(view))
}

func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, scan.ErrClosed):
		httpx.WriteError(w, http.StatusNotFound, checkinsdk.ErrorCodeSessionNotFound, "Scan session not found")
	case errors.Is(err, scan.ErrBusy):
		httpx.WriteError(w, http.StatusConflict, checkinsdk.ErrorCodeBusy, "Station is not scanning; wait for the cooldown or call next")
	case errors.Is(err, scan.ErrNoCodeFound):
		httpx.WriteError(w, http.StatusUnprocessableEntity, checkinsdk.ErrorCodeNoCodeFound, "No QR code found in image")
	case errors.Is(err, scan.ErrNoImageDecoder):
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "Image upload is not enabled")
	default:
		slogx.FromContext(r.Context()).Error("scan session request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, checkinsdk.ErrorCodeServerError, "Internal server error")
	}
}
