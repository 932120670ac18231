package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
	"github.com/aussiebroadwan/checkin/pkg/httpx"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
)

type AttendeesHandler struct {
	RegistrationService *service.RegistrationService
	AttendeeService     *service.AttendeeService
}

// HandleRegister godoc
//
//	@Summary		Register an attendee
//	@Description	Creates an attendee and issues the QR payload they present at the door.
//	@Tags			Attendees
//	@Accept			json
//	@Produce		json
//	@Param			request	body		checkinsdk.RegisterRequest	true	"Attendee details"
//	@Success		201		{object}	checkinsdk.Attendee
//	@Failure		400		{object}	httpx.ErrorBody	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/attendees [post].
func (h *AttendeesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkinsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	a, err := h.RegistrationService.Register(ctx, service.RegisterRequest{
		Name:          req.Name,
		Phone:         req.Phone,
		PaymentStatus: req.PaymentStatus,
	})
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, toAttendee(a))
	case errors.Is(err, service.ErrInvalidRegistration):
		httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, checkinsdk.ErrorCodeServerError, "Failed to register attendee")
	}
}

// HandleList godoc
//
//	@Summary		List attendees
//	@Description	Lists attendees newest first. q filters by name (case-insensitive) or phone.
//	@Tags			Attendees
//	@Produce		json
//	@Param			q	query		string	false	"Search by name or phone"
//	@Success		200	{object}	checkinsdk.ListAttendeesResponse
//	@Failure		500	{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/attendees [get].
func (h *AttendeesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attendees, err := h.AttendeeService.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list attendees", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, checkinsdk.ErrorCodeServerError, "Failed to list attendees")
		return
	}

	resp := checkinsdk.ListAttendeesResponse{
		Attendees: make([]checkinsdk.Attendee, 0, len(attendees)),
		Count:     len(attendees),
	}
	for _, a := range attendees {
		resp.Attendees = append(resp.Attendees, toAttendee(a))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary	Get an attendee
//	@Tags		Attendees
//	@Produce	json
//	@Param		id	path		string	true	"Attendee ID"
//	@Success	200	{object}	checkinsdk.Attendee
//	@Failure	404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/attendees/{id} [get].
func (h *AttendeesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.AttendeeService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAttendee(a))
}

// HandleQR godoc
//
//	@Summary		Download an attendee's QR code
//	@Description	Renders the stored payload as a PNG, served as an attachment named qr_<name>.png.
//	@Tags			Attendees
//	@Produce		png
//	@Param			id		path	string	true	"Attendee ID"
//	@Param			size	query	int		false	"Image size in pixels (64-1024)"
//	@Success		200
//	@Failure		404	{object}	httpx.ErrorBody	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/attendees/{id}/qr.png [get].
func (h *AttendeesHandler) HandleQR(w http.ResponseWriter, r *http.Request) {
	size := qrx.DefaultPNGSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 1024 {
			httpx.WriteError(w, http.StatusBadRequest, checkinsdk.ErrorCodeInvalidRequest, "size must be between 64 and 1024")
			return
		}
		size = n
	}

	img, filename, err := h.AttendeeService.QRImage(r.Context(), r.PathValue("id"), size)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// HandleStats godoc
//
//	@Summary	Attendance statistics
//	@Tags		Attendees
//	@Produce	json
//	@Success	200	{object}	checkinsdk.StatsResponse
//	@Failure	500	{object}	httpx.ErrorBody	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/stats [get].
func (h *AttendeesHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.AttendeeService.Stats(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to count attendees", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, checkinsdk.ErrorCodeServerError, "Failed to load stats")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, checkinsdk.StatsResponse{
		Total:            stats.Total,
		CheckedIn:        stats.CheckedIn,
		Paid:             stats.Paid,
		CheckedInPercent: stats.CheckedInPercent,
		PaidPercent:      stats.PaidPercent,
	})
}

func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, checkinsdk.ErrorCodeNotFound, "Attendee not found")
		return
	}
	slogx.FromContext(r.Context()).Error("failed to load attendee", slog.Any("error", err))
	httpx.WriteError(w, http.StatusInternalServerError, checkinsdk.ErrorCodeServerError, "Failed to load attendee")
}
