package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/manosbatsis/bw-sometime/internal/auth"
	"github.com/manosbatsis/bw-sometime/internal/config"
	"github.com/manosbatsis/bw-sometime/internal/directory"
	"github.com/manosbatsis/bw-sometime/internal/reminder"
	"github.com/manosbatsis/bw-sometime/pkg/vcard"

	"github.com/rs/zerolog"
)

type Handlers struct {
	cfg       *config.Config
	dir       directory.Directory
	reminders *reminder.Service
	store     reminder.Store
	logger    zerolog.Logger
}

func NewHandlers(cfg *config.Config, dir directory.Directory, svc *reminder.Service, store reminder.Store, logger zerolog.Logger) *Handlers {
	return &Handlers{cfg: cfg, dir: dir, reminders: svc, store: store, logger: logger}
}

// ownerContext returns the authenticated principal's account when the
// caller asked for owner scoping, nil otherwise.
func ownerContext(r *http.Request) directory.Account {
	if r.URL.Query().Get("mine") != "true" {
		return nil
	}
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok || p.Account == nil {
		return nil
	}
	return p.Account
}

func (h *Handlers) SearchDelegates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	results, err := h.dir.SearchDelegates(r.Context(), q, ownerContext(r))
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	out := make([]delegateJSON, 0, len(results))
	for _, d := range results {
		out = append(out, toDelegateJSON(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) DelegateByName(w http.ResponseWriter, r *http.Request) {
	d, err := h.dir.DelegateByDisplayName(r.Context(), r.PathValue("name"), ownerContext(r))
	h.writeDelegate(w, d, err)
}

func (h *Handlers) DelegateByID(w http.ResponseWriter, r *http.Request) {
	d, err := h.dir.DelegateByUniqueID(r.Context(), r.PathValue("id"), ownerContext(r))
	h.writeDelegate(w, d, err)
}

func (h *Handlers) DelegateByAttr(w http.ResponseWriter, r *http.Request) {
	d, err := h.dir.DelegateByAttr(r.Context(), r.PathValue("attr"), r.PathValue("value"))
	h.writeDelegate(w, d, err)
}

func (h *Handlers) DelegateVCard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dir.DelegateByUniqueID(r.Context(), r.PathValue("id"), nil)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "delegate not found")
		return
	}
	card, err := vcard.FromAccount(d)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(card)
}

func (h *Handlers) PersonByUsername(w http.ResponseWriter, r *http.Request) {
	p, err := h.dir.PersonByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	writeJSON(w, http.StatusOK, toPersonJSON(p))
}

func (h *Handlers) SearchPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	results, err := h.dir.SearchPeople(r.Context(), q)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	out := make([]personJSON, 0, len(results))
	for _, p := range results {
		out = append(out, toPersonJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.RecipientUsername == "" || req.EventData == "" {
		writeError(w, http.StatusBadRequest, "recipientUsername and eventData are required")
		return
	}
	recipient, err := h.dir.PersonByUsername(r.Context(), req.RecipientUsername)
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	if recipient == nil {
		writeError(w, http.StatusNotFound, "recipient not found")
		return
	}
	lead := time.Duration(req.LeadMinutes) * time.Minute
	created, err := h.reminders.ScheduleForEvent(r.Context(), req.OwnerID, recipient, []byte(req.EventData), lead)
	if err != nil {
		if errors.Is(err, reminder.ErrMissingIdentifier) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]reminderJSON, 0, len(created))
	for _, c := range created {
		out = append(out, toReminderJSON(c))
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed reminder id")
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.URL.Query().Get("ownerId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed ownerId")
		return
	}
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed start")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed end")
		return
	}
	results, err := h.store.ListForBlock(r.Context(), ownerID, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]reminderJSON, 0, len(results))
	for _, res := range results {
		out = append(out, toReminderJSON(res))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) writeDelegate(w http.ResponseWriter, d *directory.DelegateAccount, err error) {
	if err != nil {
		h.writeDirectoryError(w, err)
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "delegate not found")
		return
	}
	writeJSON(w, http.StatusOK, toDelegateJSON(d))
}

func (h *Handlers) writeDirectoryError(w http.ResponseWriter, err error) {
	if errors.Is(err, directory.ErrAmbiguousResult) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.logger.Error().Err(err).Msg("directory request failed")
	writeError(w, http.StatusBadGateway, "directory unavailable")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}
