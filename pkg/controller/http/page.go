package http

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/resilio/pkg/controller/http/views"
	"github.com/secmon-lab/resilio/pkg/domain/model"
	"github.com/secmon-lab/resilio/pkg/domain/types"
	"github.com/secmon-lab/resilio/pkg/usecase"
	"github.com/starfederation/datastar-go/datastar"
)

// backScript navigates the browser to the previous page
const backScript = "window.history.back()"

// pageHandler serves the statistics page. The page state lives in a
// usecase.Session; the browser posts actions and receives re-rendered
// fragments over the session's SSE stream.
type pageHandler struct {
	sessions *usecase.SessionStore
	location *time.Location
}

func (h *pageHandler) props(session *usecase.Session) views.Props {
	return views.Props{
		SessionID: session.ID(),
		View:      session.View(),
		Location:  h.location,
	}
}

// open starts a session and renders the full page
func (h *pageHandler) open(w http.ResponseWriter, r *http.Request) {
	projectID := types.ProjectID(r.URL.Query().Get("projectID"))
	workflowID := types.WorkflowID(chi.URLParam(r, "workflowID"))

	session, err := h.sessions.Create(r.Context(), projectID, workflowID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Page(h.props(session)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *pageHandler) session(r *http.Request) (*usecase.Session, error) {
	return h.sessions.Get(types.SessionID(chi.URLParam(r, "sessionID")))
}

// updates is the long-lived SSE stream of a session. The current state is
// patched on connect and after every handled event.
func (h *pageHandler) updates(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := session.Subscribe()
	defer session.Unsubscribe(updates)

	h.patch(sse, session)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.Done():
			return
		case <-session.Dismissed():
			if err := sse.ExecuteScript(backScript); err != nil {
				ctxlog.From(ctx).Warn("failed to send back navigation", "error", err)
			}
			h.sessions.Close(session.ID())
			return
		case <-updates:
			h.patch(sse, session)
		}
	}
}

func (h *pageHandler) patch(sse *datastar.ServerSentEventGenerator, session *usecase.Session) {
	if err := sse.PatchElementTempl(views.Stats(h.props(session))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// send posts ev to the session of the request
func (h *pageHandler) send(w http.ResponseWriter, r *http.Request, ev func(session *usecase.Session) (usecase.Event, error)) {
	session, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := ev(session)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !session.Send(event) {
		writeError(w, r, goerr.Wrap(model.ErrSessionNotFound, "session has stopped",
			goerr.V("sessionID", session.ID())))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *pageHandler) clickBin(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(session *usecase.Session) (usecase.Event, error) {
		query := r.URL.Query()
		raw := query.Get("index")
		index, err := strconv.Atoi(raw)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid bin index",
				goerr.V("index", raw),
				goerr.T(model.ErrTagValidation))
		}
		rawYear := query.Get("year")
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid bin year",
				goerr.V("year", rawYear),
				goerr.T(model.ErrTagValidation))
		}

		view := session.View()
		if year != view.Year {
			return nil, goerr.Wrap(model.ErrStaleHeatmap, "bin was clicked on another year",
				goerr.V("year", year),
				goerr.V("current", view.Year))
		}

		bins := view.Bins
		if index < 0 || index >= len(bins) {
			return nil, goerr.New("bin index out of range",
				goerr.V("index", index),
				goerr.V("bins", len(bins)),
				goerr.T(model.ErrTagValidation))
		}
		bin := bins[index]
		return usecase.BinClicked{Bin: &bin}, nil
	})
}

func (h *pageHandler) deselect(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(*usecase.Session) (usecase.Event, error) {
		return usecase.BinClicked{}, nil
	})
}

type yearSignals struct {
	Year json.Number `json:"year"`
}

func (h *pageHandler) changeYear(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(session *usecase.Session) (usecase.Event, error) {
		var signals yearSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return nil, goerr.Wrap(err, "failed to read signals", goerr.T(model.ErrTagValidation))
		}
		year, err := signals.Year.Int64()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid year signal",
				goerr.V("year", signals.Year),
				goerr.T(model.ErrTagValidation))
		}
		if !slices.Contains(session.View().YearOptions, int(year)) {
			return nil, goerr.Wrap(model.ErrYearOutOfRange, "year is not selectable",
				goerr.V("year", year),
				goerr.T(model.ErrTagValidation))
		}
		return usecase.YearChanged{Year: int(year)}, nil
	})
}

func (h *pageHandler) openTable(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(*usecase.Session) (usecase.Event, error) {
		return usecase.TableOpened{}, nil
	})
}

func (h *pageHandler) closeTable(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(*usecase.Session) (usecase.Event, error) {
		return usecase.TableClosed{}, nil
	})
}

func (h *pageHandler) acknowledge(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, func(*usecase.Session) (usecase.Event, error) {
		return usecase.NoRunsAcknowledged{}, nil
	})
}
