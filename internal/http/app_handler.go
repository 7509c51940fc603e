package httpapi

import (
	"net/http"
	"strings"

	"silvercare/internal/domain"
	"silvercare/internal/sos"
	"silvercare/internal/view"

	"go.uber.org/zap"
)

// AppHandler drives the per-user companion sessions. Every action responds
// with the freshly rendered page.
type AppHandler struct {
	sessions *view.Sessions
	maxBody  int64
	logger   *zap.Logger
}

func NewAppHandler(sessions *view.Sessions, maxBody int64, logger *zap.Logger) *AppHandler {
	return &AppHandler{sessions: sessions, maxBody: maxBody, logger: logger}
}

type navigateRequest struct {
	Page string `json:"page"`
}

type coordsRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type locationRequest struct {
	coordsRequest
	Denied bool   `json:"denied"`
	Reason string `json:"reason,omitempty"`
}

type appChatRequest struct {
	Message string `json:"message"`
}

type appFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (req coordsRequest) coords() (*sos.Coordinates, error) {
	if req.Lat == nil && req.Lng == nil {
		return nil, nil
	}
	if req.Lat == nil || req.Lng == nil {
		return nil, domain.Validation("lat and lng must be given together")
	}
	return &sos.Coordinates{Lat: *req.Lat, Lng: *req.Lng}, nil
}

func (h *AppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segs := pathSegments(r.URL.Path, "/app/")
	if len(segs) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	userID, err := parseID(segs[0], "user_id")
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	app, err := h.sessions.Get(userID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	action := strings.Join(segs[1:], "/")

	if action == "" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.render(w, r, app)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch action {
	case "navigate":
		var req navigateRequest
		if err := readBodyJSON(r, h.maxBody, &req); err != nil {
			writeError(w, h.logger, r, err)
			return
		}
		err = app.Navigate(req.Page)
	case "theme":
		app.ToggleTheme()
	case "sos/activate":
		var req coordsRequest
		if err = readBodyJSON(r, h.maxBody, &req); err == nil {
			var c *sos.Coordinates
			if c, err = req.coords(); err == nil {
				app.ActivateSOS(c)
			}
		}
	case "sos/location":
		var req locationRequest
		if err = readBodyJSON(r, h.maxBody, &req); err == nil {
			err = h.reportLocation(app, req)
		}
	case "sos/acknowledge":
		app.AcknowledgeSOS()
	case "chat":
		var req appChatRequest
		if err = readBodyJSON(r, h.maxBody, &req); err == nil {
			err = app.SendChat(r.Context(), req.Message)
		}
	case "feedback":
		var req appFeedbackRequest
		if err = readBodyJSON(r, h.maxBody, &req); err == nil {
			err = app.SubmitFeedback(r.Context(), req.Rating, req.Comment)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	h.render(w, r, app)
}

func (h *AppHandler) reportLocation(app *view.App, req locationRequest) error {
	if req.Denied {
		app.DenyLocation(req.Reason)
		return nil
	}
	c, err := req.coords()
	if err != nil {
		return err
	}
	if c == nil {
		return domain.Validation("lat and lng are required unless denied")
	}
	app.ReportLocation(*c)
	return nil
}

func (h *AppHandler) render(w http.ResponseWriter, r *http.Request, app *view.App) {
	pv, err := app.Render(r.Context())
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}
