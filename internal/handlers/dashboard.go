package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdash/internal/app"
)

type DashboardHandler struct {
	service *app.Service
	pages   *template.Template
}

func NewDashboardHandler(service *app.Service) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		pages:   parseTemplates(),
	}
}

// sessionHandler receives the resolved session explicitly instead of
// looking it up itself.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess app.Session)

func (h *DashboardHandler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r, h.service.Auth.SessionFromRequest(r))
	}
}

// requireSession answers 401 to unauthenticated callers of non-page routes.
func (h *DashboardHandler) requireSession(next sessionHandler) http.HandlerFunc {
	return h.withSession(func(w http.ResponseWriter, r *http.Request, sess app.Session) {
		if !sess.Authenticated {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r, sess)
	})
}

func (h *DashboardHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request, sess app.Session) {
	if sess.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, sess, "")
}

func (h *DashboardHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	sess, err := h.service.Auth.Login(r.Context(), r.PostForm.Get("password"))
	if errors.Is(err, app.ErrWrongPassword) {
		logger.Debug.Printf("Wrong dashboard password from %s", r.RemoteAddr)
		h.renderLogin(w, http.StatusUnauthorized, sess, "Wrong password.")
		return
	}
	if err != nil {
		logger.Error.Printf("Login failed: %v", err)
		http.Error(w, "Failed to open session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.service.Auth.Cookie(sess))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) HandleLogout(w http.ResponseWriter, r *http.Request, sess app.Session) {
	if err := h.service.Auth.Logout(r.Context(), sess); err != nil {
		logger.Error.Printf("Logout failed: %v", err)
	}
	http.SetCookie(w, h.service.Auth.ClearCookie())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request, sess app.Session) {
	if !sess.Authenticated {
		h.renderLogin(w, http.StatusOK, sess, "")
		return
	}

	snap, err := h.service.Cache.Get(r.Context())
	if err != nil {
		logger.Error.Printf("Failed to load submissions: %v", err)
		h.render(w, http.StatusBadGateway, "error.html", errorPage{
			Title:   dashboardTitle,
			Session: sess,
			Error:   "Failed to load submissions from the backend.",
		})
		return
	}

	query := r.URL.Query()
	page := buildDashboard(h.service, sess, snap, query.Get("q"), query.Get("student"))
	h.render(w, http.StatusOK, "dashboard.html", page)
}

func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request, sess app.Session) {
	if !sess.Authenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.service.Cache.Invalidate()
	logger.Info.Println("Snapshot refresh requested")

	target := "/"
	if q := r.FormValue("q"); q != "" {
		target += "?" + url.Values{"q": {q}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *DashboardHandler) renderLogin(w http.ResponseWriter, status int, sess app.Session, msg string) {
	h.render(w, status, "login.html", loginPage{
		Title:   "Teacher dashboard login",
		Session: sess,
		Error:   msg,
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error.Printf("Failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
