package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/jsontree/pkg/buildinfo"
	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/search"
	"github.com/matzehuels/jsontree/pkg/workspace"
)

//go:embed static/index.html
var indexHTML []byte

// maxBodySize bounds request bodies: one document plus its JSON envelope.
const maxBodySize = apperrors.MaxDocumentSize + 64<<10

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
	State   *stateResponse `json:"state,omitempty"`
}

// stateResponse mirrors [workspace.State] for the page.
type stateResponse = workspace.State

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.State())
}

type generateRequest struct {
	JSON string `json:"json"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.ws.Generate(r.Context(), req.JSON); err != nil {
		st := s.ws.State()
		writeJSON(w, statusFor(err), errorResponse{
			Code:    apperrors.GetCode(err),
			Message: st.Message,
			State:   &st,
		})
		return
	}
	writeJSON(w, http.StatusOK, s.ws.State())
}

type searchRequest struct {
	Path string `json:"path"`
}

type searchResponse struct {
	Message string        `json:"message"`
	NodeID  string        `json:"node_id"`
	Path    string        `json:"path"`
	Focus   search.Point  `json:"focus"`
	State   stateResponse `json:"state"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.ws.Search(req.Path)
	if err != nil {
		writeError(w, err, s.ws.Message())
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Message: s.ws.Message(),
		NodeID:  res.Node.ID,
		Path:    res.Node.Path,
		Focus:   res.Focus,
		State:   s.ws.State(),
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.ws.Clear()
	writeJSON(w, http.StatusOK, s.ws.State())
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Theme render.Theme `json:"theme"`
}

// handleTheme sets the theme named in the body, or toggles it when the body
// names none.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	if req.Theme == "" {
		writeJSON(w, http.StatusOK, themeResponse{Theme: s.ws.ToggleTheme()})
		return
	}
	if err := s.ws.SetTheme(req.Theme); err != nil {
		writeError(w, err, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.ws.Theme()})
}

type copyRequest struct {
	ID string `json:"id"`
}

type copyResponse struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req copyRequest
	if !s.decode(w, r, &req) {
		return
	}
	path, err := s.ws.CopyPath(r.Context(), req.ID)
	if err != nil {
		writeError(w, err, s.ws.Message())
		return
	}
	writeJSON(w, http.StatusOK, copyResponse{Path: path, Message: s.ws.Message()})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.ws.SVG())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err, apperrors.UserMessage(err))
		return
	}

	var res workspace.ExportResult
	select {
	case res = <-s.ws.Export(r.Context(), format):
	case <-r.Context().Done():
		return
	}
	if res.Err != nil {
		writeError(w, res.Err, res.Message)
		return
	}
	if err := apperrors.ValidateOutputFilename(res.Filename); err != nil {
		writeError(w, err, apperrors.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("X-Status-Message", res.Message)
	_, _ = w.Write(res.Data)
}

// decode reads a JSON request body into v, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil && err != io.EOF {
		code := apperrors.ErrCodeInvalidInput
		status := http.StatusBadRequest
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			code, status = apperrors.ErrCodeInputTooLarge, http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Code: code, Message: "bad request body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	code := apperrors.GetCode(err)
	switch code {
	case apperrors.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.ErrCodeNoMatch, apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNothingToExport:
		return http.StatusConflict
	}
	if code.UserFixable() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error, message string) {
	writeJSON(w, statusFor(err), errorResponse{Code: apperrors.GetCode(err), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
