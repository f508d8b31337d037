// Package chserver exposes a contracted hierarchy's distance query over
// HTTP: a thin host layer around contractor.Graph, not part of the core.
package chserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/lintang-b-s/chx/chlen"
	"github.com/lintang-b-s/chx/contractor"
	"github.com/lintang-b-s/chx/edgelist"
	"github.com/lintang-b-s/chx/graph"
)

// Hierarchy is the subset of contractor.Graph the HTTP layer needs.
type Hierarchy interface {
	Distance(s, t graph.Node) chlen.Length
}

// Handler serves distance queries over a fixed, already-contracted
// hierarchy and its label table.
type Handler struct {
	ch     Hierarchy
	labels *edgelist.Labels
	v      *validator.Validate
}

// NewHandler returns a Handler bound to an already-contracted hierarchy.
func NewHandler(ch *contractor.Graph, labels *edgelist.Labels) *Handler {
	return &Handler{ch: ch, labels: labels, v: validator.New()}
}

// Mount registers the distance-query route on r.
func (h *Handler) Mount(r chi.Router) {
	r.Route("/api/ch", func(r chi.Router) {
		r.Post("/distance", h.distance)
	})
}

// DistanceRequest is the POST body for a distance query, identifying
// nodes by their original string labels.
//
// @Description request body for a contraction hierarchy distance query
type DistanceRequest struct {
	Src string `json:"src" validate:"required"`
	Dst string `json:"dst" validate:"required"`
}

func (d *DistanceRequest) Bind(r *http.Request) error {
	if d.Src == "" || d.Dst == "" {
		return errors.New("src and dst are required")
	}
	return nil
}

// DistanceResponse reports a distance query's outcome.
//
// @Description response body for a contraction hierarchy distance query
type DistanceResponse struct {
	Src       string `json:"src"`
	Dst       string `json:"dst"`
	Reachable bool   `json:"reachable"`
	Distance  uint32 `json:"distance,omitempty"`
}

// distance
//
// @Summary   shortest-path distance between two labeled nodes
// @Description answers a point-to-point distance query over a precontracted hierarchy
// @Tags      ch
// @Param     body body DistanceRequest true "request body for a distance query"
// @Accept    application/json
// @Produce   application/json
// @Router    /ch/distance [post]
// @Success   200 {object} DistanceResponse
// @Failure   400 {object} errResponse
// @Failure   404 {object} errResponse
func (h *Handler) distance(w http.ResponseWriter, r *http.Request) {
	data := &DistanceRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}
	if err := h.v.Struct(data); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}

	src, ok := h.labels.Lookup(data.Src)
	if !ok {
		render.Render(w, r, errNotFound(errors.New("unknown src label "+data.Src)))
		return
	}
	dst, ok := h.labels.Lookup(data.Dst)
	if !ok {
		render.Render(w, r, errNotFound(errors.New("unknown dst label "+data.Dst)))
		return
	}

	d := h.ch.Distance(src, dst)
	resp := &DistanceResponse{Src: data.Src, Dst: data.Dst}
	if d != chlen.Infinity {
		resp.Reachable = true
		resp.Distance = uint32(d)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

type errResponse struct {
	Err            error  `json:"-"`
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status"`
	ErrorText      string `json:"error,omitempty"`
}

func (e *errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errInvalidRequest(err error) render.Renderer {
	return &errResponse{Err: err, HTTPStatusCode: http.StatusBadRequest, StatusText: "invalid request", ErrorText: err.Error()}
}

func errNotFound(err error) render.Renderer {
	return &errResponse{Err: err, HTTPStatusCode: http.StatusNotFound, StatusText: "not found", ErrorText: err.Error()}
}
