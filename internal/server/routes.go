package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/inspect"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/pipeline"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/schema"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// maxBody caps uploaded documents and command batches.
const maxBody = 16 << 20

var contentTypes = map[string]string{
	render.FormatJSON: "application/json",
	render.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG:  "image/svg+xml",
	render.FormatPDF:  "application/pdf",
	render.FormatPNG:  "image/png",
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Get("/state", s.handleState)
		r.Post("/commands", s.handleCommands)

		r.Get("/topology", s.handleExport)
		r.Put("/topology", s.handleReplace)
		r.Post("/topology/reset", s.handleReset)
		r.Post("/topology/reload", s.handleReload)
		r.Get("/diagnostics", s.handleDiagnostics)

		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Use(validNodeID)
			r.Get("/", s.handleInspect)
			r.Put("/position", s.handleMove)
			r.Post("/pin", s.handlePin)
			r.Delete("/pin", s.handleUnpin)
		})

		r.Post("/layout", s.handleLayout)
		r.Get("/render/{format}", s.handleRender)
		r.Get("/legend", s.handleLegend)
		r.Get("/schema", s.handleSchema)
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.withEngine(func(e *view.Engine) {
		writeJSON(w, http.StatusOK, e.Scene())
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withEngine(func(e *view.Engine) {
		writeJSON(w, http.StatusOK, e.State())
	})
}

// handleCommands applies a batch. On a failing command the error is
// returned and the engine is left as it was before the batch.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	var batch Batch
	if err := decodeBody(w, r, &batch); err != nil {
		writeError(w, err)
		return
	}
	cmds, err := batch.Commands()
	if err != nil {
		writeError(w, err)
		return
	}
	s.withEngine(func(e *view.Engine) {
		if err := e.Dispatch(cmds...); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e.Scene())
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.withEngine(func(e *view.Engine) {
		data, err := topology.MarshalExport(e.Topology())
		if err != nil {
			writeError(w, err)
			return
		}
		name := topology.ExportFilename(e.Topology())
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		writeRaw(w, http.StatusOK, "application/json", data)
	})
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if err := s.LoadDocument(r.Context(), data); err != nil {
		writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleScene(w, r)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.withEngine(func(e *view.Engine) {
		diags := e.Topology().Diagnostics
		if diags == nil {
			diags = []topology.Diagnostic{}
		}
		writeJSON(w, http.StatusOK, diags)
	})
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withEngine(func(e *view.Engine) {
		panel, err := inspect.Inspect(e, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, panel)
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := decodeBody(w, r, &pos); err != nil {
		writeError(w, err)
		return
	}
	s.nodeCommand(w, view.Move(chi.URLParam(r, "id"), pos.X, pos.Y))
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	s.nodeCommand(w, view.Pin(chi.URLParam(r, "id")))
}

func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	s.nodeCommand(w, view.Unpin(chi.URLParam(r, "id")))
}

func (s *Server) nodeCommand(w http.ResponseWriter, cmd view.Command) {
	s.withEngine(func(e *view.Engine) {
		if err := e.Dispatch(cmd); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e.Scene())
	})
}

// handleLayout reruns the layout, optionally with ?engine=grid|graphviz.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.options("")
	if name := r.URL.Query().Get("engine"); name != "" {
		if _, err := layout.NewAdapter(name); err != nil {
			writeError(w, err)
			return
		}
		opts.Engine = name
	}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	s.withEngine(func(e *view.Engine) {
		res, _, warn := s.runner.Layout(r.Context(), e, opts)
		if warn != nil {
			s.logger.Warn("layout fallback", "err", warn)
			w.Header().Set("X-Layout-Warning", errs.UserMessage(warn))
		}
		writeJSON(w, http.StatusOK, res)
	})
}

// handleRender renders the current view. Query flags: detailed,
// hide_filtered, legend, scale.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	q := r.URL.Query()
	opts := s.options("")
	opts.Formats = []string{format}
	opts.Detailed = q.Get("detailed") == "true"
	opts.HideFiltered = q.Get("hide_filtered") == "true"
	opts.Legend = q.Get("legend") == "true"
	if v := q.Get("scale"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.Scale = f
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	s.withEngine(func(e *view.Engine) {
		artifacts, err := pipeline.Render(r.Context(), e, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeRaw(w, http.StatusOK, contentTypes[format], artifacts[format])
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	s.withEngine(func(e *view.Engine) {
		writeJSON(w, http.StatusOK, e.Legend())
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, "application/schema+json", schema.Document())
}
