package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jyotish/pkg/buildinfo"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/jobs"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/render/aspectgraph"
)

// CacheHeader reports whether a response was served from the result cache.
const CacheHeader = "X-Cache"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"build":   buildinfo.Get(),
	})
}

// decodeOptions reads and validates the request body.
func (s *Server) decodeOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return opts, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body: %v", err)
	}
	opts.Logger = s.logger.With("request_id", chimiddleware.GetReqID(r.Context()))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	setCacheHeader(w, res.CacheInfo.Hit)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	compute, ok := s.sectionFuncs()[section]
	if !ok {
		writeError(w, s.logger, notFound("unknown chart section %q", section))
		return
	}
	opts, err := s.decodeOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	v, hit, err := compute(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, v)
}

type sectionFunc func(ctx context.Context, opts pipeline.Options) (any, bool, error)

func (s *Server) sectionFuncs() map[string]sectionFunc {
	rn := s.runner
	return map[string]sectionFunc{
		pipeline.SectionDivisional: func(ctx context.Context, o pipeline.Options) (any, bool, error) {
			v, hit, err := rn.DivisionalChartsWithCacheInfo(ctx, o)
			return v, hit, err
		},
		pipeline.SectionDasha: func(ctx context.Context, o pipeline.Options) (any, bool, error) {
			v, hit, err := rn.DashaWithCacheInfo(ctx, o)
			return v, hit, err
		},
		pipeline.SectionYogas: func(ctx context.Context, o pipeline.Options) (any, bool, error) {
			v, hit, err := rn.YogasWithCacheInfo(ctx, o)
			return v, hit, err
		},
		pipeline.SectionStrengths: func(ctx context.Context, o pipeline.Options) (any, bool, error) {
			v, hit, err := rn.StrengthsWithCacheInfo(ctx, o)
			return v, hit, err
		},
		pipeline.SectionPanchanga: func(ctx context.Context, o pipeline.Options) (any, bool, error) {
			v, hit, err := rn.PanchangaWithCacheInfo(ctx, o)
			return v, hit, err
		},
	}
}

var contentTypes = map[string]string{
	aspectgraph.FormatSVG: "image/svg+xml",
	aspectgraph.FormatPNG: "image/png",
	aspectgraph.FormatDOT: "text/vnd.graphviz",
}

func (s *Server) handleAspects(w http.ResponseWriter, r *http.Request) {
	ro := pipeline.RenderOptions{
		Format:   r.URL.Query().Get("format"),
		Detailed: r.URL.Query().Get("detailed") == "true",
	}
	if ro.Format == "" {
		ro.Format = aspectgraph.FormatSVG
	}
	if err := aspectgraph.ValidateFormat(ro.Format); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidOption, err, "%v", err))
		return
	}
	opts, err := s.decodeOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	out, hit, err := s.runner.RenderAspectsWithCacheInfo(r.Context(), opts, ro)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", contentTypes[ro.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// jobResponse is returned when a job is accepted.
type jobResponse struct {
	ID     string      `json:"id"`
	Status jobs.Status `json:"status"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	runner := s.runner
	id, err := s.queue.Submit(r.Context(), func(ctx context.Context) (any, error) {
		return runner.Execute(ctx, opts)
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/jobs/"+id)
	writeJSON(w, http.StatusAccepted, jobResponse{ID: id, Status: jobs.StatusPending})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.queue.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
