// Package server exposes the analysis pipeline over a small HTTP demo
// surface. This is prototyping plumbing, not a production serving stack.
package server

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agrosight-ai/agrosight/internal/diagnosis"
	"github.com/agrosight-ai/agrosight/internal/pipeline"
)

// maxUploadBytes caps multipart uploads at 10MB, plenty for one capture.
const maxUploadBytes = 10 << 20

// Server wraps the HTTP components around one analyzer.
type Server struct {
	mux      *http.ServeMux
	analyzer *pipeline.Analyzer
	log      *logrus.Logger
}

// New builds the server and registers its routes.
func New(analyzer *pipeline.Analyzer, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		mux:      http.NewServeMux(),
		analyzer: analyzer,
		log:      log,
	}
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	return s
}

// Handler returns the route mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// analyzeResponse is the JSON body for one analyzed upload.
type analyzeResponse struct {
	Diagnosis           diagnosis.Diagnosis   `json:"diagnosis"`
	Detections          []diagnosis.Detection `json:"detections"`
	MeanVegetationIndex float64               `json:"mean_vegetation_index"`
	ElapsedMs           int64                 `json:"elapsed_ms"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "failed to decode image", http.StatusBadRequest)
		return
	}

	res, err := s.analyzer.AnalyzeImage(r.Context(), img)
	if err != nil {
		s.log.WithError(err).WithField("filename", header.Filename).Error("analysis failed")
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	detections := res.Detections
	if detections == nil {
		detections = []diagnosis.Detection{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(analyzeResponse{
		Diagnosis:           res.Diagnosis,
		Detections:          detections,
		MeanVegetationIndex: res.MeanIndex,
		ElapsedMs:           res.Elapsed.Milliseconds(),
	}); err != nil {
		s.log.WithError(err).Error("failed to write analyze response")
	}
}
