package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ewms/internal/api"
	"ewms/internal/config"
	"ewms/internal/statedb"
	"ewms/internal/ward"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/beds", srv.handleBeds)
	mux.HandleFunc("GET /api/beds/empty", srv.handleEmptyBeds)
	mux.HandleFunc("POST /api/beds/{id}/admit", srv.handleAdmit)
	mux.HandleFunc("POST /api/beds/{id}/discharge", srv.handleDischarge)
	mux.HandleFunc("POST /api/beds/{id}/transfer", srv.handleTransfer)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", slog.String("error", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:     st.Running,
		PID:         st.PID,
		TotalBeds:   st.TotalBeds,
		Occupied:    st.Occupied,
		Empty:       st.Empty,
		SyncStatus:  st.SyncStatus,
		OutboxDepth: st.OutboxDepth,
		StateDBPath: st.StateDBPath,
	})
}

func (s *apiServer) handleBeds(w http.ResponseWriter, r *http.Request) {
	beds := s.daemon.Store().Beds()
	s.writeJSON(w, http.StatusOK, api.BedsResponse{Beds: api.FromBeds(beds, time.Now())})
}

func (s *apiServer) handleEmptyBeds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.EmptyBedsResponse{BedIDs: s.daemon.Store().EmptyBeds()})
}

func (s *apiServer) handleAdmit(w http.ResponseWriter, r *http.Request) {
	bedID, ok := s.bedID(w, r)
	if !ok {
		return
	}
	var req api.AdmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := s.daemon.Store().Admit(r.Context(), bedID, ward.Admission{
		Name:      req.Name,
		MRN:       req.MRN,
		Diagnosis: req.Diagnosis,
	})
	if err != nil && !statedb.IsPersistence(err) {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.BedResponse{
		Bed:     s.bedView(bedID),
		Warning: warningFrom(err),
	})
}

func (s *apiServer) handleDischarge(w http.ResponseWriter, r *http.Request) {
	bedID, ok := s.bedID(w, r)
	if !ok {
		return
	}

	result, err := s.daemon.Store().Discharge(r.Context(), bedID)
	if err != nil && !statedb.IsPersistence(err) {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DischargeResponse{
		Patient:  api.FromPatient(result.Patient),
		Duration: result.Elapsed,
		Warning:  warningFrom(err),
	})
}

func (s *apiServer) handleTransfer(w http.ResponseWriter, r *http.Request) {
	bedID, ok := s.bedID(w, r)
	if !ok {
		return
	}
	var req api.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := s.daemon.Store().Transfer(r.Context(), bedID, req.To)
	if err != nil && !statedb.IsPersistence(err) {
		s.writeOpError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.BedResponse{
		Bed:     s.bedView(req.To),
		Warning: warningFrom(err),
	})
}

func (s *apiServer) bedID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		s.writeError(w, http.StatusBadRequest, "bed id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *apiServer) bedView(bedID int) api.BedView {
	beds := s.daemon.Store().Beds()
	return api.FromBed(beds[bedID-1], time.Now())
}

func (s *apiServer) writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ward.ErrNoSuchBed):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ward.ErrInvalidAdmission):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case ward.IsInvalidState(err):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode api response", slog.String("error", err.Error()))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

// warningFrom surfaces a persistence failure on an otherwise applied
// transition without failing the request.
func warningFrom(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
