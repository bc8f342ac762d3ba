package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/core/task"
	"github.com/colonyops/dailyflow/internal/wire"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := task.ListLimit
	if raw := r.URL.Query().Get(wire.ParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, &task.ValidationError{Field: wire.ParamLimit, Message: "must be a positive integer"})
			return
		}
		limit = min(n, task.ListLimit)
	}

	if order := r.URL.Query().Get(wire.ParamOrder); order != "" && order != wire.ListOrder {
		s.writeError(w, r, &task.ValidationError{Field: wire.ParamOrder, Message: fmt.Sprintf("unsupported order %q", order)})
		return
	}

	tasks, err := s.repo.GetAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	resp := wire.ListResponse{Data: make([]wire.Record, 0, len(tasks)), Total: len(tasks)}
	for _, t := range tasks {
		resp.Data = append(resp.Data, wire.FromTask(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, r, ok := s.pathID(w, r)
	if !ok {
		return
	}

	t, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.DataResponse{Data: wire.FromTask(t)})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body wire.CreateFields
	if !s.decode(w, r, &body) {
		return
	}

	draft, err := task.ValidateDraft(body.ToDraft())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.repo.Create(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.DataResponse{Data: wire.FromTask(t)})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, r, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var body wire.PatchFields
	if !s.decode(w, r, &body) {
		return
	}

	patch, err := task.ValidatePatch(body.ToPatch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.repo.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.DataResponse{Data: wire.FromTask(t)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, r, ok := s.pathID(w, r)
	if !ok {
		return
	}

	deleted, err := s.repo.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := wire.DeleteResponse{Success: deleted}
	if !deleted {
		resp.Message = "task was not deleted"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, r, ok := s.pathID(w, r)
	if !ok {
		return
	}

	t, err := s.repo.ToggleComplete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.DataResponse{Data: wire.FromTask(t)})
}

func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var body wire.BulkUpdateRequest
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.IDs) == 0 {
		s.writeError(w, r, &task.ValidationError{Field: "ids", Message: "at least one id is required"})
		return
	}

	patch, err := task.ValidatePatch(body.Fields.ToPatch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	outcomes, err := s.repo.BulkUpdate(r.Context(), body.IDs, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse(outcomes))
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var body wire.BulkDeleteRequest
	if !s.decode(w, r, &body) {
		return
	}
	if len(body.IDs) == 0 {
		s.writeError(w, r, &task.ValidationError{Field: "ids", Message: "at least one id is required"})
		return
	}

	outcomes, err := s.repo.BulkDelete(r.Context(), body.IDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse(outcomes))
}

func bulkResponse(outcomes []task.Outcome) wire.BulkResponse {
	resp := wire.BulkResponse{Results: make([]wire.BulkResult, 0, len(outcomes))}
	for _, o := range outcomes {
		res := wire.BulkResult{ID: o.ID, Success: o.OK()}
		if o.OK() {
			if o.Task != nil {
				rec := wire.FromTask(*o.Task)
				res.Data = &rec
			}
		} else {
			res.Status, res.Message = errorStatus(o.Err)
		}
		resp.Results = append(resp.Results, res)
	}
	return resp
}

// pathID parses the {id} route variable and returns the request with the id
// attached to its context for logging.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, *http.Request, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, &task.ValidationError{Field: "id", Message: "must be a positive integer"})
		return 0, r, false
	}
	return id, r.WithContext(logging.WithTaskID(r.Context(), id)), true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, &task.ValidationError{Field: "body", Message: err.Error()})
		return false
	}
	return true
}

// errorStatus maps the task error taxonomy to an HTTP status and a message
// safe to return to clients.
func errorStatus(err error) (int, string) {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, task.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound, "task not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)

	body := wire.ErrorResponse{Message: msg}
	var verr *task.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
	}

	ev := s.log.Debug()
	if status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Ctx(r.Context()).Err(err).Int("status", status).Msg("request failed")

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
