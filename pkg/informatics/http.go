package informatics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/biosmart-lab/informatics/pkg/clinical"
	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/common/models"
	"github.com/biosmart-lab/informatics/pkg/dashboard"
	"github.com/biosmart-lab/informatics/pkg/fhir"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
	"github.com/gorilla/mux"
)

var errMissingPatientID = errors.New("patient_id is required")

type HTTPHandler struct {
	service *Service
	maxBody int64
}

type CodesResponse struct {
	Systems []string           `json:"systems"`
	Codes   []terminology.Code `json:"codes"`
}

type AssessmentsResponse struct {
	Items []AssessmentLog `json:"items"`
}

type RenderRequest struct {
	State  dashboard.State   `json:"state"`
	Action *dashboard.Action `json:"action,omitempty"`
}

type RenderResponse struct {
	State dashboard.State `json:"state"`
	View  dashboard.View  `json:"view"`
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/risk/score", h.handleScore).Methods(http.MethodPost)
	r.HandleFunc("/nlp/extract", h.handleExtract).Methods(http.MethodPost)
	r.HandleFunc("/codes", h.handleCodes).Methods(http.MethodGet)
	r.HandleFunc("/codes/{code}", h.handleCode).Methods(http.MethodGet)
	r.HandleFunc("/population", h.handlePopulation).Methods(http.MethodGet)
	r.HandleFunc("/assessments", h.handleAssessments).Methods(http.MethodGet)
	r.HandleFunc("/fhir/risk-assessment", h.handleFHIRRiskAssessment).Methods(http.MethodPost)
	r.HandleFunc("/fhir/conditions", h.handleFHIRConditions).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/render", h.handleRender).Methods(http.MethodPost)
}

func (h *HTTPHandler) handleScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRiskRequest
	if !h.decode(w, r, &req) {
		return
	}

	assessment, err := h.service.ScoreRisk(r.Context(), risk.VitalsRecord{
		Age:              req.Age,
		Glucose:          req.Glucose,
		ConditionHistory: req.Conditions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (h *HTTPHandler) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.ExtractEntities(r.Context(), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) handleCodes(w http.ResponseWriter, r *http.Request) {
	dict := h.service.Dictionary()
	writeJSON(w, http.StatusOK, CodesResponse{
		Systems: dict.Systems(),
		Codes:   dict.BySystem(r.URL.Query().Get("system")),
	})
}

func (h *HTTPHandler) handleCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.Dictionary().Get(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, code)
}

func (h *HTTPHandler) handlePopulation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, clinical.Stratify(clinical.SampleCohort(), h.service.Dictionary()))
}

func (h *HTTPHandler) handleAssessments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = n
	}

	items, err := h.service.RecentAssessments(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []AssessmentLog{}
	}
	writeJSON(w, http.StatusOK, AssessmentsResponse{Items: items})
}

func (h *HTTPHandler) handleFHIRRiskAssessment(w http.ResponseWriter, r *http.Request) {
	var req models.FHIRRiskAssessmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: errMissingPatientID.Error()})
		return
	}

	assessment, err := h.service.ScoreRisk(r.Context(), risk.VitalsRecord{
		Age:              req.Age,
		Glucose:          req.Glucose,
		ConditionHistory: req.Conditions,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeFHIR(w, fhir.NewRiskAssessment(assessment, fhir.PatientReference(req.PatientID)))
}

func (h *HTTPHandler) handleFHIRConditions(w http.ResponseWriter, r *http.Request) {
	var req models.FHIRConditionsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: errMissingPatientID.Error()})
		return
	}

	result, err := h.service.ExtractEntities(r.Context(), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.service.now()
	conditions := fhir.NewConditions(result.Entities, fhir.PatientReference(req.PatientID), now)
	resources := make([]interface{}, 0, len(conditions))
	for _, c := range conditions {
		resources = append(resources, c)
	}
	bundle, err := fhir.NewCollectionBundle(resources, now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeFHIR(w, bundle)
}

func (h *HTTPHandler) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !h.decode(w, r, &req) {
		return
	}

	state := req.State.Normalize()
	if err := state.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if req.Action != nil {
		next, err := dashboard.Reduce(r.Context(), h.service, state, *req.Action)
		if err != nil {
			writeError(w, err)
			return
		}
		state = next
	}
	writeJSON(w, http.StatusOK, RenderResponse{
		State: state,
		View:  dashboard.Render(state, h.service.Dictionary()),
	})
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case risk.IsValidationError(err),
		errors.Is(err, dashboard.ErrUnknownAction),
		errors.Is(err, dashboard.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, terminology.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuditDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Error("failed to write json response")
	}
}

func writeFHIR(w http.ResponseWriter, resource interface{}) {
	w.Header().Set("Content-Type", "application/fhir+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resource); err != nil {
		logger.Log.WithError(err).Error("failed to write fhir response")
	}
}
