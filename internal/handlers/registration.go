package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
	"github.com/shrimpsizemoose/lagkaka/internal/artifacts"
	"github.com/shrimpsizemoose/lagkaka/internal/fault"
	"github.com/shrimpsizemoose/lagkaka/internal/models"
	"github.com/shrimpsizemoose/lagkaka/internal/registry"
)

const (
	maxRegistrationForm = 32 << 20 // 32 MiB across all identity documents
	artifactFieldPrefix = "artifact_"
)

type RegistrationHandler struct {
	service *app.Service
}

func NewRegistrationHandler(service *app.Service) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// HandleRegister accepts a multipart form: a "team" JSON part with the
// roster, mentor and representative, plus zero or more files named
// artifact_<slot> bound to roster slots.
func (h *RegistrationHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() { observe(r, start, status) }()

	if err := r.ParseMultipartForm(maxRegistrationForm); err != nil {
		logger.Error.Printf("Failed to parse registration form: %v", err)
		status = http.StatusBadRequest
		writeFault(w, fault.Validation(registry.CodeInvalidPayload, "expected a multipart form"))
		return
	}

	var req models.RegistrationRequest
	if err := json.Unmarshal([]byte(r.FormValue("team")), &req); err != nil {
		status = http.StatusBadRequest
		writeFault(w, fault.Validation(registry.CodeInvalidPayload, "team part is not valid JSON"))
		return
	}

	files, err := collectArtifacts(r)
	if err != nil {
		status = http.StatusBadRequest
		writeFault(w, fault.Validation(registry.CodeInvalidPayload, err.Error()))
		return
	}

	team, err := h.service.Registry.Register(r.Context(), &req, files)
	if err != nil {
		status = fault.HTTPStatus(err)
		writeFault(w, err)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"id":   team.ID,
		"name": team.Name,
	})
}

func (h *RegistrationHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	id, ok := pathID(r, "id")
	if !ok {
		status = http.StatusBadRequest
		http.Error(w, "Invalid team id", status)
		return
	}

	team, err := h.service.Store.GetTeam(r.Context(), id)
	if err != nil {
		status = http.StatusNotFound
		http.Error(w, "Team not found", status)
		return
	}

	roster, err := h.service.Store.ListRoster(r.Context(), id)
	if err != nil {
		logger.Error.Printf("Failed to fetch roster for team %d: %v", id, err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to fetch roster", status)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"team":   team,
		"roster": roster,
	})
}

func collectArtifacts(r *http.Request) (map[int]artifacts.Payload, error) {
	files := make(map[int]artifacts.Payload)
	if r.MultipartForm == nil {
		return files, nil
	}

	for field, headers := range r.MultipartForm.File {
		if !strings.HasPrefix(field, artifactFieldPrefix) || len(headers) == 0 {
			continue
		}
		slot, err := strconv.Atoi(strings.TrimPrefix(field, artifactFieldPrefix))
		if err != nil || slot < 0 || slot >= models.RosterSize {
			return nil, fmt.Errorf("field %q does not name a roster slot", field)
		}

		f, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %v", field, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %v", field, err)
		}

		files[slot] = artifacts.Payload{Filename: headers[0].Filename, Data: data}
	}

	return files, nil
}
