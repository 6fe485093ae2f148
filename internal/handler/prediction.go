// Package handler exposes the HTTP endpoints of the prediction service.
package handler

import (
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-medicine-box/internal/middleware"
	"github.com/iliyamo/smart-medicine-box/internal/model"
	"github.com/iliyamo/smart-medicine-box/internal/service"
)

const serviceName = "Smart Medicine Box AI API"

// PredictionHandler serves the metadata, health and prediction endpoints.
type PredictionHandler struct {
	Svc          *service.Service
	MaxBodyBytes int64
}

// NewPredictionHandler panics when svc is nil.
func NewPredictionHandler(svc *service.Service, maxBodyBytes int64) *PredictionHandler {
	if svc == nil {
		panic("nil service passed to NewPredictionHandler")
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &PredictionHandler{Svc: svc, MaxBodyBytes: maxBodyBytes}
}

type rootResp struct {
	Message            string   `json:"message"`
	Status             string   `json:"status"`
	ModelsLoaded       bool     `json:"models_loaded"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

type healthResp struct {
	Status               string             `json:"status"`
	Message              string             `json:"message,omitempty"`
	ModelsStatus         string             `json:"models_status"`
	AvailableTimePeriods []model.TimePeriod `json:"available_time_periods"`
}

type routeInfo struct {
	Endpoint string   `json:"endpoint"`
	Methods  []string `json:"methods"`
	Route    string   `json:"route"`
}

// Root returns service metadata.
func (h *PredictionHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResp{
		Message:            serviceName,
		Status:             "running",
		ModelsLoaded:       h.Svc.Registry().Loaded(),
		AvailableEndpoints: []string{"/health", "/predict", "/routes"},
	})
}

// Health reports whether models were loaded. The process itself is
// always reported healthy; models_status carries the degraded state.
func (h *PredictionHandler) Health(c echo.Context) error {
	reg := h.Svc.Registry()
	status := "loaded"
	if !reg.Loaded() {
		status = "failed_to_load"
	}
	return c.JSON(http.StatusOK, healthResp{
		Status:               "healthy",
		Message:              "Service is operational",
		ModelsStatus:         status,
		AvailableTimePeriods: reg.Periods(),
	})
}

// Routes lists the registered routes, one entry per path and endpoint.
func (h *PredictionHandler) Routes(c echo.Context) error {
	byKey := map[string]*routeInfo{}
	for _, r := range c.Echo().Routes() {
		key := r.Path + " " + r.Name
		info, ok := byKey[key]
		if !ok {
			info = &routeInfo{Endpoint: r.Name, Route: r.Path}
			byKey[key] = info
		}
		info.Methods = append(info.Methods, r.Method)
	}
	out := make([]routeInfo, 0, len(byKey))
	for _, info := range byKey {
		sort.Strings(info.Methods)
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return c.JSON(http.StatusOK, echo.Map{"routes": out})
}

// Predict validates the body and returns a PredictionResult.
func (h *PredictionHandler) Predict(c echo.Context) error {
	if !h.Svc.Registry().Loaded() {
		return writeError(c, service.ErrServiceUnavailable)
	}
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, h.MaxBodyBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read request body"})
	}
	if int64(len(body)) > h.MaxBodyBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Request body too large"})
	}

	meta := service.Meta{
		RequestID: middleware.RequestID(c),
		DeviceID:  middleware.DeviceID(c),
	}
	res, err := h.Svc.Handle(c.Request().Context(), body, meta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// writeError maps the service error taxonomy onto status codes. Only
// messages meant for clients are echoed back.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	var pe *service.PredictionError
	switch {
	case errors.Is(err, service.ErrServiceUnavailable):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Models not loaded. Check server logs."})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Msg})
	case errors.As(err, &pe):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": pe.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Request processing error"})
	}
}
