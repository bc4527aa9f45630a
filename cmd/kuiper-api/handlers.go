package main

import (
	"encoding/json"
	"net/http"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/kuiper"
	"github.com/kuiper-lang/kuiper/value"
)

type compileRequest struct {
	Source     string   `json:"source"`
	InputNames []string `json:"inputNames"`
}

type compileResponse struct {
	Printed    string   `json:"printed"`
	InputNames []string `json:"inputNames"`
}

type runRequest struct {
	Source     string            `json:"source"`
	InputNames []string          `json:"inputNames"`
	Inputs     []json.RawMessage `json:"inputs"`
}

type runResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
}

func compileHandler(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	expr, err := kuiper.Compile(req.Source, req.InputNames, kuiper.Options{})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, compileResponse{Printed: expr.String(), InputNames: expr.InputNames()})
}

func runHandler(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	expr, err := kuiper.Compile(req.Source, req.InputNames, kuiper.Options{})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	inputs := make([]value.Value, len(req.Inputs))
	for i, raw := range req.Inputs {
		v, err := value.ParseJSON(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		inputs[i] = v
	}
	result, err := expr.RunValue(inputs)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Result: json.RawMessage(result.JSON())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Message: err.Error()}
	if kerr, ok := err.(*kerrors.CompileError); ok {
		resp.Code, resp.Message = string(kerr.Code), kerr.Message
		if kerr.HasSpan {
			resp.Start, resp.End = kerr.Span.Start, kerr.Span.End
		}
	} else if kerr, ok := err.(*kerrors.RuntimeError); ok {
		resp.Code, resp.Message = string(kerr.Code), kerr.Message
		if kerr.HasSpan {
			resp.Start, resp.End = kerr.Span.Start, kerr.Span.End
		}
	}
	writeJSON(w, status, resp)
}
