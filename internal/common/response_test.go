package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusForbidden, "Invalid hash signature")

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
	if body["error"] != "Invalid hash signature" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestJSONSuccessMergesExtra(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONSuccess(rr, http.StatusCreated, map[string]any{"orderId": "ORD-1"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if body["orderId"] != "ORD-1" {
		t.Fatalf("expected merged field, got %v", body["orderId"])
	}
}

func TestJSONSuccessNilExtra(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONSuccess(rr, http.StatusOK, nil)

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 || body["success"] != true {
		t.Fatalf("expected bare success envelope, got %v", body)
	}
}
