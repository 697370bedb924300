package httpresponse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusCreated, map[string]string{"game_id": "g1"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"Status":201,"Body":{"game_id":"g1"}}`, rec.Body.String())
}

func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusNotFound, "error record not found")

	assert.JSONEq(t,
		`{"Status":404,"Body":{"ErrorDescription":"error record not found"}}`,
		rec.Body.String())
}

func TestWriteInternalErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteInternalErrorResponse(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"Status":500,"Body":{"error":"Internal server error"}}`, rec.Body.String())
}
