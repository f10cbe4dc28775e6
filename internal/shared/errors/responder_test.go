package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func serve(t *testing.T, r *Responder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/x", func(c *gin.Context) { r.RespondError(c, err) })
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespondError_UsesFirstMatchingMapper(t *testing.T) {
	r := NewResponder("https://intake.example",
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errBoom) {
				return ErrConflict.WithDetail(err.Error()), true
			}
			return ProblemDetail{}, false
		},
		func(error) (ProblemDetail, bool) { return ErrBadRequest, true },
	)

	rec, problem := serve(t, r, errBoom)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://intake.example"+TypeConflict, problem.Type)
	assert.Equal(t, "/x", problem.Instance)
	assert.Equal(t, "boom", problem.Detail)
}

func TestRespondError_FallsBackToInternal(t *testing.T) {
	rec, problem := serve(t, NewResponder(""), errBoom)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, problem.Type)
}

func TestRespondError_PassesProblemThrough(t *testing.T) {
	rec, problem := serve(t, NewResponder(""), NewNotFoundProblem("parcel", "P1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "parcel", problem.Extensions["resourceType"])
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrValidation.WithExtension("field", "weight")
	assert.Nil(t, ErrValidation.Extensions)
}
