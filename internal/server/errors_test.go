package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrSessionNotFound{SessionID: uuid.New()}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "message", Message: "required"}))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(&ErrRateLimited{}))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(&ErrUnauthorized{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("anything else")))
}

func TestErrorMessages(t *testing.T) {
	id := uuid.New()
	assert.Contains(t, (&ErrSessionNotFound{SessionID: id}).Error(), id.String())
	assert.Contains(t, (&ErrValidation{Field: "message", Message: "required"}).Error(), "message")
	assert.Equal(t, "too many requests", (&ErrRateLimited{}).Error())
}
