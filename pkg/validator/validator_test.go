package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/errors"
)

type page struct {
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type request struct {
	Mode string `json:"mode" validate:"omitempty,oneof=fast slow"`
	Page page   `json:"page"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	err := Validate(request{Mode: "warp", Page: page{Limit: 500}})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	assert.Equal(t, "must be one of: fast slow", fields["mode"])
	assert.Equal(t, "must be less than or equal to 100", fields["page.limit"])
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestDecodeAndValidate(t *testing.T) {
	var dst request
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"mode":"fast","page":{"limit":10}}`))
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, 10, dst.Page.Limit)

	dst = request{}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	require.NoError(t, DecodeAndValidate(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"mode":`))
	err := DecodeAndValidate(req, &dst)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
