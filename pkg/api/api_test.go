package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absmach/gridfl/pkg/api"
	pkgerrors "github.com/absmach/gridfl/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc string
		err  error
		code int
	}{
		{desc: "validation", err: errors.Join(api.ErrValidation, api.ErrInvalidRound), code: http.StatusBadRequest},
		{desc: "not found", err: fmt.Errorf("round 3: %w", pkgerrors.ErrNotFound), code: http.StatusNotFound},
		{desc: "internal", err: errors.New("disk full"), code: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		api.EncodeError(context.Background(), tc.err, rec)
		assert.Equal(t, tc.code, rec.Code, tc.desc)
		assert.Equal(t, api.ContentType, rec.Header().Get("Content-Type"), tc.desc)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.desc)
		assert.Equal(t, tc.err.Error(), body["error"], tc.desc)
	}
}

func TestParseRound(t *testing.T) {
	t.Parallel()

	r, err := api.ParseRound("4")
	require.NoError(t, err)
	assert.Equal(t, 4, r)

	for _, raw := range []string{"", "-1", "one"} {
		_, err := api.ParseRound(raw)
		assert.ErrorIs(t, err, api.ErrValidation, raw)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	api.Health("validator", "abc")(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"pass","service":"validator","instance_id":"abc","description":"validator service"}`, rec.Body.String())
}
