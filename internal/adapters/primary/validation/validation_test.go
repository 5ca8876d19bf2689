package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeamSelection(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantNil bool
		want    []domain.TeamID
	}{
		{"absent", "/alignment", true, nil},
		{"present empty", "/alignment?teams=", false, []domain.TeamID{}},
		{"list", "/alignment?teams=orion,%20vega,,", false, []domain.TeamID{"orion", "vega"}},
		{"repeated", "/alignment?teams=orion&teams=lyra", false, []domain.TeamID{"lyra", "orion"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := ParseTeamSelection(httptest.NewRequest(http.MethodGet, tt.target, nil))
			if tt.wantNil {
				assert.Nil(t, sel)
				return
			}
			require.NotNil(t, sel)
			assert.Equal(t, tt.want, sel.IDs())
		})
	}
}

func TestParseSprintID(t *testing.T) {
	id, err := ParseSprintID("42")
	require.NoError(t, err)
	assert.Equal(t, domain.SprintID(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseSprintID(raw)
		var verrs *apperrors.ValidationErrors
		assert.True(t, errors.As(err, &verrs), raw)
	}
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Dismissed []string `json:"dismissed"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"dismissed":["d-001"]}`))
	got, err := DecodeAndValidate[body](req)
	require.NoError(t, err)
	assert.Equal(t, []string{"d-001"}, got.Dismissed)

	for _, raw := range []string{`{"dismissed":`, `{"other":1}`, ``} {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(raw))
		_, err := DecodeAndValidate[body](req)
		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr), raw)
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Required("name", " ").
		Required("id", "dup 7").
		MaxItems("list", 3, 2).
		NotNil("dismissed", true)

	require.True(t, v.HasErrors())
	errs := v.Errors().Errors
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "list")
	assert.NotContains(t, errs, "id")
	assert.NotContains(t, errs, "dismissed")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Empty(t, SplitList(""))
}
