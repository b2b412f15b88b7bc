package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("SEASONARR_TEST_HOST", "0.0.0.0")
	t.Setenv("SEASONARR_TEST_EMPTY", "")

	tests := []struct {
		name        string
		in          string
		want        string
		wantMissing []string
	}{
		{"plain text", `port = 8585`, `port = 8585`, nil},
		{"set", `host = "${SEASONARR_TEST_HOST}"`, `host = "0.0.0.0"`, nil},
		{"set but empty", `host = "${SEASONARR_TEST_EMPTY}"`, `host = ""`, nil},
		{"unset", `path = "${SEASONARR_TEST_UNSET_1}"`, `path = "${SEASONARR_TEST_UNSET_1}"`, []string{"SEASONARR_TEST_UNSET_1"}},
		{"default used when unset", `p = "${SEASONARR_TEST_UNSET_2:-./series.json}"`, `p = "./series.json"`, nil},
		{"default used when empty", `p = "${SEASONARR_TEST_EMPTY:-fallback}"`, `p = "fallback"`, nil},
		{"default ignored when set", `h = "${SEASONARR_TEST_HOST:-localhost}"`, `h = "0.0.0.0"`, nil},
		{"required message", `k = "${SEASONARR_TEST_EMPTY:?set the catalog path}"`, `k = "${SEASONARR_TEST_EMPTY:?set the catalog path}"`, []string{"SEASONARR_TEST_EMPTY: set the catalog path"}},
		{
			"several",
			`${SEASONARR_TEST_HOST} ${SEASONARR_TEST_UNSET_3} ${SEASONARR_TEST_EMPTY:-x}`,
			`0.0.0.0 ${SEASONARR_TEST_UNSET_3} x`,
			[]string{"SEASONARR_TEST_UNSET_3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}
