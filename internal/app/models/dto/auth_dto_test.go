package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationRequestAcceptsStringOrNumberCode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `{"activation_token":"tok","activation_code":"482913"}`, want: "482913"},
		{name: "number", body: `{"activation_token":"tok","activation_code":482913}`, want: "482913"},
		{name: "missing", body: `{"activation_token":"tok"}`, want: ""},
		{name: "null", body: `{"activation_token":"tok","activation_code":null}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ActivationRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, "tok", req.ActivationToken)
			assert.Equal(t, tt.want, req.ActivationCode)
		})
	}
}

func TestActivationRequestRejectsOtherCodeTypes(t *testing.T) {
	var req ActivationRequest
	err := json.Unmarshal([]byte(`{"activation_token":"tok","activation_code":true}`), &req)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}
