package todo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTodoInputTitleString(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"title":"Task"}`, "Task"},
		{"missing", `{}`, ""},
		{"null", `{"title":null}`, ""},
		{"number", `{"title":42}`, ""},
		{"object", `{"title":{"text":"Task"}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in CreateTodoInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in.TitleString())
		})
	}
}

func TestUpdateStatusInputCompletedBool(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"true", `{"completed":true}`, true},
		{"false", `{"completed":false}`, false},
		{"missing", `{}`, false},
		{"null", `{"completed":null}`, false},
		{"zero", `{"completed":0}`, false},
		{"one", `{"completed":1}`, true},
		{"empty string", `{"completed":""}`, false},
		{"string", `{"completed":"false"}`, true},
		{"array", `{"completed":[]}`, true},
		{"object", `{"completed":{}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in UpdateStatusInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.want, in.CompletedBool())
		})
	}
}
