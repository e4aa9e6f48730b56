package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "bare object",
			response: `{"ddl": []}`,
			want:     `{"ddl": []}`,
		},
		{
			name:     "code fence",
			response: "Here is the result:\n```json\n{\"queries\": [{\"queryid\": \"q1\"}]}\n```\nDone.",
			want:     `{"queries": [{"queryid": "q1"}]}`,
		},
		{
			name:     "array before object",
			response: `[{"a": 1}] trailing`,
			want:     `[{"a": 1}]`,
		},
		{
			name:     "braces inside string literals",
			response: `{"sql": "SELECT '{' FROM t"}`,
			want:     `{"sql": "SELECT '{' FROM t"}`,
		},
		{
			name:     "no json",
			response: "I cannot help with that.",
			wantErr:  true,
		},
		{
			name:     "unbalanced",
			response: `{"ddl": [`,
			wantErr:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Queries []struct {
			QueryID string `json:"queryid"`
		} `json:"queries"`
	}
	response := "```json\n{\"queries\": [{\"queryid\": \"q1\"}, {\"queryid\": \"q2\"}]}\n```"
	require.NoError(t, DecodeJSON(response, &payload))
	require.Len(t, payload.Queries, 2)
	assert.Equal(t, "q1", payload.Queries[0].QueryID)
}

func TestNewFromConfig(t *testing.T) {
	client, err := NewFromConfig(Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)

	_, err = NewFromConfig(Config{Provider: "openai"}, nil)
	assert.Error(t, err) // missing api key

	client, err = NewFromConfig(Config{Provider: "openai", Model: "gpt-4o", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.GetModel())

	client, err = NewFromConfig(Config{Provider: "anthropic", Model: "claude-sonnet-4-20250514", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", client.GetModel())

	_, err = NewFromConfig(Config{Provider: "cohere"}, nil)
	assert.Error(t, err)
}
