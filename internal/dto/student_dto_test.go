package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opusnote/opusnote-api/internal/models"
)

func TestOptionalIntStates(t *testing.T) {
	var req UpdateStudentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana"}`), &req))
	require.False(t, req.Age.Present, "absent field")

	req = UpdateStudentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"age":null}`), &req))
	require.True(t, req.Age.Present)
	require.True(t, req.Age.Null)

	req = UpdateStudentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"age":0}`), &req))
	require.True(t, req.Age.Present)
	require.False(t, req.Age.Null)
	require.Zero(t, req.Age.Value)

	req = UpdateStudentRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"age":12}`), &req))
	require.Equal(t, 12, req.Age.Value)
}

func TestStudentResponseDecodesRecommendations(t *testing.T) {
	student := models.Student{
		ID:              "123",
		Name:            "Ana",
		Recommendations: `[{"title":"Fur Elise","composer":"Beethoven","focus":"phrasing"}]`,
	}

	resp := NewStudentResponse(student)
	require.Len(t, resp.Recommendations, 1)
	require.Equal(t, "Beethoven", resp.Recommendations[0].Composer)
}

func TestStudentResponseEmptyRecommendationsSerializeAsList(t *testing.T) {
	resp := NewStudentResponse(models.Student{ID: "123", Recommendations: "[]"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"recommendations":[]`)
}
