package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEducation_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Education
	}{
		{
			name: "string year",
			raw:  `{"school":"MIT","degree":"BSc","year":"2015 - 2019","level":"bachelors"}`,
			want: Education{School: "MIT", Degree: "BSc", Year: "2015 - 2019", Level: "bachelors"},
		},
		{
			name: "numeric year",
			raw:  `{"school":"MIT","year":2015}`,
			want: Education{School: "MIT", Year: "2015"},
		},
		{
			name: "null values",
			raw:  `{"school":"MIT","year":null,"level":null,"location":null}`,
			want: Education{School: "MIT"},
		},
		{
			name: "year absent",
			raw:  `{"school":"MIT"}`,
			want: Education{School: "MIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Education
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormPayload_RestoresLegacyValues(t *testing.T) {
	raw := []byte(`{"personal_info":{"name":"Ann","phone":null},"education":[{"school":"MIT","year":2015,"level":null}],"languages":["English"]}`)
	require.NoError(t, ValidateFormPayload(raw))

	var p FormPayload
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "Ann", p.PersonalInfo.Name)
	assert.Empty(t, p.PersonalInfo.Phone)
	assert.Equal(t, []Education{{School: "MIT", Year: "2015"}}, p.Education)
}
