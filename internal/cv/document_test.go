package cv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FillsAbsentSequences(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(`{"personal":{"title":"Dev"},"summary":"hi","experience":[{"role":"r"}]}`), &d))

	n := Normalize(d)
	assert.NotNil(t, n.Skills)
	assert.NotNil(t, n.Education)
	require.Len(t, n.Experience, 1)
	assert.NotNil(t, n.Experience[0].Highlights)
	assert.Equal(t, "Dev", n.Personal.Title)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestNormalize_NestedItems(t *testing.T) {
	d := Document{Experience: []ExperienceEntry{{Highlights: []HighlightGroup{{Title: "g"}}}}}
	n := Normalize(d)
	assert.NotNil(t, n.Experience[0].Highlights[0].Items)
	assert.Nil(t, d.Experience[0].Highlights[0].Items, "input left untouched")
}

func TestBlank_WellFormed(t *testing.T) {
	b := Blank()
	assert.Empty(t, b.Experience)
	assert.NotNil(t, b.Experience)
	assert.NotNil(t, b.Skills)
	assert.NotNil(t, b.Education)
	assert.Equal(t, Personal{}, b.Personal)
	assert.NoError(t, Validate(b))
}

func TestClone_SharesNothing(t *testing.T) {
	d := sampleDoc()
	c := d.Clone()

	c.Experience[0].Highlights[0].Items[0] = "changed"
	c.Experience[0].Role = "changed"
	c.Skills[0].Items = "changed"
	c.Education[0].Degree = "changed"

	assert.Equal(t, "Shipped v1", d.Experience[0].Highlights[0].Items[0])
	assert.Equal(t, "Engineer", d.Experience[0].Role)
	assert.Equal(t, "Go, SQL", d.Skills[0].Items)
	assert.Equal(t, "BSc", d.Education[0].Degree)
}

func sampleDoc() Document {
	return Document{
		Personal: Personal{Title: "Software Engineer", Email: "p@example.com"},
		Summary:  "Builds things.",
		Experience: []ExperienceEntry{
			{
				Role: "Engineer", Company: "Acme", Period: "2020-2023",
				Highlights: []HighlightGroup{
					{Title: "Platform", Items: []string{"Shipped v1", "Cut latency"}},
					{Title: "Team", Items: []string{"Mentored"}},
				},
			},
			{
				Role: "Intern", Company: "Globex", Period: "2019",
				Highlights: []HighlightGroup{{Title: "Misc", Items: []string{"Coffee"}}},
			},
		},
		Skills:    []SkillCategory{{Category: "Backend", Items: "Go, SQL"}},
		Education: []EducationEntry{{Degree: "BSc", Institution: "Uni", Period: "2015-2019"}},
	}
}
