// Package cv models the singleton CV document and the editor that mutates it.
package cv

import "slices"

// Document is the CV aggregate. There is exactly one per site.
type Document struct {
	Personal   Personal          `json:"personal"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Skills     []SkillCategory   `json:"skills"`
	Education  []EducationEntry  `json:"education"`
}

// Personal holds the contact block.
type Personal struct {
	Title    string `json:"title"`
	Email    string `json:"email"`
	Github   string `json:"github"`
	Linkedin string `json:"linkedin"`
}

// ExperienceEntry is one role. Highlights are grouped under titles.
type ExperienceEntry struct {
	Role       string           `json:"role"`
	Company    string           `json:"company"`
	Period     string           `json:"period"`
	Highlights []HighlightGroup `json:"highlights"`
}

// HighlightGroup is a titled list of bullet points inside an experience entry.
type HighlightGroup struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// SkillCategory groups skills; Items is a comma-delimited string.
type SkillCategory struct {
	Category string `json:"category"`
	Items    string `json:"items"`
}

// EducationEntry is one degree.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

// Blank returns an empty but well-formed document.
func Blank() Document {
	return Document{
		Experience: []ExperienceEntry{},
		Skills:     []SkillCategory{},
		Education:  []EducationEntry{},
	}
}

// Normalize returns a deep copy of d with every absent sequence replaced by
// an empty one, nested highlight groups and items included.
func Normalize(d Document) Document {
	out := d.Clone()
	if out.Experience == nil {
		out.Experience = []ExperienceEntry{}
	}
	if out.Skills == nil {
		out.Skills = []SkillCategory{}
	}
	if out.Education == nil {
		out.Education = []EducationEntry{}
	}
	for i := range out.Experience {
		if out.Experience[i].Highlights == nil {
			out.Experience[i].Highlights = []HighlightGroup{}
		}
		for g := range out.Experience[i].Highlights {
			if out.Experience[i].Highlights[g].Items == nil {
				out.Experience[i].Highlights[g].Items = []string{}
			}
		}
	}
	return out
}

// Clone returns a deep copy sharing no slices with d. Nil slices stay nil.
func (d Document) Clone() Document {
	out := d
	out.Skills = slices.Clone(d.Skills)
	out.Education = slices.Clone(d.Education)
	if d.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(d.Experience))
		for i, e := range d.Experience {
			out.Experience[i] = e.clone()
		}
	}
	return out
}

func (e ExperienceEntry) clone() ExperienceEntry {
	out := e
	if e.Highlights != nil {
		out.Highlights = make([]HighlightGroup, len(e.Highlights))
		for i, g := range e.Highlights {
			out.Highlights[i] = HighlightGroup{Title: g.Title, Items: slices.Clone(g.Items)}
		}
	}
	return out
}
