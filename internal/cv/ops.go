package cv

import (
	"fmt"
	"slices"

	"github.com/hpungsan/folio/internal/errors"
)

// Section names an editable sequence of the document.
type Section string

const (
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionEducation  Section = "education"
)

// Len returns the number of entries in section, or -1 for an unknown section.
func (d Document) Len(section Section) int {
	switch section {
	case SectionExperience:
		return len(d.Experience)
	case SectionSkills:
		return len(d.Skills)
	case SectionEducation:
		return len(d.Education)
	}
	return -1
}

// NewExperience is the template appended by AddEntry: one empty group with one empty item.
func NewExperience() ExperienceEntry {
	return ExperienceEntry{Highlights: []HighlightGroup{NewHighlightGroup()}}
}

// NewHighlightGroup is an empty titled group holding one empty item.
func NewHighlightGroup() HighlightGroup {
	return HighlightGroup{Items: []string{""}}
}

// The functions below are pure: each returns a modified deep copy and leaves
// its input untouched.

// AddEntry appends the section's blank template.
func AddEntry(d Document, section Section) (Document, error) {
	out := Normalize(d)
	switch section {
	case SectionExperience:
		out.Experience = append(out.Experience, NewExperience())
	case SectionSkills:
		out.Skills = append(out.Skills, SkillCategory{})
	case SectionEducation:
		out.Education = append(out.Education, EducationEntry{})
	default:
		return d, unknownSection(section)
	}
	return out, nil
}

// RemoveEntry removes exactly the element at index.
func RemoveEntry(d Document, section Section, index int) (Document, error) {
	n := d.Len(section)
	if n < 0 {
		return d, unknownSection(section)
	}
	if err := checkIndex(string(section), index, n); err != nil {
		return d, err
	}
	out := Normalize(d)
	switch section {
	case SectionExperience:
		out.Experience = slices.Delete(out.Experience, index, index+1)
	case SectionSkills:
		out.Skills = slices.Delete(out.Skills, index, index+1)
	case SectionEducation:
		out.Education = slices.Delete(out.Education, index, index+1)
	}
	return out, nil
}

// AddHighlightGroup appends an empty group to experience entry exp.
func AddHighlightGroup(d Document, exp int) (Document, error) {
	if err := checkIndex("experience", exp, len(d.Experience)); err != nil {
		return d, err
	}
	out := Normalize(d)
	out.Experience[exp].Highlights = append(out.Experience[exp].Highlights, NewHighlightGroup())
	return out, nil
}

// RemoveHighlightGroup removes group g of experience entry exp.
func RemoveHighlightGroup(d Document, exp, g int) (Document, error) {
	if err := checkGroup(d, exp, g); err != nil {
		return d, err
	}
	out := Normalize(d)
	out.Experience[exp].Highlights = slices.Delete(out.Experience[exp].Highlights, g, g+1)
	return out, nil
}

// AddHighlightItem appends an empty item to group g of experience entry exp.
func AddHighlightItem(d Document, exp, g int) (Document, error) {
	if err := checkGroup(d, exp, g); err != nil {
		return d, err
	}
	out := Normalize(d)
	group := &out.Experience[exp].Highlights[g]
	group.Items = append(group.Items, "")
	return out, nil
}

// RemoveHighlightItem removes item i of group g of experience entry exp.
func RemoveHighlightItem(d Document, exp, g, i int) (Document, error) {
	if err := checkGroup(d, exp, g); err != nil {
		return d, err
	}
	if err := checkIndex("highlight item", i, len(d.Experience[exp].Highlights[g].Items)); err != nil {
		return d, err
	}
	out := Normalize(d)
	group := &out.Experience[exp].Highlights[g]
	group.Items = slices.Delete(group.Items, i, i+1)
	return out, nil
}

func checkGroup(d Document, exp, g int) error {
	if err := checkIndex("experience", exp, len(d.Experience)); err != nil {
		return err
	}
	return checkIndex("highlight group", g, len(d.Experience[exp].Highlights))
}

func checkIndex(what string, index, n int) error {
	if index < 0 || index >= n {
		return errors.NewInvalidRequest(fmt.Sprintf("%s index %d out of range (have %d)", what, index, n))
	}
	return nil
}

func unknownSection(s Section) error {
	return errors.NewInvalidRequest(fmt.Sprintf("unknown cv section %q", s))
}
