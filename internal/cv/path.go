package cv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/folio/internal/errors"
)

// SetScalar returns a copy of d with the leaf at path set to value.
//
// Paths are dot separated:
//
//	personal.title | personal.email | personal.github | personal.linkedin
//	summary
//	experience.N.role | .company | .period
//	experience.N.highlights.G.title
//	experience.N.highlights.G.items.I
//	skills.N.category | skills.N.items
//	education.N.degree | .institution | .period
func SetScalar(d Document, path, value string) (Document, error) {
	parts := strings.Split(path, ".")
	out := Normalize(d)

	switch parts[0] {
	case "summary":
		if len(parts) != 1 {
			return d, badPath(path)
		}
		out.Summary = value
		return out, nil

	case "personal":
		if len(parts) != 2 {
			return d, badPath(path)
		}
		field, ok := personalField(&out.Personal, parts[1])
		if !ok {
			return d, badPath(path)
		}
		*field = value
		return out, nil

	case "experience":
		return setExperience(d, out, path, parts[1:], value)

	case "skills":
		idx, rest, err := indexed(path, parts[1:], len(out.Skills))
		if err != nil {
			return d, err
		}
		if len(rest) != 1 {
			return d, badPath(path)
		}
		switch rest[0] {
		case "category":
			out.Skills[idx].Category = value
		case "items":
			out.Skills[idx].Items = value
		default:
			return d, badPath(path)
		}
		return out, nil

	case "education":
		idx, rest, err := indexed(path, parts[1:], len(out.Education))
		if err != nil {
			return d, err
		}
		if len(rest) != 1 {
			return d, badPath(path)
		}
		switch rest[0] {
		case "degree":
			out.Education[idx].Degree = value
		case "institution":
			out.Education[idx].Institution = value
		case "period":
			out.Education[idx].Period = value
		default:
			return d, badPath(path)
		}
		return out, nil
	}

	return d, badPath(path)
}

func setExperience(orig, out Document, path string, parts []string, value string) (Document, error) {
	idx, rest, err := indexed(path, parts, len(out.Experience))
	if err != nil {
		return orig, err
	}
	entry := &out.Experience[idx]

	if len(rest) == 1 {
		switch rest[0] {
		case "role":
			entry.Role = value
		case "company":
			entry.Company = value
		case "period":
			entry.Period = value
		default:
			return orig, badPath(path)
		}
		return out, nil
	}

	if len(rest) < 3 || rest[0] != "highlights" {
		return orig, badPath(path)
	}
	g, rest, err := indexed(path, rest[1:], len(entry.Highlights))
	if err != nil {
		return orig, err
	}
	group := &entry.Highlights[g]

	switch {
	case len(rest) == 1 && rest[0] == "title":
		group.Title = value
	case len(rest) == 2 && rest[0] == "items":
		i, _, err := indexed(path, rest[1:], len(group.Items))
		if err != nil {
			return orig, err
		}
		group.Items[i] = value
	default:
		return orig, badPath(path)
	}
	return out, nil
}

// indexed parses parts[0] as an index into a sequence of length n.
func indexed(path string, parts []string, n int) (int, []string, error) {
	if len(parts) == 0 {
		return 0, nil, badPath(path)
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, nil, badPath(path)
	}
	if err := checkIndex(path, idx, n); err != nil {
		return 0, nil, err
	}
	return idx, parts[1:], nil
}

func personalField(p *Personal, name string) (*string, bool) {
	switch name {
	case "title":
		return &p.Title, true
	case "email":
		return &p.Email, true
	case "github":
		return &p.Github, true
	case "linkedin":
		return &p.Linkedin, true
	}
	return nil, false
}

func badPath(path string) error {
	return errors.NewInvalidRequest(fmt.Sprintf("invalid cv field path %q", path))
}
