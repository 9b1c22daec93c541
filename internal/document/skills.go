package document

import "strings"

// Skills is an ordered list of distinct skill names. Comparison is case-sensitive.
type Skills []string

// Contains reports whether skill is already present.
func (s Skills) Contains(skill string) bool {
	for _, existing := range s {
		if existing == skill {
			return true
		}
	}
	return false
}

// Add trims skill and appends it at the tail. Empty values and duplicates are
// rejected with *SkillError and the input is returned unchanged.
func (s Skills) Add(skill string) (Skills, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return s, &SkillError{Message: "empty"}
	}
	if s.Contains(skill) {
		return s, &SkillError{Skill: skill, Message: "already present"}
	}
	out := make(Skills, 0, len(s)+1)
	out = append(out, s...)
	return append(out, skill), nil
}

// ParseSkills builds a skill list from raw values the way repeated Add calls
// would, except that the first rejected value fails the whole list.
func ParseSkills(values []string) (Skills, error) {
	out := make(Skills, 0, len(values))
	for _, v := range values {
		var err error
		if out, err = out.Add(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Remove drops skill by value. Removing an absent value is a no-op.
func (s Skills) Remove(skill string) Skills {
	out := make(Skills, 0, len(s))
	for _, existing := range s {
		if existing != skill {
			out = append(out, existing)
		}
	}
	return out
}
