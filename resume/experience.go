package resume

// Experience is one work experience entry.
type Experience struct {
	Company  string
	Position string

	// StartDate is "YYYY-MM". The format is not checked.
	StartDate string

	// EndDate is nil while the position is ongoing.
	EndDate *string

	Description string
}

// Ongoing reports whether the experience has no end date.
func (e Experience) Ongoing() bool {
	return e.EndDate == nil
}

// ToPlain converts the entry to its plain-data form.
func (e Experience) ToPlain() PlainExperience {
	return PlainExperience{
		Company:     e.Company,
		Position:    e.Position,
		StartDate:   e.StartDate,
		EndDate:     copyString(e.EndDate),
		Description: e.Description,
	}
}

// ExperienceFromPlain rebuilds an entry from its plain-data form.
func ExperienceFromPlain(p PlainExperience) Experience {
	return Experience{
		Company:     p.Company,
		Position:    p.Position,
		StartDate:   p.StartDate,
		EndDate:     copyString(p.EndDate),
		Description: p.Description,
	}
}

func (e Experience) clone() Experience {
	e.EndDate = copyString(e.EndDate)
	return e
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
