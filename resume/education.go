package resume

// Education is one education entry.
type Education struct {
	Institution    string
	Degree         string
	Field          string
	GraduationYear int

	// GPA is optional and unconstrained.
	GPA *float64
}

// HasGPA reports whether a GPA was recorded.
func (e Education) HasGPA() bool {
	return e.GPA != nil
}

// ToPlain converts the entry to its plain-data form.
func (e Education) ToPlain() PlainEducation {
	return PlainEducation{
		Institution:    e.Institution,
		Degree:         e.Degree,
		Field:          e.Field,
		GraduationYear: e.GraduationYear,
		GPA:            copyFloat(e.GPA),
	}
}

// EducationFromPlain rebuilds an entry from its plain-data form.
func EducationFromPlain(p PlainEducation) Education {
	return Education{
		Institution:    p.Institution,
		Degree:         p.Degree,
		Field:          p.Field,
		GraduationYear: p.GraduationYear,
		GPA:            copyFloat(p.GPA),
	}
}

func (e Education) clone() Education {
	e.GPA = copyFloat(e.GPA)
	return e
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
