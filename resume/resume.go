package resume

import (
	"time"

	"github.com/google/uuid"
)

// Required personal info keys, checked once when a resume is created.
const (
	KeyName  = "name"
	KeyEmail = "email"
)

// now is the clock used for created_at/updated_at.
var now = func() time.Time { return time.Now().UTC() }

// Resume is one person's record.
type Resume struct {
	// ID uniquely identifies the resume. It never changes after creation.
	ID string

	// PersonalInfo holds name, email and any extra keys (phone, address, ...).
	PersonalInfo map[string]string

	// Experiences are kept in the order they were added, not by date.
	Experiences []Experience

	// Education entries in the order they were added.
	Education []Education

	// Skills are unique by exact string comparison.
	Skills []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch describes a partial update applied by Resume.Apply.
type Patch struct {
	// PersonalInfo keys overwrite existing keys; other keys are kept.
	PersonalInfo map[string]string

	// Skills, when non-nil, replace the skill list wholesale.
	// An empty non-nil slice clears all skills.
	Skills []string
}

// New creates a resume with both timestamps set to the current time.
// The personal info map is copied.
func New(id string, personalInfo map[string]string) *Resume {
	ts := now()
	return &Resume{
		ID:           id,
		PersonalInfo: copyInfo(personalInfo),
		Experiences:  []Experience{},
		Education:    []Education{},
		Skills:       []string{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
}

// NewID returns a random resume id for callers that do not choose one.
func NewID() string {
	return uuid.NewString()
}

// Touch bumps UpdatedAt to the current time.
func (r *Resume) Touch() {
	ts := now()
	if ts.Before(r.CreatedAt) {
		ts = r.CreatedAt
	}
	r.UpdatedAt = ts
}

// AddExperience appends a work experience entry.
func (r *Resume) AddExperience(e Experience) {
	r.Experiences = append(r.Experiences, e)
	r.Touch()
}

// AddEducation appends an education entry.
func (r *Resume) AddEducation(e Education) {
	r.Education = append(r.Education, e)
	r.Touch()
}

// AddSkill appends a skill unless the exact string is already present.
// It returns false, without touching UpdatedAt, for duplicates.
func (r *Resume) AddSkill(skill string) bool {
	if r.HasSkill(skill) {
		return false
	}
	r.Skills = append(r.Skills, skill)
	r.Touch()
	return true
}

// HasSkill reports whether the exact skill string is present.
func (r *Resume) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Apply merges a patch into the resume and bumps UpdatedAt.
// Personal info is not re-validated, so a patch may blank name or email.
func (r *Resume) Apply(p Patch) {
	if p.PersonalInfo != nil {
		if r.PersonalInfo == nil {
			r.PersonalInfo = make(map[string]string, len(p.PersonalInfo))
		}
		for k, v := range p.PersonalInfo {
			r.PersonalInfo[k] = v
		}
	}
	if p.Skills != nil {
		r.Skills = dedupe(p.Skills)
	}
	r.Touch()
}

// Name returns the "name" personal info value.
func (r *Resume) Name() string {
	return r.PersonalInfo[KeyName]
}

// Email returns the "email" personal info value.
func (r *Resume) Email() string {
	return r.PersonalInfo[KeyEmail]
}

// String renders a one-line summary.
func (r *Resume) String() string {
	name := r.Name()
	if name == "" {
		name = "Unknown"
	}
	email := r.Email()
	if email == "" {
		email = "No email"
	}
	return "Resume: " + name + " - " + email
}

// Clone returns a deep copy.
func (r *Resume) Clone() *Resume {
	c := *r
	c.PersonalInfo = copyInfo(r.PersonalInfo)
	c.Experiences = make([]Experience, len(r.Experiences))
	for i, e := range r.Experiences {
		c.Experiences[i] = e.clone()
	}
	c.Education = make([]Education, len(r.Education))
	for i, e := range r.Education {
		c.Education[i] = e.clone()
	}
	c.Skills = append([]string{}, r.Skills...)
	return &c
}

func copyInfo(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// dedupe keeps the first occurrence of each exact string.
func dedupe(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
