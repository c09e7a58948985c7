package resume

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/vinayprograms/resumekit/errors"
)

// PlainExperience is the persisted form of an Experience.
type PlainExperience struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description string  `json:"description"`
}

// PlainEducation is the persisted form of an Education entry.
type PlainEducation struct {
	Institution    string   `json:"institution"`
	Degree         string   `json:"degree"`
	Field          string   `json:"field"`
	GraduationYear int      `json:"graduation_year"`
	GPA            *float64 `json:"gpa"`
}

// PlainResume is the persisted form of a Resume.
// Timestamps are RFC 3339 strings.
type PlainResume struct {
	ResumeID     string            `json:"resume_id"`
	PersonalInfo StringMap         `json:"personal_info"`
	Experiences  []PlainExperience `json:"experiences"`
	Education    []PlainEducation  `json:"education"`
	Skills       []string          `json:"skills"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
}

// StringMap decodes any JSON object into string values. Non-string
// scalars keep their JSON text and null becomes "".
type StringMap map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (m *StringMap) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(StringMap, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return err
			}
			out[k] = string(b)
		}
	}
	*m = out
	return nil
}

// UnmarshalJSON rejects objects without company, position or start_date.
func (p *PlainExperience) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "experience", "company", "position", "start_date"); err != nil {
		return err
	}
	type alias PlainExperience
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PlainExperience(a)
	return nil
}

// UnmarshalJSON rejects objects without institution, degree, field or
// graduation_year.
func (p *PlainEducation) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "education", "institution", "degree", "field", "graduation_year"); err != nil {
		return err
	}
	type alias PlainEducation
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PlainEducation(a)
	return nil
}

// UnmarshalJSON rejects objects without resume_id or personal_info.
func (p *PlainResume) UnmarshalJSON(data []byte) error {
	if err := requireKeys(data, "resume", "resume_id", "personal_info"); err != nil {
		return err
	}
	type alias PlainResume
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = PlainResume(a)
	return nil
}

// requireKeys fails with MISSING_FIELD for a required key that is absent
// or null.
func requireKeys(data []byte, entity string, keys ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || string(bytes.TrimSpace(v)) == "null" {
			return errors.MissingField(entity, k)
		}
	}
	return nil
}

// ToPlain converts the resume to its plain-data form. Nested entries keep
// their order and every slice is non-nil, so empty lists encode as [].
func (r *Resume) ToPlain() PlainResume {
	p := PlainResume{
		ResumeID:     r.ID,
		PersonalInfo: StringMap(copyInfo(r.PersonalInfo)),
		Experiences:  make([]PlainExperience, 0, len(r.Experiences)),
		Education:    make([]PlainEducation, 0, len(r.Education)),
		Skills:       append([]string{}, r.Skills...),
		CreatedAt:    formatTime(r.CreatedAt),
		UpdatedAt:    formatTime(r.UpdatedAt),
	}
	for _, e := range r.Experiences {
		p.Experiences = append(p.Experiences, e.ToPlain())
	}
	for _, e := range r.Education {
		p.Education = append(p.Education, e.ToPlain())
	}
	return p
}

// FromPlain rebuilds a resume. It fails with MISSING_FIELD when the id or
// personal info is absent. Missing or unreadable timestamps default to now.
func FromPlain(p PlainResume) (*Resume, error) {
	if p.ResumeID == "" {
		return nil, errors.MissingField("resume", "resume_id")
	}
	if p.PersonalInfo == nil {
		return nil, errors.MissingField("resume", "personal_info", errors.WithResumeID(p.ResumeID))
	}

	r := &Resume{
		ID:           p.ResumeID,
		PersonalInfo: copyInfo(p.PersonalInfo),
		Experiences:  make([]Experience, 0, len(p.Experiences)),
		Education:    make([]Education, 0, len(p.Education)),
		Skills:       append([]string{}, p.Skills...),
		CreatedAt:    parseTime(p.CreatedAt),
		UpdatedAt:    parseTime(p.UpdatedAt),
	}
	if r.UpdatedAt.Before(r.CreatedAt) {
		r.UpdatedAt = r.CreatedAt
	}
	for _, e := range p.Experiences {
		r.Experiences = append(r.Experiences, ExperienceFromPlain(e))
	}
	for _, e := range p.Education {
		r.Education = append(r.Education, EducationFromPlain(e))
	}
	return r, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// timeLayouts accepts RFC 3339 and zone-less ISO-8601 timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now()
}
