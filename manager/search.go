package manager

import (
	"context"
	"strings"

	"github.com/vinayprograms/resumekit/resume"
	"github.com/vinayprograms/resumekit/telemetry"
)

// Search returns resumes where query appears, case-insensitively, in any
// personal info value, skill, experience company or position, or education
// institution or field. Results are in insertion order.
func (m *Manager) Search(ctx context.Context, query string) []*resume.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "search", "")
	q := strings.ToLower(query)
	out := m.collect(func(r *resume.Resume) bool { return matches(r, q) })
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(out), Query: query}, nil)
	return out
}

// FilterBySkill returns resumes with a skill containing skill,
// case-insensitively.
func (m *Manager) FilterBySkill(ctx context.Context, skill string) []*resume.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "filter_skill", "")
	q := strings.ToLower(skill)
	out := m.collect(func(r *resume.Resume) bool { return anyContains(r.Skills, q) })
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(out), Query: skill}, nil)
	return out
}

// FilterByExperienceCount returns resumes with at least minCount experience
// entries.
func (m *Manager) FilterByExperienceCount(ctx context.Context, minCount int) []*resume.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "filter_experience", "")
	out := m.collect(func(r *resume.Resume) bool { return len(r.Experiences) >= minCount })
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(out)}, nil)
	return out
}

// matches checks the searchable fields of r for the lowercased query q,
// stopping at the first hit.
func matches(r *resume.Resume, q string) bool {
	for _, v := range r.PersonalInfo {
		if contains(v, q) {
			return true
		}
	}
	if anyContains(r.Skills, q) {
		return true
	}
	for _, e := range r.Experiences {
		if contains(e.Company, q) || contains(e.Position, q) {
			return true
		}
	}
	for _, e := range r.Education {
		if contains(e.Institution, q) || contains(e.Field, q) {
			return true
		}
	}
	return false
}

func anyContains(values []string, q string) bool {
	for _, v := range values {
		if contains(v, q) {
			return true
		}
	}
	return false
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
