package manager

import (
	"context"
	"sort"

	"github.com/vinayprograms/resumekit/telemetry"
)

// TopSkillsLimit is the number of skills reported in Statistics.TopSkills.
const TopSkillsLimit = 5

// SkillCount is a skill and the number of resumes listing it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Statistics summarizes the collection.
type Statistics struct {
	TotalResumes int `json:"total_resumes"`

	// TotalSkills counts skill entries; a skill on two resumes counts twice.
	TotalSkills int `json:"total_skills"`

	// AverageSkillsPerResume is 0 for an empty collection.
	AverageSkillsPerResume float64 `json:"average_skills_per_resume"`

	// TopSkills holds up to TopSkillsLimit skills, most frequent first.
	// Equal counts keep the order in which the skills were first seen.
	TopSkills []SkillCount `json:"top_skills"`
}

// Statistics computes collection-wide counts.
func (m *Manager) Statistics(ctx context.Context) Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "statistics", "")
	stats := Statistics{TotalResumes: len(m.order)}

	counts := make(map[string]int)
	var seen []string
	for _, id := range m.order {
		for _, skill := range m.resumes[id].Skills {
			if counts[skill] == 0 {
				seen = append(seen, skill)
			}
			counts[skill]++
			stats.TotalSkills++
		}
	}
	if stats.TotalResumes > 0 {
		stats.AverageSkillsPerResume = float64(stats.TotalSkills) / float64(stats.TotalResumes)
	}

	top := make([]SkillCount, len(seen))
	for i, skill := range seen {
		top[i] = SkillCount{Skill: skill, Count: counts[skill]}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > TopSkillsLimit {
		top = top[:TopSkillsLimit]
	}
	stats.TopSkills = top

	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(top)}, nil)
	return stats
}
