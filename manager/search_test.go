package manager

import (
	"context"
	"testing"

	"github.com/vinayprograms/resumekit/resume"
	"github.com/vinayprograms/resumekit/store"
)

// seed builds a small collection:
//
//	alice: Python, Go; Acme/Engineer; MIT Computer Science
//	bob:   JavaScript; Globex/Designer, Initech/Lead
//	carol: no skills; personal info mentions "python" in a bio
func seed(t *testing.T) *Manager {
	t.Helper()
	m := newTestManager(t, store.NewMemoryStore())
	ctx := context.Background()

	m.Create(ctx, "alice", info("Alice Smith", "alice@example.com"))
	m.AddSkill(ctx, "alice", "Python")
	m.AddSkill(ctx, "alice", "Go")
	m.AddExperience(ctx, "alice", resume.Experience{Company: "Acme", Position: "Engineer", StartDate: "2018-01"})
	m.AddEducation(ctx, "alice", resume.Education{Institution: "MIT", Degree: "BS", Field: "Computer Science", GraduationYear: 2017})

	m.Create(ctx, "bob", info("Bob Jones", "bob@example.com"))
	m.AddSkill(ctx, "bob", "JavaScript")
	m.AddExperience(ctx, "bob", resume.Experience{Company: "Globex", Position: "Designer", StartDate: "2015-03", EndDate: strPtr("2019-02")})
	m.AddExperience(ctx, "bob", resume.Experience{Company: "Initech", Position: "Lead", StartDate: "2019-03"})

	m.Create(ctx, "carol", map[string]string{"name": "Carol", "email": "carol@example.com", "bio": "Loves PYTHON scripting"})
	return m
}

func TestSearch(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"skill any case", "PYTHON", []string{"alice", "carol"}},
		{"skill lower", "python", []string{"alice", "carol"}},
		{"name", "smith", []string{"alice"}},
		{"email domain", "example.com", []string{"alice", "bob", "carol"}},
		{"company", "globex", []string{"bob"}},
		{"position", "lead", []string{"bob"}},
		{"institution", "mit", []string{"alice"}},
		{"education field", "computer", []string{"alice"}},
		{"skill substring", "script", []string{"bob", "carol"}},
		{"no match", "haskell", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(m.Search(ctx, tt.query)); !equalStrings(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_NotDegreeOrDescription(t *testing.T) {
	m := newTestManager(t, store.NewMemoryStore())
	ctx := context.Background()
	m.Create(ctx, "a", info("Ann", "ann@example.com"))
	m.AddEducation(ctx, "a", resume.Education{Institution: "ETH", Degree: "PhD", Field: "Physics", GraduationYear: 2010})
	m.AddExperience(ctx, "a", resume.Experience{Company: "CERN", Position: "Researcher", StartDate: "2010-09", Description: "particle detectors"})

	if got := m.Search(ctx, "phd"); len(got) != 0 {
		t.Errorf("degree should not be searched, got %v", ids(got))
	}
	if got := m.Search(ctx, "particle"); len(got) != 0 {
		t.Errorf("description should not be searched, got %v", ids(got))
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	lower := ids(m.Search(ctx, "acme"))
	upper := ids(m.Search(ctx, "ACME"))
	mixed := ids(m.Search(ctx, "AcMe"))
	if !equalStrings(lower, upper) || !equalStrings(lower, mixed) {
		t.Errorf("case variants differ: %v %v %v", lower, upper, mixed)
	}
}

func TestFilterBySkill(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	if got := ids(m.FilterBySkill(ctx, "python")); !equalStrings(got, []string{"alice"}) {
		t.Errorf("FilterBySkill(python) = %v, personal info must not match", got)
	}
	if got := ids(m.FilterBySkill(ctx, "JAVA")); !equalStrings(got, []string{"bob"}) {
		t.Errorf("FilterBySkill(JAVA) = %v", got)
	}
	if got := m.FilterBySkill(ctx, "acme"); len(got) != 0 {
		t.Errorf("company must not match, got %v", ids(got))
	}
}

func TestFilterByExperienceCount(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	tests := []struct {
		min  int
		want []string
	}{
		{0, []string{"alice", "bob", "carol"}},
		{1, []string{"alice", "bob"}},
		{2, []string{"bob"}},
		{3, []string{}},
	}
	for _, tt := range tests {
		if got := ids(m.FilterByExperienceCount(ctx, tt.min)); !equalStrings(got, tt.want) {
			t.Errorf("FilterByExperienceCount(%d) = %v, want %v", tt.min, got, tt.want)
		}
	}
}

func TestSearch_ReturnsCopies(t *testing.T) {
	m := seed(t)
	ctx := context.Background()

	res := m.Search(ctx, "alice")
	res[0].Skills[0] = "COBOL"

	r, _ := m.Get(ctx, "alice")
	if r.Skills[0] != "Python" {
		t.Error("search results should not alias stored resumes")
	}
}
