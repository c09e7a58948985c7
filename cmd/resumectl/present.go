package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vinayprograms/resumekit/manager"
	"github.com/vinayprograms/resumekit/resume"
)

const rule = "=================================================="

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResume renders one resume in full.
func (a *app) printResume(r *resume.Resume) {
	w := a.out
	fmt.Fprintf(w, "\n%s\nResume ID: %s\n%s\n", rule, r.ID, rule)

	fmt.Fprintln(w, "\nPERSONAL INFORMATION:")
	for _, k := range infoKeys(r.PersonalInfo) {
		fmt.Fprintf(w, "  %s: %s\n", title(k), r.PersonalInfo[k])
	}

	if len(r.Skills) > 0 {
		fmt.Fprintln(w, "\nSKILLS:")
		fmt.Fprintf(w, "  %s\n", strings.Join(r.Skills, ", "))
	}

	if len(r.Experiences) > 0 {
		fmt.Fprintln(w, "\nWORK EXPERIENCE:")
		for i, e := range r.Experiences {
			end := "Current"
			if !e.Ongoing() {
				end = *e.EndDate
			}
			fmt.Fprintf(w, "  %d. %s at %s\n", i+1, e.Position, e.Company)
			fmt.Fprintf(w, "     Period: %s - %s\n", e.StartDate, end)
			if e.Description != "" {
				fmt.Fprintf(w, "     Description: %s\n", e.Description)
			}
		}
	}

	if len(r.Education) > 0 {
		fmt.Fprintln(w, "\nEDUCATION:")
		for i, e := range r.Education {
			fmt.Fprintf(w, "  %d. %s in %s\n", i+1, e.Degree, e.Field)
			fmt.Fprintf(w, "     Institution: %s\n", e.Institution)
			fmt.Fprintf(w, "     Graduation Year: %d\n", e.GraduationYear)
			if e.HasGPA() {
				fmt.Fprintf(w, "     GPA: %g\n", *e.GPA)
			}
		}
	}

	fmt.Fprintf(w, "\nCreated: %s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated: %s\n", r.UpdatedAt.Format(time.RFC3339))
}

// printSummaries renders one line per resume, or empty when there are none.
func (a *app) printSummaries(heading string, rs []*resume.Resume, empty string) error {
	if a.asJSON {
		plain := make([]resume.PlainResume, len(rs))
		for i, r := range rs {
			plain[i] = r.ToPlain()
		}
		return a.printJSON(plain)
	}

	if len(rs) == 0 {
		fmt.Fprintln(a.out, empty)
		return nil
	}
	fmt.Fprintf(a.out, "\n=== %s (%d) ===\n", heading, len(rs))
	for _, r := range rs {
		name := r.Name()
		if name == "" {
			name = "Unknown"
		}
		email := r.Email()
		if email == "" {
			email = "No email"
		}
		fmt.Fprintf(a.out, "ID: %s | Name: %s | Email: %s\n", r.ID, name, email)
	}
	return nil
}

func (a *app) printStatistics(s manager.Statistics) {
	w := a.out
	fmt.Fprintln(w, "\n=== Database Statistics ===")
	fmt.Fprintf(w, "Total Resumes: %d\n", s.TotalResumes)
	fmt.Fprintf(w, "Total Skills: %d\n", s.TotalSkills)
	fmt.Fprintf(w, "Average Skills per Resume: %.2f\n", s.AverageSkillsPerResume)

	if len(s.TopSkills) > 0 {
		fmt.Fprintln(w, "\nMost Common Skills:")
		for _, sc := range s.TopSkills {
			fmt.Fprintf(w, "  %s: %d resumes\n", sc.Skill, sc.Count)
		}
	}
}

// infoKeys orders personal info with name and email first, then the rest
// alphabetically.
func infoKeys(info map[string]string) []string {
	keys := make([]string, 0, len(info))
	for k := range info {
		if k != resume.KeyName && k != resume.KeyEmail {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var head []string
	for _, k := range []string{resume.KeyName, resume.KeyEmail} {
		if _, ok := info[k]; ok {
			head = append(head, k)
		}
	}
	return append(head, keys...)
}

// title capitalizes the first letter of each underscore- or space-separated
// word.
func title(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
