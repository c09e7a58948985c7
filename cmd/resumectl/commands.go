package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/resume"
)

type command struct {
	name    string
	summary string
	run     func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"create", "create a resume", (*app).create},
	{"get", "show one resume", (*app).get},
	{"list", "list all resumes", (*app).list},
	{"update", "change personal info or replace skills", (*app).update},
	{"delete", "delete a resume", (*app).remove},
	{"add-experience", "add a work experience entry", (*app).addExperience},
	{"add-education", "add an education entry", (*app).addEducation},
	{"add-skill", "add comma-separated skills", (*app).addSkill},
	{"search", "search names, emails, skills, companies and schools", (*app).search},
	{"filter-skill", "list resumes with a matching skill", (*app).filterSkill},
	{"filter-experience", "list resumes with at least N experience entries", (*app).filterExperience},
	{"stats", "show database statistics", (*app).stats},
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	for _, c := range commands {
		if c.name == name {
			return c.run(a, ctx, args)
		}
	}
	return errors.InvalidInput(fmt.Sprintf("unknown command %q", name))
}

// pairs collects repeated -set key=value flags.
type pairs map[string]string

func (p pairs) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (p pairs) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[k] = strings.TrimSpace(v)
	return nil
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// required rejects blank values before they reach the manager.
func required(values ...[2]string) error {
	for _, v := range values {
		if strings.TrimSpace(v[1]) == "" {
			return errors.Validation(v[0], "-"+v[0]+" is required")
		}
	}
	return nil
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func notFound(id string) error {
	return errors.NotFound(id)
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "create")
	id := fs.String("id", "", "resume id (default: random UUID)")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	address := fs.String("address", "", "postal address")
	extra := pairs{}
	fs.Var(extra, "set", "extra personal info as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required([2]string{"name", *name}, [2]string{"email", *email}); err != nil {
		return err
	}

	resumeID := strings.TrimSpace(*id)
	if resumeID == "" {
		resumeID = resume.NewID()
	}

	info := map[string]string{}
	for k, v := range extra {
		info[k] = v
	}
	info[resume.KeyName] = strings.TrimSpace(*name)
	info[resume.KeyEmail] = strings.TrimSpace(*email)
	if p := strings.TrimSpace(*phone); p != "" {
		info["phone"] = p
	}
	if addr := strings.TrimSpace(*address); addr != "" {
		info["address"] = addr
	}

	r, err := a.mgr.Create(ctx, resumeID, info)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.printJSON(r.ToPlain())
	}
	fmt.Fprintf(a.out, "Resume '%s' created successfully!\n", r.ID)
	return nil
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "get")
	id := fs.String("id", "", "resume id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required([2]string{"id", *id}); err != nil {
		return err
	}

	r, ok := a.mgr.Get(ctx, *id)
	if !ok {
		return notFound(*id)
	}
	if a.asJSON {
		return a.printJSON(r.ToPlain())
	}
	a.printResume(r)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.printSummaries("All Resumes", a.mgr.List(ctx), "No resumes found.")
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "update")
	id := fs.String("id", "", "resume id")
	skills := fs.String("skills", "", "replace all skills with this comma-separated list")
	set := pairs{}
	fs.Var(set, "set", "personal info to change as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required([2]string{"id", *id}); err != nil {
		return err
	}

	var patch resume.Patch
	if len(set) > 0 {
		patch.PersonalInfo = set
	}
	skillsSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "skills" {
			skillsSet = true
		}
	})
	if skillsSet {
		patch.Skills = splitList(*skills)
	}
	if patch.PersonalInfo == nil && patch.Skills == nil {
		return errors.InvalidInput("nothing to update: pass -set or -skills")
	}

	if !a.mgr.Update(ctx, *id, patch) {
		return notFound(*id)
	}
	fmt.Fprintf(a.out, "Resume '%s' updated successfully!\n", *id)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "delete")
	id := fs.String("id", "", "resume id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required([2]string{"id", *id}); err != nil {
		return err
	}

	if !a.mgr.Delete(ctx, *id) {
		return notFound(*id)
	}
	fmt.Fprintf(a.out, "Resume '%s' deleted successfully!\n", *id)
	return nil
}

func (a *app) addExperience(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "add-experience")
	id := fs.String("id", "", "resume id")
	company := fs.String("company", "", "company")
	position := fs.String("position", "", "position")
	start := fs.String("start", "", "start date (YYYY-MM)")
	end := fs.String("end", "", "end date (YYYY-MM), empty or 'current' if ongoing")
	description := fs.String("description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(
		[2]string{"id", *id},
		[2]string{"company", *company},
		[2]string{"position", *position},
		[2]string{"start", *start},
	); err != nil {
		return err
	}

	exp := resume.Experience{
		Company:     strings.TrimSpace(*company),
		Position:    strings.TrimSpace(*position),
		StartDate:   strings.TrimSpace(*start),
		Description: strings.TrimSpace(*description),
	}
	if e := strings.TrimSpace(*end); e != "" && !strings.EqualFold(e, "current") {
		exp.EndDate = &e
	}

	if !a.mgr.AddExperience(ctx, *id, exp) {
		return notFound(*id)
	}
	fmt.Fprintln(a.out, "Experience added successfully!")
	return nil
}

func (a *app) addEducation(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "add-education")
	id := fs.String("id", "", "resume id")
	institution := fs.String("institution", "", "institution")
	degree := fs.String("degree", "", "degree")
	field := fs.String("field", "", "field of study")
	year := fs.String("year", "", "graduation year")
	gpa := fs.String("gpa", "", "GPA (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(
		[2]string{"id", *id},
		[2]string{"institution", *institution},
		[2]string{"degree", *degree},
		[2]string{"field", *field},
		[2]string{"year", *year},
	); err != nil {
		return err
	}

	gradYear, err := strconv.Atoi(strings.TrimSpace(*year))
	if err != nil {
		return errors.Validation("year", "invalid graduation year "+strconv.Quote(*year))
	}
	edu := resume.Education{
		Institution:    strings.TrimSpace(*institution),
		Degree:         strings.TrimSpace(*degree),
		Field:          strings.TrimSpace(*field),
		GraduationYear: gradYear,
	}
	if g := strings.TrimSpace(*gpa); g != "" {
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			return errors.Validation("gpa", "invalid GPA "+strconv.Quote(g))
		}
		edu.GPA = &v
	}

	if !a.mgr.AddEducation(ctx, *id, edu) {
		return notFound(*id)
	}
	fmt.Fprintln(a.out, "Education added successfully!")
	return nil
}

func (a *app) addSkill(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "add-skill")
	id := fs.String("id", "", "resume id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required([2]string{"id", *id}); err != nil {
		return err
	}
	skills := splitList(strings.Join(fs.Args(), ","))
	if len(skills) == 0 {
		return errors.Validation("skill", "at least one skill is required")
	}

	if _, ok := a.mgr.Get(ctx, *id); !ok {
		return notFound(*id)
	}
	added := 0
	for _, s := range skills {
		if a.mgr.AddSkill(ctx, *id, s) {
			added++
		}
	}
	fmt.Fprintf(a.out, "Added %d skills successfully!\n", added)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "search")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return errors.Validation("query", "search query cannot be empty")
	}
	return a.printSummaries("Search Results", a.mgr.Search(ctx, query), "No resumes found matching your query.")
}

func (a *app) filterSkill(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "filter-skill")
	if err := fs.Parse(args); err != nil {
		return err
	}
	skill := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if skill == "" {
		return errors.Validation("skill", "skill cannot be empty")
	}
	return a.printSummaries("Resumes with skill '"+skill+"'", a.mgr.FilterBySkill(ctx, skill), "No resumes found.")
}

func (a *app) filterExperience(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "filter-experience")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.Validation("min", "expected one minimum experience count")
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 0 {
		return errors.Validation("min", "invalid experience count "+strconv.Quote(fs.Arg(0)))
	}
	title := fmt.Sprintf("Resumes with %d+ experiences", n)
	return a.printSummaries(title, a.mgr.FilterByExperienceCount(ctx, n), "No resumes found.")
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := newFlagSet(a, "stats")
	if err := fs.Parse(args); err != nil {
		return err
	}
	stats := a.mgr.Statistics(ctx)
	if a.asJSON {
		return a.printJSON(stats)
	}
	a.printStatistics(stats)
	return nil
}
