package manager

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/vinayprograms/resumekit/errors"
	"github.com/vinayprograms/resumekit/logging"
	"github.com/vinayprograms/resumekit/resume"
	"github.com/vinayprograms/resumekit/store"
	"github.com/vinayprograms/resumekit/telemetry"
)

// Manager is the authoritative resume collection.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	resumes map[string]*resume.Resume
	order   []string // insertion order of ids

	logger *logging.Logger
	tracer *telemetry.Tracer
	events telemetry.Exporter
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Default logs to stderr at info level.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithTracer sets the tracer. Default is the global telemetry tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(m *Manager) {
		m.tracer = t
	}
}

// WithExporter sets the mutation event exporter. Default discards events.
func WithExporter(e telemetry.Exporter) Option {
	return func(m *Manager) {
		m.events = e
	}
}

// New creates a manager over st and loads its document.
// A load failure is logged and leaves the manager empty.
func New(ctx context.Context, st store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   st,
		resumes: make(map[string]*resume.Resume),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.New()
	}
	m.logger = m.logger.WithComponent("manager")
	if m.tracer == nil {
		m.tracer = telemetry.GetTracer()
	}
	if m.events == nil {
		m.events = telemetry.NewNoopExporter()
	}

	m.Load(ctx)
	return m
}

// Load replaces the collection with the store's document.
// A missing document yields an empty collection and no error. On a read
// or decode failure the collection is left empty and the error returned.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracer.StartOpSpan(ctx, "load", "")
	err := m.load(ctx)
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: err == nil, Results: len(m.order)}, err)
	return err
}

func (m *Manager) load(ctx context.Context) error {
	start := time.Now()
	loc := m.store.Location()
	m.resumes = make(map[string]*resume.Resume)
	m.order = nil

	ctx, span := m.tracer.StartStoreSpan(ctx, "read")
	data, err := m.store.Read(ctx)
	if err == store.ErrNotFound {
		m.tracer.EndStoreSpan(span, telemetry.StoreSpanOptions{Location: loc}, nil)
		m.logger.StoreEmpty(loc)
		return nil
	}
	if err != nil {
		err = storeError(err, "read", loc)
		m.tracer.EndStoreSpan(span, telemetry.StoreSpanOptions{Location: loc}, err)
		m.logger.StoreLoadFailed(loc, err)
		return err
	}

	resumes, order, err := decode(data)
	m.tracer.EndStoreSpan(span, telemetry.StoreSpanOptions{Location: loc, Bytes: len(data), Resumes: len(order)}, err)
	if err != nil {
		m.logger.StoreLoadFailed(loc, err)
		return err
	}

	m.resumes = resumes
	m.order = order
	m.logger.StoreLoaded(loc, len(order), time.Since(start))
	return nil
}

// decode builds the collection from a document. The document key is the
// lookup key. Any bad entry fails the whole document.
func decode(data []byte) (map[string]*resume.Resume, []string, error) {
	entries, err := store.Decode(data)
	if err != nil {
		return nil, nil, err
	}

	resumes := make(map[string]*resume.Resume, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		r, err := resume.FromPlain(e.Resume)
		if err != nil {
			return nil, nil, errors.Wrap(err, "decode resume", errors.WithResumeID(e.ID))
		}
		resumes[e.ID] = r
		order = append(order, e.ID)
	}
	return resumes, order, nil
}

// Save writes the whole collection to the store.
// On failure the error is logged and returned; memory is unchanged.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracer.StartOpSpan(ctx, "save", "")
	err := m.save(ctx)
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(m.order)}, err)
	return err
}

func (m *Manager) save(ctx context.Context) error {
	loc := m.store.Location()

	entries := make([]store.Entry, 0, len(m.order))
	for _, id := range m.order {
		entries = append(entries, store.Entry{ID: id, Resume: m.resumes[id].ToPlain()})
	}
	data, err := store.Encode(entries)
	if err != nil {
		m.logger.StoreSaveFailed(loc, err)
		return err
	}

	ctx, span := m.tracer.StartStoreSpan(ctx, "write")
	err = m.store.Write(ctx, data)
	if err != nil {
		err = storeError(err, "write", loc)
	}
	m.tracer.EndStoreSpan(span, telemetry.StoreSpanOptions{Location: loc, Bytes: len(data), Resumes: len(entries)}, err)
	if err != nil {
		m.logger.StoreSaveFailed(loc, err)
		return err
	}

	m.logger.StoreSaved(loc, len(entries), len(data))
	return nil
}

// persist saves after a mutation. Failures are already logged by save and
// do not undo the mutation.
func (m *Manager) persist(ctx context.Context) {
	_ = m.save(ctx)
}

func storeError(err error, action, location string) error {
	msg := action + " " + location
	if errors.AsRecordError(err) != nil ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, msg)
	}
	return errors.WrapWithCode(err, errors.ErrCodeStorage, msg, errors.WithMetadata("location", location))
}

// Create adds a new resume with the given personal info.
// It fails with DUPLICATE_ID if the id exists, and with VALIDATION if the id
// is empty or name or email is missing or empty.
func (m *Manager) Create(ctx context.Context, id string, personalInfo map[string]string) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracer.StartOpSpan(ctx, "create", id)
	r, err := m.create(ctx, id, personalInfo)
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: err == nil, Results: -1}, err)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (m *Manager) create(ctx context.Context, id string, personalInfo map[string]string) (*resume.Resume, error) {
	if _, exists := m.resumes[id]; exists {
		return nil, errors.DuplicateID(id)
	}
	if id == "" {
		return nil, errors.Validation("resume_id", "resume id must not be empty")
	}
	for _, key := range []string{resume.KeyName, resume.KeyEmail} {
		if personalInfo[key] == "" {
			return nil, errors.Validation(key, "name and email are required", errors.WithResumeID(id))
		}
	}

	r := resume.New(id, personalInfo)
	m.resumes[id] = r
	m.order = append(m.order, id)
	m.persist(ctx)

	m.logger.RecordCreated(id)
	m.events.LogEvent(telemetry.EventCreated, id, nil)
	return r, nil
}

// Get returns a copy of the resume with the given id.
func (m *Manager) Get(ctx context.Context, id string) (*resume.Resume, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "get", id)
	r, ok := m.resumes[id]
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: ok, Results: -1}, nil)
	if !ok {
		return nil, false
	}
	return r.Clone(), true
}

// List returns copies of all resumes in insertion order.
func (m *Manager) List(ctx context.Context) []*resume.Resume {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, span := m.tracer.StartOpSpan(ctx, "list", "")
	out := m.collect(func(*resume.Resume) bool { return true })
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: true, Results: len(out)}, nil)
	return out
}

// Len returns the number of resumes.
func (m *Manager) Len(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Update applies a patch to an existing resume. Personal info is merged
// key by key; skills are replaced when the patch carries them.
// It returns false if the id is unknown.
func (m *Manager) Update(ctx context.Context, id string, patch resume.Patch) bool {
	return m.mutate(ctx, "update", id, func(r *resume.Resume) {
		r.Apply(patch)
		data := map[string]interface{}{}
		if patch.PersonalInfo != nil {
			keys := make([]string, 0, len(patch.PersonalInfo))
			for k := range patch.PersonalInfo {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			data["personal_info"] = keys
		}
		if patch.Skills != nil {
			data["skills"] = len(r.Skills)
		}
		m.events.LogEvent(telemetry.EventUpdated, id, data)
	})
}

// Delete removes a resume. It returns false, without saving, if the id is
// unknown.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracer.StartOpSpan(ctx, "delete", id)
	_, ok := m.resumes[id]
	if ok {
		delete(m.resumes, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		m.persist(ctx)
		m.logger.RecordDeleted(id)
		m.events.LogEvent(telemetry.EventDeleted, id, nil)
	}
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: ok, Results: -1}, nil)
	return ok
}

// AddExperience appends a work experience entry.
// It returns false if the id is unknown.
func (m *Manager) AddExperience(ctx context.Context, id string, exp resume.Experience) bool {
	return m.mutate(ctx, "add_experience", id, func(r *resume.Resume) {
		r.AddExperience(exp)
		m.events.LogEvent(telemetry.EventExperienceAdded, id, map[string]interface{}{
			"company":  exp.Company,
			"position": exp.Position,
		})
	})
}

// AddEducation appends an education entry.
// It returns false if the id is unknown.
func (m *Manager) AddEducation(ctx context.Context, id string, edu resume.Education) bool {
	return m.mutate(ctx, "add_education", id, func(r *resume.Resume) {
		r.AddEducation(edu)
		m.events.LogEvent(telemetry.EventEducationAdded, id, map[string]interface{}{
			"institution": edu.Institution,
			"degree":      edu.Degree,
		})
	})
}

// AddSkill adds a skill unless the exact string is already present.
// It saves and returns true for any known id, even when the skill was a
// duplicate; it returns false only if the id is unknown.
func (m *Manager) AddSkill(ctx context.Context, id, skill string) bool {
	return m.mutate(ctx, "add_skill", id, func(r *resume.Resume) {
		if r.AddSkill(skill) {
			m.events.LogEvent(telemetry.EventSkillAdded, id, map[string]interface{}{"skill": skill})
		}
	})
}

// mutate runs fn on the stored resume and saves.
func (m *Manager) mutate(ctx context.Context, op, id string, fn func(*resume.Resume)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, span := m.tracer.StartOpSpan(ctx, op, id)
	r, ok := m.resumes[id]
	if ok {
		fn(r)
		m.persist(ctx)
		m.logger.RecordMutated(id, op)
	}
	m.tracer.EndOpSpan(span, telemetry.OpSpanOptions{Found: ok, Results: -1}, nil)
	return ok
}

// collect returns copies of matching resumes in insertion order.
// Callers hold the lock.
func (m *Manager) collect(match func(*resume.Resume) bool) []*resume.Resume {
	out := make([]*resume.Resume, 0)
	for _, id := range m.order {
		r := m.resumes[id]
		if match(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Close closes the backing store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Close()
}
