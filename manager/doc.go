// Package manager owns the resume collection and keeps it in sync with a
// backing store.
//
// A Manager loads the whole document on construction and rewrites it after
// every mutation. In-memory state is authoritative: a failed save is logged
// and the collection keeps the change. A store that cannot be read or
// decoded is logged and replaced by an empty collection on the next save.
//
// # Usage
//
//	m := manager.New(ctx, store.NewFileStore("resumes.json"))
//	defer m.Close()
//
//	if _, err := m.Create(ctx, "jdoe", map[string]string{
//	    "name":  "Jane Doe",
//	    "email": "jane@example.com",
//	}); err != nil {
//	    return err
//	}
//	m.AddSkill(ctx, "jdoe", "Go")
//
//	for _, r := range m.Search(ctx, "go") {
//	    fmt.Println(r)
//	}
//
// Lookups return deep copies; change a resume only through the manager.
// Unknown ids are reported through boolean results, never as errors.
//
// All methods are safe for concurrent use. Two managers sharing one store
// are not coordinated: the last save wins.
package manager
