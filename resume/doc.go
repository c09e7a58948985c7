// Package resume defines the personal records managed by resumekit.
//
// A Resume holds personal info, work experience, education and skills.
// Each entity converts to a tagged plain-data form (PlainResume,
// PlainExperience, PlainEducation) used for persistence. Optional fields
// are written as explicit JSON null so a plain form always carries every
// key, and decoding a plain form fails with a MISSING_FIELD error when a
// required key is absent.
//
// Collections only grow through AddExperience, AddEducation and AddSkill.
// Skills are unique by exact, case-sensitive comparison.
package resume
