// Package form implements input sanitization and validation for the
// Mietradar entry forms.
//
// Sanitization runs on every keystroke and keeps field values inside a
// strict per-field grammar (digits, at most one decimal comma, bounded
// digit counts). Validation runs on submit, evaluates every rule without
// short-circuiting, and returns a field-to-message map so all violations
// can be shown together. Both layers are pure functions with no UI or
// network dependencies.
package form
