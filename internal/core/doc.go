// Package core is the question bank engine. It has no knowledge of HTTP or
// the command line; web handlers, the CLI and tests drive it through Service.
//
// # Data flow
//
// A question file is read whole, parsed by internal/csv, and each row is
// normalized onto the canonical schema (see [Schema] for the header aliases
// accepted). Rows without a question ID are skipped and counted. The
// normalized batch is merged into the [Store]: new IDs are inserted, known
// IDs take every non-empty incoming field. Files merge one at a time in the
// order they were requested.
//
// # Views
//
// Case groups and revision groups are derived from the store on every call
// and never stored. A revision is recognized by a trailing "R" plus digits on
// the question ID, which can also match IDs that only look like revisions.
//
// # Authoring
//
// The session has one form in new, edit or revise mode. [PlanSave] and the
// Enter* functions are pure: they validate a transition and return the next
// [Form] or an error, and [Session] applies the result. Edit mode starts
// locked; hard fields stay frozen until an explicit, confirmed unlock, and an
// edit save only ever writes soft fields. New and revise saves never merge
// into an existing ID.
//
// # Error Handling
//
// Session failures are sentinel errors ([ErrRecordNotFound],
// [ErrDuplicateIdentifier], [ErrFormLocked], [ErrEmptyExportSet] and
// others) wrapped with %w. [MapError] turns any error into a [UserMessage]
// with a support code.
package core
