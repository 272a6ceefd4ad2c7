// Package handbook implements lookup tables ("handbooks") on top of xlite:
// two-column tables mapping an engine-assigned integer id to a text name,
// used to normalize repeated strings into integer foreign keys.
//
// Every table has the shape
//
//	CREATE TABLE IF NOT EXISTS <table>(id INTEGER NOT NULL PRIMARY KEY, name TEXT NOT NULL DEFAULT '')
//
// Table names are interpolated into SQL with xlite.Format and are never
// escaped: pass only names chosen by the program.
//
// # Sentinels
//
// GetID returns 0 and GetName returns "" when nothing matches. Engine ids start
// at 1, so 0 is unambiguous as long as no caller inserts id 0 explicitly; an
// empty stored name is indistinguishable from a miss. LookupID and LookupName
// report absence with a separate flag instead.
//
// # Concurrency
//
// GetIDOrInsert looks the name up and inserts it in two separate statements.
// The name column carries no UNIQUE constraint, so two writers racing on the
// same name can both miss and both insert, leaving duplicate names with
// distinct ids. Serialize writers if that matters.
package handbook
