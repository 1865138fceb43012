// Package reconcile partitions two normalized classification catalogs into
// matched, surplus (portal only) and deficit (regulation only) sets.
//
// Codes are joined strictly by exact code string. For matched codes each field
// is merged by a configurable Policy; when both sources supply differing values
// the policy's value is kept and the pair is recorded in SourceConflicts.
//
// A pass is rejected with an InputError only when a catalog is empty or repeats
// a code. The computation is deterministic: the same inputs always produce the
// same Result.
package reconcile
