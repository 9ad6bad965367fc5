// Package entry resolves which sleep entry a screen shows and derives the
// strings that screen displays.
package entry

import "github.com/yourname/sleepdiary/internal"

type SourceKind int

const (
	// Provided means the caller handed the entry over (e.g. from the entries list).
	Provided SourceKind = iota
	// FallbackLookup means the entry comes from the locally cached yesterday's entry.
	FallbackLookup
)

func (k SourceKind) String() string {
	switch k {
	case Provided:
		return "provided"
	case FallbackLookup:
		return "fallback"
	}
	return "unknown"
}

// EntrySource is fixed when a screen is built and resolved exactly once.
type EntrySource struct {
	kind  SourceKind
	entry internal.SleepEntry
}

func ProvidedEntry(e internal.SleepEntry) EntrySource {
	return EntrySource{kind: Provided, entry: e}
}

func Fallback() EntrySource {
	return EntrySource{kind: FallbackLookup}
}

// SourceFor picks the source the way the entries list does: an entry without
// a date is treated as no entry at all.
func SourceFor(e *internal.SleepEntry) EntrySource {
	if e == nil || e.Date == "" {
		return Fallback()
	}
	return ProvidedEntry(*e)
}

func (s EntrySource) Kind() SourceKind { return s.kind }

// Entry returns the provided entry; ok is false for FallbackLookup.
func (s EntrySource) Entry() (e internal.SleepEntry, ok bool) {
	return s.entry, s.kind == Provided
}
