// Package journal persists reported alarm firings.
//
// The FileJournal appends one protojson-encoded record per firing to a file
// and reads them back. Reporter adapts a journal into a watchdog reporter.
package journal
