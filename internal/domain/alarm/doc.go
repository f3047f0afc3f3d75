// Package alarm contains the value types the watchdog hands out to the rest
// of the system.
//
// Info describes a live alarm, Stats summarizes a scheduler, Firing records a
// reported alarm and Actor identifies the process that reported it. All of
// them are plain copies; Clone helpers avoid leaking internal references.
package alarm
