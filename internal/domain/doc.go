// Package domain contains the core entities of the schedule-generation
// orchestration service: schedule requests, task status records and
// their state machine, and the read-only reference templates the
// validator cross-references.
package domain
