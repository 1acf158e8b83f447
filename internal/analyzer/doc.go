// Package analyzer ties the two extraction pipelines to files on disk.
//
// Ownership boundary:
// - analysis stream file -> protocol tree -> model.Project
// - project container file -> signature scan -> catalog -> version report
// - per-call metrics and logs
//
// The pipelines share no state; every call is independent.
package analyzer
