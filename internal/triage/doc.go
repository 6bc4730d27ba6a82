// Package triage implements the triage desk engine: the vital-sign
// classifier, the evaluation lifecycle state machine, and the dashboard
// statistics aggregation.
package triage
