// Package services holds cross-cutting helpers shared by the sweep engine
// and its collaborators: the error taxonomy used to decide whether a failure
// skips one item or aborts the run, and context annotations that carry sweep
// and item identity into logs.
package services
