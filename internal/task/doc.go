// Package task provides the in-process background task runtime: a bounded
// task queue and a worker pool that drains it. Side effects that must not
// run on request-scoped resources (such as welcome notifications) are
// enqueued here and executed on dedicated workers.
package task
