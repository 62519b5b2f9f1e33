/*
Package debounce wraps a function so that a burst of calls collapses into at most one real invocation
per wait window.

A Debounced function invokes its target on the leading edge of a burst, the trailing edge, or both.
An optional maximum wait forces an invocation during a burst that never goes quiet, and an optional
call ceiling stops invocations altogether until Cancel is called.  Every call returns the result of
the most recent real invocation, so callers always observe some value.

Time is read from a clock.Interface and deferred work is scheduled through a Strategy, both of which
can be replaced for testing or for frame-aligned execution.
*/
package debounce
