/*
Package capacitor provides a configurable delay for a series of function calls.  A capacitor is discharged
when it is time to actually invoke the target function.

Each submitted function replaces the one before it, and every submission restarts the delay, so only
the last function of a burst runs.  A maximum delay bounds how long a steady stream of submissions
can hold off a discharge.
*/
package capacitor
