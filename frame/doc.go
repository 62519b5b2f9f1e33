/*
Package frame provides a deferred execution strategy that runs callbacks at the next frame boundary
instead of after a fixed delay.  It is the server-side analog of a display's animation frame: work
requested at any point during a frame is batched and run together when the frame ticks.

A Scheduler is a concurrent.Runnable.  Callbacks scheduled before Run is called, or while the
Scheduler is stopped, wait for the first frame after it starts.
*/
package frame
