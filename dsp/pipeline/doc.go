// Package pipeline composes oscillator, multimode filter and ADSR envelope
// into the per-frame render path of a real-time audio callback.
//
// Three goroutines meet here:
//
//   - The audio callback calls [Pipeline.Process] once per block. It never
//     blocks and never allocates.
//   - The control side owns the [Controller]. Parameter changes are
//     published as immutable [Params] snapshots through an atomic pointer;
//     key events travel over a bounded queue. Both are picked up once at the
//     start of every block, never in the middle of one.
//   - A renderer pulls the most recent output window from the [Scope]. The
//     hand-off is a single slot guarded by a ready flag and is lossy: windows
//     the renderer is too slow to collect are overwritten.
package pipeline
