// Package budget chooses inference batch sizes from available memory.
//
// BatchSize is a pure policy: reserve a fraction of the relevant memory pool,
// subtract a fixed per-task overhead, divide by the per-item cost and clamp to
// the task's range. Detect reads system memory from the kernel so callers can
// feed the policy real numbers, and LogHardware reports the chosen profile.
package budget
