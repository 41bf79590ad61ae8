package main

import "tinykern/kernel/kmain"

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code. The rt0 code jumps to kmain.Kmain directly; main itself
// is never executed.
func main() {
	kmain.Kmain()
}
