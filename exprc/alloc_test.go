package exprc

import "testing"

func TestAllocateParallelAddsGetSeparateAdders(t *testing.T) {
	r := mustCompile(t, "out X = (A + B) * (C + D);")

	assert(t, len(r.Path.Adders) == 2, "expected 2 adders (both step-1 adds run in parallel), got %d", len(r.Path.Adders))
	assert(t, len(r.Path.Multipliers) == 1, "expected 1 multiplier, got %d", len(r.Path.Multipliers))
	assert(t, len(r.Path.Registers) == 2, "expected 2 registers carrying the add results into step 2 (one reused for the product), got %d", len(r.Path.Registers))
	assert(t, len(r.Path.Inputs) == 4, "expected 4 named inputs, got %d", len(r.Path.Inputs))
	assert(t, len(r.Path.Outputs) == 1, "expected 1 output, got %d", len(r.Path.Outputs))
}

func TestAllocateBareRenameNeedsNoRegister(t *testing.T) {
	r := mustCompile(t, "out X = A;")
	assert(t, len(r.Path.Registers) == 0, "a value read back at exactly step 1 should never need a register, got %d", len(r.Path.Registers))
}

func TestAllocateDriversAreUniquePerStepAndPort(t *testing.T) {
	r := mustCompile(t, "out X = (A + B) * (C + D);")
	seen := map[driverKey]bool{}
	for _, e := range r.Path.Drivers() {
		k := driverKey{Step: e.Step, In: e.In}
		assert(t, !seen[k], "duplicate driver entry for step %d port %s", e.Step, e.In)
		seen[k] = true
	}
	assert(t, len(seen) > 0, "expected at least one driver entry")
}
