package exprc

import (
	"fmt"
	"strings"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func mustCompile(t *testing.T, src string) *Result {
	t.Helper()
	r, err := Compile(strings.NewReader(src))
	assert(t, err == nil, "failed to compile: %s", err)
	return r
}
