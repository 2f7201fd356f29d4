package emit_test

import (
	"reflect"
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/emit"
)

func TestDestSwizzleStringExcludesConstantFills(t *testing.T) {
	got := emit.DestSwizzleString([4]uint32{0, 4, 5, 2})
	if got != "xz" {
		t.Fatalf("DestSwizzleString = %q, want %q", got, "xz")
	}
}

func TestConstantFillStatements(t *testing.T) {
	got := emit.ConstantFillStatements("r0", [4]uint32{4, 0, 5, 7})
	want := []string{"r0.x = 0.0;", "r0.z = 1.0;"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ConstantFillStatements = %v, want %v", got, want)
	}
}
