package mapping

import (
	"reflect"
	"testing"
)

func TestRebuildAndLookup(t *testing.T) {
	table := NewTable()
	table.Rebuild([]Mapping{
		{Name: "Count", GeneratorRef: "scripts/count.go", Enabled: true},
		{Name: "chart", GeneratorRef: "scripts/chart.go", Enabled: true},
		{Name: "off", GeneratorRef: "scripts/off.go", Enabled: false},
	})
	m, ok := table.Lookup("COUNT")
	if !ok {
		t.Fatalf("expected count to resolve")
	}
	if m.GeneratorRef != "scripts/count.go" {
		t.Fatalf("unexpected ref: %s", m.GeneratorRef)
	}
	if _, ok := table.Lookup("off"); ok {
		t.Fatalf("disabled mapping must be absent from the index")
	}
	if got := table.Names(); !reflect.DeepEqual(got, []string{"chart", "count"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestRebuildReplacesWholesale(t *testing.T) {
	table := NewTable()
	table.Rebuild([]Mapping{{Name: "a", GeneratorRef: "a.go", Enabled: true}})
	table.Rebuild([]Mapping{{Name: "b", GeneratorRef: "b.go", Enabled: true}})
	if _, ok := table.Lookup("a"); ok {
		t.Fatalf("stale entry survived rebuild")
	}
	if _, ok := table.Lookup("b"); !ok {
		t.Fatalf("new entry missing after rebuild")
	}
}

func TestRebuildEmpty(t *testing.T) {
	table := NewTable()
	table.Rebuild([]Mapping{{Name: "a", GeneratorRef: "a.go", Enabled: true}})
	table.Rebuild(nil)
	if _, ok := table.Lookup("a"); ok {
		t.Fatalf("lookup after empty rebuild must be absent")
	}
	if len(table.Names()) != 0 {
		t.Fatalf("names should be empty")
	}
}

func TestRebuildSkipsBlankEntries(t *testing.T) {
	table := NewTable()
	table.Rebuild([]Mapping{
		{Name: "  ", GeneratorRef: "x.go", Enabled: true},
		{Name: "x", GeneratorRef: "", Enabled: true},
	})
	if len(table.Names()) != 0 {
		t.Fatalf("blank entries must be skipped, got %v", table.Names())
	}
}
