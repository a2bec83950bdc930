package aml_test

import (
	"testing"

	"goacpi/aml"
)

func TestCanonicalRoot(t *testing.T) {
	table := aml.NewTable()
	root := table.NamespaceRoot()

	if root.Kind != aml.NodeDevice {
		t.Errorf("root kind = %v, want Device", root.Kind)
	}

	want := []struct {
		name string
		kind aml.NodeKind
	}{
		{"_SB_", aml.NodeDevice},
		{"_TZ_", aml.NodeDevice},
		{"_PR_", aml.NodeScope},
		{"_SI_", aml.NodeScope},
		{"_GPE", aml.NodeScope},
		{"_DS_", aml.NodeDevice},
		{"_REV", aml.NodeName},
		{"_OSI", aml.NodeName},
	}

	var count int
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		count++
	}
	if count != len(want) {
		t.Errorf("root has %d children, want %d", count, len(want))
	}

	for _, w := range want {
		child, err := root.FindChildName(w.name)
		if err != nil {
			t.Errorf("missing canonical child %s", w.name)
			continue
		}
		if child.Kind != w.kind {
			t.Errorf("%s kind = %v, want %v", w.name, child.Kind, w.kind)
		}
	}

	rev, err := root.FindChildName("_REV")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := rev.Value.AsInteger(); err != nil || v != 1 {
		t.Errorf("_REV = %d (%v), want 1", v, err)
	}

	osi, err := root.FindChildName("_OSI")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := osi.Value.AsInteger(); err != nil || v != 0 {
		t.Errorf("_OSI = %d (%v), want 0", v, err)
	}
}
