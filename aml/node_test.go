package aml_test

import (
	"errors"
	"testing"

	"goacpi/aml"
)

func buildTestTree(t *testing.T) *aml.Node {
	t.Helper()

	root := aml.NewDeviceNode()
	sb := aml.NewDeviceNode()
	if err := root.InsertChildName("_SB_", sb); err != nil {
		t.Fatal(err)
	}
	pci := aml.NewDeviceNode()
	if err := sb.InsertChildName("PCI0", pci); err != nil {
		t.Fatal(err)
	}
	if err := pci.InsertChildName("LPCB", aml.NewDeviceNode()); err != nil {
		t.Fatal(err)
	}
	if err := root.InsertChildName("_TZ_", aml.NewScopeNode()); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestInsertChildOrder(t *testing.T) {
	root := aml.NewDeviceNode()
	names := []string{"AAA_", "BBB_", "CCC_", "DDD_"}
	for _, name := range names {
		if err := root.InsertChildName(name, aml.NewDeviceNode()); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		got = append(got, child.Name.String())
	}

	if len(got) != len(names) {
		t.Fatalf("got %d children, want %d", len(got), len(names))
	}
	for i := range names {
		if got[i] != names[i] {
			t.Errorf("child %d = %q, want %q", i, got[i], names[i])
		}
	}
}

func TestInsertChildDuplicate(t *testing.T) {
	root := aml.NewDeviceNode()
	if err := root.InsertChildName("FOO_", aml.NewDeviceNode()); err != nil {
		t.Fatal(err)
	}

	err := root.InsertChildName("FOO_", aml.NewDeviceNode())
	if !errors.Is(err, aml.ErrDuplicateChild) {
		t.Errorf("second insert error = %v, want ErrDuplicateChild", err)
	}
}

func TestFindChildParentLinks(t *testing.T) {
	root := buildTestTree(t)

	sb, err := root.FindChildName("_SB_")
	if err != nil {
		t.Fatal(err)
	}
	if sb.Parent != root {
		t.Error("child's parent link should point at the root")
	}

	if _, err := root.FindChildName("NOPE"); !errors.Is(err, aml.ErrPathNotFound) {
		t.Errorf("missing child error = %v, want ErrPathNotFound", err)
	}
}

func TestFindNodeAbsolute(t *testing.T) {
	root := buildTestTree(t)
	sb, _ := root.FindChildName("_SB_")
	pci, _ := sb.FindChildName("PCI0")

	path, err := aml.ParseNameStringText(`\_SB_.PCI0.LPCB`)
	if err != nil {
		t.Fatal(err)
	}

	// Absolute paths resolve from the root wherever the scope sits.
	node, err := aml.FindNode(path, pci)
	if err != nil {
		t.Fatal(err)
	}
	if node.Name.String() != "LPCB" {
		t.Errorf("found %q, want LPCB", node.Name.String())
	}
}

func TestFindNodeRelativeDepth(t *testing.T) {
	root := buildTestTree(t)
	sb, _ := root.FindChildName("_SB_")
	pci, _ := sb.FindChildName("PCI0")

	path, err := aml.ParseNameStringText(`^^_TZ_`)
	if err != nil {
		t.Fatal(err)
	}

	node, err := aml.FindNode(path, pci)
	if err != nil {
		t.Fatal(err)
	}
	if node != root.FirstChild.NextSibling {
		t.Error("relative lookup should land on _TZ_")
	}
}

func TestFindNodeDepthOverflow(t *testing.T) {
	root := buildTestTree(t)
	sb, _ := root.FindChildName("_SB_")

	path, err := aml.ParseNameStringText(`^^^FOO_`)
	if err != nil {
		t.Fatal(err)
	}

	_, err = aml.FindNode(path, sb)
	if !errors.Is(err, aml.ErrPathDepthOverflow) {
		t.Errorf("FindNode error = %v, want ErrPathDepthOverflow", err)
	}
}

func TestInsertNodeRelativeMultiSegment(t *testing.T) {
	root := buildTestTree(t)
	sb, _ := root.FindChildName("_SB_")

	path, err := aml.ParseNameStringText(`PCI0.USB0`)
	if err != nil {
		t.Fatal(err)
	}

	node := aml.NewDeviceNode()
	if err := aml.InsertNode(path, sb, root, node); err != nil {
		t.Fatal(err)
	}

	pci, _ := sb.FindChildName("PCI0")
	if got, err := pci.FindChildName("USB0"); err != nil || got != node {
		t.Errorf("USB0 not inserted under PCI0: %v", err)
	}
}

func TestInsertNodeAbsolute(t *testing.T) {
	root := buildTestTree(t)
	sb, _ := root.FindChildName("_SB_")
	pci, _ := sb.FindChildName("PCI0")

	path, err := aml.ParseNameStringText(`\_SB_.PCI0.COM1`)
	if err != nil {
		t.Fatal(err)
	}

	// Scope is deep inside the tree; the absolute path wins.
	if err := aml.InsertNode(path, pci, root, aml.NewDeviceNode()); err != nil {
		t.Fatal(err)
	}
	if _, err := pci.FindChildName("COM1"); err != nil {
		t.Errorf("COM1 not inserted under PCI0: %v", err)
	}
}

func TestInsertNodeDepthOverflow(t *testing.T) {
	root := buildTestTree(t)

	path, err := aml.ParseNameStringText(`^^BAD_`)
	if err != nil {
		t.Fatal(err)
	}

	err = aml.InsertNode(path, root, root, aml.NewDeviceNode())
	if !errors.Is(err, aml.ErrPathDepthOverflow) {
		t.Errorf("InsertNode error = %v, want ErrPathDepthOverflow", err)
	}
}

func TestInsertNodeNullName(t *testing.T) {
	root := buildTestTree(t)

	err := aml.InsertNode(aml.NameString{}, root, root, aml.NewDeviceNode())
	if !errors.Is(err, aml.ErrInvalidNullName) {
		t.Errorf("InsertNode error = %v, want ErrInvalidNullName", err)
	}
}
