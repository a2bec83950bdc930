package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"goacpi/aml"
	"goacpi/printer"
)

func named(t *testing.T, name string, node *aml.Node) *aml.Node {
	t.Helper()
	seg, err := aml.NameSegmentFromString(name)
	if err != nil {
		t.Fatal(err)
	}
	node.Name = seg
	return node
}

func TestFormatNode(t *testing.T) {
	tests := []struct {
		name string
		node *aml.Node
		want string
	}{
		{
			"device",
			aml.NewDeviceNode(),
			"DEV0: Device",
		},
		{
			"scope",
			aml.NewScopeNode(),
			"DEV0: Scope",
		},
		{
			"integer name",
			aml.NewNameNode(aml.ByteValue(0x11)),
			"DEV0: Integer with value 17, or 0x11",
		},
		{
			"string name",
			aml.NewNameNode(aml.StringValue("hello")),
			"DEV0: String",
		},
		{
			"buffer name",
			aml.NewNameNode(aml.BufferValue([]byte{1, 2})),
			"DEV0: Buffer",
		},
		{
			"package name",
			aml.NewNameNode(aml.PackageValue(nil)),
			"DEV0: Package",
		},
		{
			"method",
			&aml.Node{Kind: aml.NodeMethod, MethodStart: 43, MethodEnd: 46, MethodFlags: 0x0B},
			"DEV0: Method(Args: 3, Start: 43, End: 46, Flags: 11)",
		},
		{
			"operation region",
			&aml.Node{Kind: aml.NodeOperationRegion},
			"DEV0: Op. Region",
		},
		{
			"field",
			&aml.Node{Kind: aml.NodeField},
			"DEV0: Field",
		},
		{
			"buffer field",
			&aml.Node{Kind: aml.NodeBufferField, BitOffset: 8, BitWidth: 32},
			"DEV0: BufferField(Offset: 8 bits, Size: 32 bits)",
		},
		{
			"processor",
			&aml.Node{Kind: aml.NodeProcessor},
			"DEV0: Processor (Depr.)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printer.FormatNode(named(t, "DEV0", tt.node))
			if got != tt.want {
				t.Errorf("FormatNode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteNamespace(t *testing.T) {
	table := aml.NewTable()
	root := table.NamespaceRoot()

	sb, err := root.FindChildName("_SB_")
	if err != nil {
		t.Fatal(err)
	}
	if err := sb.InsertChildName("COMP", aml.NewDeviceNode()); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printer.WriteNamespace(&buf, table); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"____: Device",
		"  _SB_: Device",
		"    COMP: Device",
		"  _TZ_: Device",
		"  _PR_: Scope",
		"  _SI_: Scope",
		"  _GPE: Scope",
		"  _DS_: Device",
		"  _REV: Integer with value 1, or 0x1",
		"  _OSI: Integer with value 0, or 0x0",
	}

	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("namespace dump mismatch (-want +got):\n%s", diff)
	}
}
