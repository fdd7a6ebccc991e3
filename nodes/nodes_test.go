package nodes

import (
	"testing"

	"github.com/bawdo/exprsql/internal/testutil"
)

type widget struct{}

func (widget) TableName() string { return "Widget" }

type orderLine struct{}

func (orderLine) TableName() string { return "OrderLine" }

// --- Table ---

func TestNewTableExplicitName(t *testing.T) {
	t.Parallel()
	tbl := NewTable("users")
	testutil.AssertEqual(t, tbl.Name(), "users")
	testutil.AssertEqual(t, tbl.Schema(), DefaultSchema)
}

func TestTableForUsesBoundName(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, TableFor[widget]().Name(), "Widget")
	testutil.AssertEqual(t, TableFor[orderLine]().Name(), "OrderLine")
}

func TestTableForDefaultSchema(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, TableFor[widget]().Schema(), "dbo")
}

func TestSetNameOverridesBoundName(t *testing.T) {
	t.Parallel()
	tbl := TableFor[widget]().SetName("Gadget")
	testutil.AssertEqual(t, tbl.Name(), "Gadget")
}

func TestSetNameEmptyRestoresDefault(t *testing.T) {
	t.Parallel()
	tbl := TableFor[widget]().SetName("Gadget").SetName("")
	testutil.AssertEqual(t, tbl.Name(), "Widget")
}

func TestSetSchema(t *testing.T) {
	t.Parallel()
	tbl := NewTable("Widget").SetSchema("sales")
	testutil.AssertEqual(t, tbl.Schema(), "sales")
}

func TestClearSchema(t *testing.T) {
	t.Parallel()
	tbl := NewTable("Widget").ClearSchema()
	testutil.AssertEqual(t, tbl.Schema(), "")
}

func TestTablesAreIndependent(t *testing.T) {
	t.Parallel()
	a := TableFor[widget]()
	b := TableFor[widget]()
	a.SetName("Other").SetSchema("x")
	testutil.AssertEqual(t, b.Name(), "Widget")
	testutil.AssertEqual(t, b.Schema(), "dbo")
}

// --- Operand ---

func TestOperandSQL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op   Operand
		want string
	}{
		{OpEqual, "="},
		{OpNotEqual, "<>"},
		{OpLessThan, "<"},
		{OpLessThanOrEqual, "<="},
		{OpGreaterThan, ">"},
		{OpGreaterThanOrEqual, ">="},
		{Operand(99), ""},
		{Operand(-1), ""},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			testutil.AssertEqual(t, tt.op.SQL(), tt.want)
		})
	}
}

func TestParseOperand(t *testing.T) {
	t.Parallel()
	for _, op := range Operands() {
		got, ok := ParseOperand(op.SQL())
		if !ok {
			t.Fatalf("ParseOperand(%q) not recognised", op.SQL())
		}
		testutil.AssertEqual(t, got, op)
	}
	if got, ok := ParseOperand("!="); !ok || got != OpNotEqual {
		t.Errorf("expected != to parse as OpNotEqual, got %v %v", got, ok)
	}
	if got, ok := ParseOperand("=="); !ok || got != OpEqual {
		t.Errorf("expected == to parse as OpEqual, got %v %v", got, ok)
	}
	if _, ok := ParseOperand("LIKE"); ok {
		t.Error("expected LIKE to be rejected")
	}
}
