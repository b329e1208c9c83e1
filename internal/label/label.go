// Package label tracks branch targets and explicit labels of a disassembly.
package label

import (
	"fmt"

	"github.com/retroenv/retrogolib/set"
)

// sharedAddressStart is the first address whose labels are visible to every
// bank. Addresses below it belong to the ROM area and are bank-local.
const sharedAddressStart = 0x8000

// Category classifies how a branch target address was reached.
type Category uint8

const (
	// Call marks targets of call instructions.
	Call Category = iota
	// Jump marks targets of absolute jump instructions.
	Jump
	// RelJump marks targets of relative jump instructions.
	RelJump

	categoryCount
)

var categoryPrefixes = [categoryCount]string{"Call", "Jump", "jr"}

// Prefix returns the generated label name prefix of the category.
func (c Category) Prefix() string {
	return categoryPrefixes[c]
}

// CategoryFor maps a branching instruction name to its target category.
func CategoryFor(instruction string) (Category, bool) {
	switch instruction {
	case "call":
		return Call, true
	case "jp":
		return Jump, true
	case "jr":
		return RelJump, true
	default:
		return 0, false
	}
}

// Table holds the explicit labels supplied before disassembly begins.
// Labels below 0x8000 are local to their bank, labels at 0x8000 and above
// name RAM addresses and are visible to every bank. The table is built once
// and must not be modified after the first bank starts processing.
type Table struct {
	banks  []map[uint16]string
	shared map[uint16]string
}

// NewTable creates an empty label table for the given number of banks.
func NewTable(banks int) *Table {
	t := &Table{
		banks:  make([]map[uint16]string, banks),
		shared: map[uint16]string{},
	}
	for i := range t.banks {
		t.banks[i] = map[uint16]string{}
	}
	return t
}

// Add binds a name to an address. RAM addresses are visible to all banks,
// ROM addresses only to the given bank. Out of range banks are ignored.
func (t *Table) Add(bank int, address uint16, name string) {
	if address >= sharedAddressStart {
		t.shared[address] = name
		return
	}
	if bank < 0 || bank >= len(t.banks) {
		return
	}
	t.banks[bank][address] = name
}

// Lookup returns the label bound to the address as seen from the given bank.
func (t *Table) Lookup(bank int, address uint16) (string, bool) {
	if address >= sharedAddressStart {
		name, ok := t.shared[address]
		return name, ok
	}
	if bank < 0 || bank >= len(t.banks) {
		return "", false
	}
	name, ok := t.banks[bank][address]
	return name, ok
}

// Registry accumulates the branch targets of one bank during the discovery
// pass and resolves them to label names during emission. It also tracks
// which addresses were visited as instruction starts, so that labels are
// never attached to mid-instruction bytes.
type Registry struct {
	bank   int
	labels *Table

	targets [categoryCount]set.Set[uint16]
	starts  set.Set[uint16]
}

// NewRegistry creates a registry for one bank, consulting the given table
// for explicit labels.
func NewRegistry(bank int, labels *Table) *Registry {
	r := &Registry{
		bank:   bank,
		labels: labels,
		starts: set.New[uint16](),
	}
	for i := range r.targets {
		r.targets[i] = set.New[uint16]()
	}
	return r
}

// Record adds a branch target address under the given category.
func (r *Registry) Record(category Category, address uint16) {
	r.targets[category].Add(address)
}

// MarkInstructionStart records that an instruction was decoded at the
// address during discovery.
func (r *Registry) MarkInstructionStart(address uint16) {
	r.starts.Add(address)
}

// GeneratedName returns the deterministic label name for a recorded target.
func (r *Registry) GeneratedName(category Category, address uint16) string {
	return fmt.Sprintf("%s_%03x_%04x", category.Prefix(), r.bank, address)
}

// Resolve returns the label to use for a branch operand targeting the
// address, or "" if the operand has to stay a literal. Only confirmed
// instruction starts receive labels; an explicit label takes priority over
// a generated one.
func (r *Registry) Resolve(category Category, address uint16) string {
	if !r.starts.Contains(address) {
		return ""
	}
	if name, ok := r.labels.Lookup(r.bank, address); ok {
		return name
	}
	if r.targets[category].Contains(address) {
		return r.GeneratedName(category, address)
	}
	return ""
}

// CodeLabels returns the label lines to emit before the instruction at the
// address. An explicit label replaces all generated ones; local labels
// starting with '.' are emitted non-exported.
func (r *Registry) CodeLabels(address uint16) []string {
	if name, ok := r.labels.Lookup(r.bank, address); ok {
		return []string{exportLabel(name)}
	}

	var labels []string
	for category := Category(0); category < categoryCount; category++ {
		if r.targets[category].Contains(address) {
			labels = append(labels, r.GeneratedName(category, address)+":")
		}
	}
	return labels
}

// DataLabels returns the label lines to emit at the address inside a data
// or text region. Only explicit labels apply, generated names always point
// at instructions.
func (r *Registry) DataLabels(address uint16) []string {
	name, ok := r.labels.Lookup(r.bank, address)
	if !ok {
		return nil
	}
	return []string{exportLabel(name)}
}

func exportLabel(name string) string {
	if name[0] == '.' {
		return name + ":"
	}
	return name + "::"
}
