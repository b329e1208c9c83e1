package label

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCategoryFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		instruction string
		category    Category
		ok          bool
	}{
		{"call", Call, true},
		{"jp", Jump, true},
		{"jr", RelJump, true},
		{"ret", 0, false},
		{"ld", 0, false},
	}

	for _, tt := range tests {
		category, ok := CategoryFor(tt.instruction)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.category, category)
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	table := NewTable(2)
	registry := NewRegistry(0, table)

	registry.Record(Call, 0x0200)

	// not confirmed as instruction start yet
	assert.Equal(t, "", registry.Resolve(Call, 0x0200))

	registry.MarkInstructionStart(0x0200)
	assert.Equal(t, "Call_000_0200", registry.Resolve(Call, 0x0200))

	// recorded under a different category
	assert.Equal(t, "", registry.Resolve(Jump, 0x0200))

	// an explicit label has priority over the generated name
	table.Add(0, 0x0200, "Reset")
	assert.Equal(t, "Reset", registry.Resolve(Call, 0x0200))
}

func TestRegistryGeneratedName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(3, NewTable(4))

	assert.Equal(t, "Call_003_4123", registry.GeneratedName(Call, 0x4123))
	assert.Equal(t, "Jump_003_4123", registry.GeneratedName(Jump, 0x4123))
	assert.Equal(t, "jr_003_4123", registry.GeneratedName(RelJump, 0x4123))
}

func TestRegistryCodeLabels(t *testing.T) {
	t.Parallel()

	table := NewTable(1)
	registry := NewRegistry(0, table)

	assert.Equal(t, 0, len(registry.CodeLabels(0x0150)))

	registry.Record(Call, 0x0150)
	registry.Record(RelJump, 0x0150)
	assert.Equal(t, []string{"Call_000_0150:", "jr_000_0150:"}, registry.CodeLabels(0x0150))

	// an explicit label replaces all generated ones and is exported
	table.Add(0, 0x0150, "Main")
	assert.Equal(t, []string{"Main::"}, registry.CodeLabels(0x0150))

	table.Add(0, 0x0160, ".loop")
	assert.Equal(t, []string{".loop:"}, registry.CodeLabels(0x0160))
}

func TestRegistryDataLabels(t *testing.T) {
	t.Parallel()

	table := NewTable(1)
	registry := NewRegistry(0, table)

	registry.Record(Jump, 0x0150)
	assert.Equal(t, 0, len(registry.DataLabels(0x0150)))

	table.Add(0, 0x0150, "TileData")
	assert.Equal(t, []string{"TileData::"}, registry.DataLabels(0x0150))
}

func TestTableSharedRAMLabels(t *testing.T) {
	t.Parallel()

	table := NewTable(2)
	table.Add(0, 0xc0a0, "PlayerState")
	table.Add(1, 0x4100, "Bank1Routine")

	// RAM labels are visible from every bank
	name, ok := table.Lookup(1, 0xc0a0)
	assert.True(t, ok)
	assert.Equal(t, "PlayerState", name)

	// ROM labels are bank local
	_, ok = table.Lookup(0, 0x4100)
	assert.False(t, ok)

	name, ok = table.Lookup(1, 0x4100)
	assert.True(t, ok)
	assert.Equal(t, "Bank1Routine", name)
}
