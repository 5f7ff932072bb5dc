package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocateReturnsKindCapability(t *testing.T) {
	m := NewMemory()

	tests := []struct {
		kind     Kind
		selector string
		check    func(t *testing.T, el Element)
	}{
		{Text, "#name", func(t *testing.T, el Element) { _, ok := el.(TextField); assert.True(t, ok) }},
		{Radio, "input[name=gender]", func(t *testing.T, el Element) { _, ok := el.(RadioGroup); assert.True(t, ok) }},
		{Checkbox, "#terms", func(t *testing.T, el Element) { _, ok := el.(CheckBox); assert.True(t, ok) }},
		{Select, "#country", func(t *testing.T, el Element) { _, ok := el.(SelectList); assert.True(t, ok) }},
		{Button, "#submit", func(t *testing.T, el Element) { _, ok := el.(Clickable); assert.True(t, ok) }},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			el, err := m.Locate(tt.kind, tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, el.Kind())
			tt.check(t, el)
		})
	}
}

func TestMemoryRejectsKindChange(t *testing.T) {
	m := NewMemory()
	_, err := m.Locate(Text, "#name")
	require.NoError(t, err)

	_, err = m.Locate(Button, "#name")
	assert.Error(t, err)
}

func TestMemoryRecordsInteractions(t *testing.T) {
	m := NewMemory()
	m.AddSelect("#country", "Austria", "Brazil")

	require.NoError(t, m.Goto("https://example.test/signup"))

	el, _ := m.Locate(Text, "#name")
	require.NoError(t, el.(TextField).SetValue("Ada"))

	el, _ = m.Locate(Checkbox, "#terms")
	require.NoError(t, el.(CheckBox).Set())

	el, _ = m.Locate(Select, "#country")
	require.NoError(t, el.(SelectList).Select("Brazil"))
	assert.Error(t, el.(SelectList).Select("Mars"))

	el, _ = m.Locate(Button, "#submit")
	require.NoError(t, el.(Clickable).Click())

	assert.Equal(t, []string{
		"goto https://example.test/signup",
		"fill #name=Ada",
		"check #terms",
		"select #country=Brazil",
		"click #submit",
	}, m.Ops)

	value, err := m.Field("#terms").Value()
	require.NoError(t, err)
	assert.Equal(t, "true", value)
	assert.Equal(t, 1, m.Field("#submit").Clicks)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "checkbox", Checkbox.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
