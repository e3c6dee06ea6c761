package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_CaseInsensitiveSubstring(t *testing.T) {
	assert.True(t, Match("acme", "Acme Consulting BV"))
	assert.True(t, Match("CONSULT", "Acme Consulting BV"))
	assert.False(t, Match("globex", "Acme Consulting BV"))
}

func TestMatch_EmptyQueryMatchesEverything(t *testing.T) {
	assert.True(t, Match("", "anything"))
	assert.True(t, Match("   ", "anything"))
	assert.True(t, Match(""))
}

func TestMatch_SkipsEmptyFields(t *testing.T) {
	assert.True(t, Match("acme", "", "Acme"))
	assert.False(t, Match("acme", "", ""))
}

type record struct {
	name  string
	email string
}

func TestFilter_ReturnsSubset(t *testing.T) {
	records := []record{
		{name: "Alice Martin", email: "alice@acme.be"},
		{name: "Bob Peeters", email: "bob@globex.nl"},
		{name: "Carol Acar", email: "carol@acme.be"},
	}
	fields := func(r record) []string { return []string{r.name, r.email} }

	matches := Filter(records, "acme", fields)
	assert.Len(t, matches, 2)

	// Every match must actually satisfy the predicate.
	for _, m := range matches {
		assert.True(t, Match("acme", fields(m)...))
	}

	// Empty query keeps the full collection.
	assert.Len(t, Filter(records, "", fields), len(records))
}
