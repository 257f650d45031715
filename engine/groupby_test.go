package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupBy_PreservesOrder(t *testing.T) {
	items := []string{"b1", "a1", "b2", "c1", "a2"}

	g := GroupBy(items, func(s string) byte { return s[0] })

	// Keys in first-seen order, members in insertion order.
	assert.Equal(t, []byte{'b', 'a', 'c'}, g.Keys)
	assert.Equal(t, []string{"b1", "b2"}, g.Groups['b'])
	assert.Equal(t, []string{"a1", "a2"}, g.Groups['a'])
	assert.Equal(t, []string{"c1"}, g.Groups['c'])
	assert.Equal(t, 3, g.Len())
}

func TestGroupBy_Empty(t *testing.T) {
	g := GroupBy(nil, func(s string) string { return s })
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Keys)
}

func TestGroupBy_Each(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	g := GroupBy(items, func(n int) int { return n % 2 })

	var keys []int
	var sizes []int
	g.Each(func(k int, members []int) {
		keys = append(keys, k)
		sizes = append(sizes, len(members))
	})

	assert.Equal(t, []int{1, 0}, keys)
	assert.Equal(t, []int{3, 2}, sizes)
}

func TestDistinctCount_SkipsEmptyKeys(t *testing.T) {
	lines := []TransactionLine{
		tl("I1", "C1", "Widget", 1, "1.00", "2024-01-01", "UK"),
		tl("I1", "", "Widget", 1, "1.00", "2024-01-01", "UK"),
		tl("I2", "C1", "Widget", 1, "1.00", "2024-01-01", "UK"),
	}

	assert.Equal(t, 2, distinctCount(lines, func(l TransactionLine) string { return l.InvoiceID }))
	assert.Equal(t, 1, distinctCount(lines, func(l TransactionLine) string { return l.CustomerID }))
}
