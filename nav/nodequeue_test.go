package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeQueuePopsInTotalOrder(t *testing.T) {
	q := newNodeQueue()
	totals := []float32{5, 1, 4, 2, 3}
	nodes := make([]*searchNode, len(totals))
	for i, tot := range totals {
		nodes[i] = &searchNode{ID: nodeID{Local: uint32(i)}, Total: tot}
		q.push(nodes[i])
	}

	var got []float32
	for !q.empty() {
		got = append(got, q.pop().Total)
	}
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, got)
}

func TestNodeQueueModifyReordersOnDecrease(t *testing.T) {
	q := newNodeQueue()
	a := &searchNode{ID: nodeID{Local: 0}, Total: 10}
	b := &searchNode{ID: nodeID{Local: 1}, Total: 20}
	q.push(a)
	q.push(b)

	b.Total = 1
	q.modify(b)

	require.False(t, q.empty())
	assert.Same(t, b, q.pop())
	assert.Same(t, a, q.pop())
}

func TestNodeQueueClearEmpties(t *testing.T) {
	q := newNodeQueue()
	q.push(&searchNode{Total: 1})
	q.clear()
	assert.True(t, q.empty())
}

func TestNodePoolFindOrCreate(t *testing.T) {
	p := newNodePool()
	id := nodeID{Space: 3, Local: 7}

	assert.Nil(t, p.find(id))

	n := p.node(id)
	require.NotNil(t, n)
	assert.Equal(t, id, n.ID)

	again := p.node(id)
	assert.Same(t, n, again)
	assert.Same(t, n, p.find(id))

	p.clear()
	assert.Nil(t, p.find(id))
}
