package gradient

// nodeHeap is a binary min-heap over grid node linear ids keyed by value,
// generalizing detour.DtNodeQueue with an index table (pos) so decreaseKey
// runs in O(log n) instead of DtNodeQueue's linear modify() scan, per
// spec.md §4.2's complexity contract.
type nodeHeap struct {
	id     []int32   // heap[i] = node id at heap slot i
	pos    []int32   // pos[id] = heap slot of id, or -1 if not present
	value  []float64 // value[id] = current key of id, valid regardless of heap membership
	fixed  []bool    // fixed[id] once popped; its value is final
	size   int32
}

func newNodeHeap(n int) *nodeHeap {
	h := &nodeHeap{
		id:    make([]int32, n),
		pos:   make([]int32, n),
		value: make([]float64, n),
		fixed: make([]bool, n),
	}
	for i := range h.pos {
		h.pos[i] = -1
	}
	return h
}

// push inserts id with the given value. id must not already be present.
func (h *nodeHeap) push(id int32, value float64) {
	h.value[id] = value
	h.id[h.size] = id
	h.pos[id] = h.size
	h.size++
	h.bubbleUp(h.size - 1)
}

func (h *nodeHeap) empty() bool { return h.size == 0 }

// popMin removes and returns the id with the smallest value, marking it fixed.
func (h *nodeHeap) popMin() int32 {
	top := h.id[0]
	h.fixed[top] = true
	h.size--
	if h.size > 0 {
		h.id[0] = h.id[h.size]
		h.pos[h.id[0]] = 0
		h.trickleDown(0)
	}
	h.pos[top] = -1
	return top
}

// decreaseKey lowers id's value, no-op if id is not present or value is not
// an improvement. Reports whether the key was lowered.
func (h *nodeHeap) decreaseKey(id int32, value float64) bool {
	p := h.pos[id]
	if p < 0 || value >= h.value[id] {
		return false
	}
	h.value[id] = value
	h.bubbleUp(p)
	return true
}

func (h *nodeHeap) valueOf(id int32) float64 { return h.value[id] }

func (h *nodeHeap) contains(id int32) bool { return h.pos[id] >= 0 }

func (h *nodeHeap) bubbleUp(i int32) {
	node := h.id[i]
	for i > 0 {
		parent := (i - 1) / 2
		if h.value[h.id[parent]] <= h.value[node] {
			break
		}
		h.id[i] = h.id[parent]
		h.pos[h.id[i]] = i
		i = parent
	}
	h.id[i] = node
	h.pos[node] = i
}

func (h *nodeHeap) trickleDown(i int32) {
	node := h.id[i]
	for {
		child := i*2 + 1
		if child >= h.size {
			break
		}
		if child+1 < h.size && h.value[h.id[child+1]] < h.value[h.id[child]] {
			child++
		}
		if h.value[h.id[child]] >= h.value[node] {
			break
		}
		h.id[i] = h.id[child]
		h.pos[h.id[i]] = i
		i = child
	}
	h.id[i] = node
	h.pos[node] = i
}
