package scheduler

// wakeHeap implements container/heap.Interface, earliest At first and
// insertion order among ties.
type wakeHeap[T any] []*item[T]

func (h wakeHeap[T]) Len() int { return len(h) }

func (h wakeHeap[T]) Less(i, j int) bool {
	if h[i].wake.At.Equal(h[j].wake.At) {
		return h[i].seq < h[j].seq
	}
	return h[i].wake.At.Before(h[j].wake.At)
}

func (h wakeHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *wakeHeap[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *wakeHeap[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}
