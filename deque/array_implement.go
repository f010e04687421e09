package deque

// ArrDeque is a ring buffer. Elements stay in one contiguous backing array,
// so traversal walks memory in order.
type ArrDeque[T any] struct {
	arr []T
	// index of the front element
	start int
	// number of elements
	size int
}

var _ Deque[int] = (*ArrDeque[int])(nil)

// NewArrDeque allocates the full capacity up front.
func NewArrDeque[T any](capacity int) *ArrDeque[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ArrDeque[T]{arr: make([]T, capacity)}
}

func (ad *ArrDeque[T]) Size() int {
	return ad.size
}

func (ad *ArrDeque[T]) Capacity() int {
	return len(ad.arr)
}

func (ad *ArrDeque[T]) pos(i int) int {
	return (ad.start + i) % len(ad.arr)
}

func (ad *ArrDeque[T]) Get(i int) (T, bool) {
	var zero T
	if i < 0 || i >= ad.size {
		return zero, false
	}
	return ad.arr[ad.pos(i)], true
}

func (ad *ArrDeque[T]) addLast(v T) {
	ad.arr[ad.pos(ad.size)] = v
	ad.size++
}

func (ad *ArrDeque[T]) removeFirst() {
	if ad.IsEmpty() {
		return
	}
	var zero T
	ad.arr[ad.start] = zero
	ad.start = (ad.start + 1) % len(ad.arr)
	ad.size--
}

// Push appends v, dropping the front element first when the deque is full.
func (ad *ArrDeque[T]) Push(v T) {
	if ad.IsFull() {
		ad.removeFirst()
	}
	ad.addLast(v)
}

// Slice copies the elements front to back.
func (ad *ArrDeque[T]) Slice() []T {
	out := make([]T, 0, ad.size)
	for k := 0; k < ad.Size(); k++ {
		v, _ := ad.Get(k)
		out = append(out, v)
	}
	return out
}

func (ad *ArrDeque[T]) IsFull() bool {
	return ad.size == len(ad.arr)
}

func (ad *ArrDeque[T]) IsEmpty() bool {
	return ad.size == 0
}
