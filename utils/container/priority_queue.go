package container

import "container/heap"

// item 优先队列中单个元素
type item[T any] struct {
	Value    T       // 元素的值
	Priority float64 // 优先级（越小越优先）
	seq      uint64  // 入队序号，优先级相同时先入队者优先
	index    int     // 在堆中的索引，由heap.Interface方法维护
}

// priorityQueue 实现heap.Interface的最小堆
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

// Less 先比较优先级，相同时比较入队序号，保证出队顺序确定
func (pq priorityQueue[T]) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*pq)
	*pq = append(*pq, it)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // 避免内存泄漏
	it.index = -1
	*pq = old[0 : n-1]
	return it
}

// PriorityQueue 优先队列
// 功能：A*搜索的open表，按优先级最小出队，入队与出队都维护堆结构
// 说明：相同优先级按入队顺序出队（FIFO），同样的输入总是得到同样的出队序列
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
	seq   uint64
}

// NewPriorityQueue 创建优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

// Len 获取当前队列长度
func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// HeapPush 加入元素并维护堆结构
func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.queue, q.newItem(value, priority))
}

// HeapPop 弹出优先级数值最小的元素
// 返回：value-元素值，priority-元素优先级
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.Value, it.Priority
}

func (q *PriorityQueue[T]) newItem(value T, priority float64) *item[T] {
	q.seq++
	return &item[T]{Value: value, Priority: priority, seq: q.seq}
}
