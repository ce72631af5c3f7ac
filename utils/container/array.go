package container

import (
	"slices"
	"sync"
)

// IIncrementalItem 支持增量更新的元素接口
// 功能：元素记录自己在数组中的位置，删除时无需查找
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类，作为嵌入字段实现IIncrementalItem
type IncrementalItemBase struct {
	index int
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：缓冲一步内的增删操作，在Prepare时统一生效
// 说明：车辆在更新阶段中途到达或生成时，本步的遍历顺序保持不变
type IncrementalArray[T IIncrementalItem] struct {
	data   []T        // 主数据数组
	add    []T        // 待添加的元素
	remove []T        // 待删除的元素
	mtx    sync.Mutex // 保护add与remove
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 已生效的元素数量
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Pending 待添加的元素数量
func (a *IncrementalArray[T]) Pending() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return len(a.add)
}

// Data 已生效的元素，调用方不应修改返回的切片
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
// 说明：同一元素在一次Prepare前只能Remove一次
func (a *IncrementalArray[T]) Remove(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 算法说明：
// 1. 用待添加元素依次填补被删除元素的位置
// 2. 添加多于删除时，剩余元素追加到数组末尾
// 3. 删除多于添加时，从后往前处理剩余的删除：用末尾元素填补空位后截断
// 4. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	n := min(len(a.add), len(a.remove))
	for i := 0; i < n; i++ {
		ind := a.remove[i].Index()
		a.data[ind] = a.add[i]
		a.data[ind].SetIndex(ind)
	}
	for _, x := range a.add[n:] {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	rest := a.remove[n:]
	// 按索引从大到小删除，被交换到空位的末尾元素不会是后续待删除的元素
	slices.SortFunc(rest, func(x, y T) int { return y.Index() - x.Index() })
	for _, x := range rest {
		ind := x.Index()
		last := len(a.data) - 1
		if ind != last {
			a.data[ind] = a.data[last]
			a.data[ind].SetIndex(ind)
		}
		a.data = a.data[:last]
	}

	a.add = []T{}
	a.remove = []T{}
}
