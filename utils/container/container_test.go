package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/container"
)

func TestPriorityQueueOrder(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.HeapPush("c", 3)
	q.HeapPush("a1", 1)
	q.HeapPush("b", 2)
	q.HeapPush("a2", 1)
	q.HeapPush("a3", 1)

	var got []string
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		got = append(got, v)
	}
	// 相同优先级按入队顺序
	assert.Equal(t, []string{"a1", "a2", "a3", "b", "c"}, got)
}

type elem struct {
	container.IncrementalItemBase
	id int
}

func ids(a *container.IncrementalArray[*elem]) []int {
	res := make([]int, 0, a.Len())
	for i, e := range a.Data() {
		if e.Index() != i {
			return nil
		}
		res = append(res, e.id)
	}
	return res
}

func TestIncrementalArray(t *testing.T) {
	a := container.NewIncrementalArray[*elem]()
	es := make([]*elem, 6)
	for i := range es {
		es[i] = &elem{id: i}
		a.Add(es[i])
	}
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 6, a.Pending())
	a.Prepare()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ids(a))
	assert.Equal(t, 0, a.Pending())

	// 删多于增
	a.Remove(es[1])
	a.Remove(es[4])
	a.Remove(es[5])
	x := &elem{id: 6}
	a.Add(x)
	a.Prepare()
	assert.ElementsMatch(t, []int{0, 6, 2, 3}, ids(a))

	// 增多于删
	a.Remove(es[0])
	a.Add(&elem{id: 7})
	a.Add(&elem{id: 8})
	a.Prepare()
	assert.ElementsMatch(t, []int{7, 6, 2, 3, 8}, ids(a))

	// 全部删除
	for _, e := range a.Data() {
		a.Remove(e)
	}
	a.Prepare()
	assert.Equal(t, 0, a.Len())
}
