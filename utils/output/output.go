// 每步快照输出，尽力写入MongoDB，失败不影响模拟
package output

import (
	"context"
	"sync/atomic"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logrus.WithField("module", "output")

const (
	insertTimeout = 5 * time.Second // 单次写入超时
	insertRetries = 1               // 失败后的重试次数
)

// Inserter 快照写入目标，*mongo.Collection满足该接口
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// Writer 异步快照写入器
// 功能：模拟循环把快照放入缓冲区，后台协程逐条写入
// 说明：缓冲区满时直接丢弃快照，写入失败重试一次后丢弃，两种情况都只记录警告日志
type Writer struct {
	coll    Inserter
	client  *mongo.Client
	timeout time.Duration

	ch      chan any
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Int64
	written atomic.Int64
}

// New 连接MongoDB并启动写入协程
// 参数：c-输出配置，Buffer需已由RuntimeConfig填充默认值
func New(c config.Output) *Writer {
	client := mongoutil.NewClient(c.URI)
	coll := client.Database(c.DB).Collection(c.Col)
	w := NewWithInserter(coll, c.Buffer)
	w.client = client
	log.Infof("writing snapshots to %s.%s", c.DB, c.Col)
	return w
}

// NewWithInserter 使用给定的写入目标创建写入器
func NewWithInserter(coll Inserter, buffer int) *Writer {
	if buffer <= 0 {
		buffer = config.DefaultBuffer
	}
	w := &Writer{
		coll:    coll,
		timeout: insertTimeout,
		ch:      make(chan any, buffer),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Write 放入一条快照，缓冲区已满或写入器已关闭时丢弃并返回false
func (w *Writer) Write(doc any) bool {
	if w.closed.Load() {
		return false
	}
	select {
	case w.ch <- doc:
		return true
	default:
		w.dropped.Add(1)
		log.Warnf("output buffer full, snapshot dropped (%d dropped so far)", w.dropped.Load())
		return false
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for doc := range w.ch {
		w.insert(doc)
	}
}

func (w *Writer) insert(doc any) {
	var err error
	for attempt := 0; attempt <= insertRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		_, err = w.coll.InsertOne(ctx, doc)
		cancel()
		if err == nil {
			w.written.Add(1)
			return
		}
		log.Debugf("insert attempt %d failed: %v", attempt+1, err)
	}
	w.dropped.Add(1)
	log.Warnf("snapshot dropped after retry: %v", err)
}

// Close 等待缓冲区中的快照写完并断开连接
func (w *Writer) Close() {
	if w.closed.Swap(true) {
		return
	}
	close(w.ch)
	<-w.done
	if w.client != nil {
		if err := w.client.Disconnect(context.Background()); err != nil {
			log.Warnf("disconnect: %v", err)
		}
	}
	log.Infof("output closed: %d written, %d dropped", w.written.Load(), w.dropped.Load())
}

// Dropped 已丢弃的快照数
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Written 已成功写入的快照数
func (w *Writer) Written() int64 {
	return w.written.Load()
}
