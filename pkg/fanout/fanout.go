package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome 单个子任务的执行结果
type Outcome struct {
	Index int
	Err   error
}

// OK 子任务是否成功
func (o Outcome) OK() bool { return o.Err == nil }

// Task 子任务
type Task func(ctx context.Context) error

// SettleAll 并发执行所有子任务并收集全部结果
// 任一子任务失败不会中断其他子任务，也不会向上返回错误
// 返回的结果顺序与 tasks 一致
func SettleAll(ctx context.Context, limit int, tasks ...Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))
	if len(tasks) == 0 {
		return outcomes
	}

	// 不使用 errgroup.WithContext，避免首个错误取消兄弟任务
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			outcomes[i] = Outcome{Index: i, Err: runSafe(ctx, task)}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Failed 过滤失败的结果
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// runSafe 子任务 panic 时转换为错误
func runSafe(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return task(ctx)
}

// PanicError 子任务 panic
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "fanout: task panicked"
}
