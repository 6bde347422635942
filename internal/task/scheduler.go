package task

import (
	"context"
	"time"

	"github.com/haierkeys/start-page-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// startTask attaches one task to the SafeClose; ctx is cancelled when the close signal arrives
// startTask 将单个任务挂载到 SafeClose；关闭信号到达时取消 ctx
func (s *Scheduler) startTask(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if task.IsStartupRun() {
			go s.runTask(ctx, task, "startup")
		}

		// 只在启动时执行的任务同样等待关闭信号，保证 ctx 在执行期间有效
		if task.LoopInterval() <= 0 {
			<-closeSignal
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runTask(ctx, task, "loop")
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}

// runTask runs task once; a panic is logged and swallowed so the loop keeps ticking
// runTask 执行一次任务；panic 会被记录并吞掉，定时循环不受影响
func (s *Scheduler) runTask(ctx context.Context, task Task, mode string) {
	log := s.logger.With(zap.String("name", task.Name()), zap.String("mode", mode))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("task panic", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	log.Debug("task running")
	if err := task.Run(ctx); err != nil {
		log.Error("task running error", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Debug("task finished", zap.Duration("duration", time.Since(start)))
}
