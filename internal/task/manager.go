package task

import (
	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, appContainer *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		app:       appContainer,
	}
}

// RegisterTasks 通过注册表创建并添加所有任务
// 工厂返回 nil 任务表示该任务被配置关闭
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory()
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		m.add(t)
	}

	for _, factory := range GetAppFactories() {
		t, err := factory(m.app)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		m.add(t)
	}

	return nil
}

func (m *Manager) add(t Task) {
	if t == nil {
		return
	}
	m.scheduler.AddTask(t)
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
