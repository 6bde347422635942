package task

import (
	"context"
	"time"

	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/pkg/logger"

	"go.uber.org/zap"
)

// CheckVersionTask 定期检查上游是否有新版本，结果缓存在 App 中供 /api/version 使用
// 只检查不更新，更新必须由管理员触发
type CheckVersionTask struct {
	app      *app.App
	interval time.Duration
}

func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewCheckVersionTask(appContainer), nil
	})
}

func NewCheckVersionTask(appContainer *app.App) *CheckVersionTask {
	return &CheckVersionTask{
		app:      appContainer,
		interval: appContainer.Config().GetCheckVersionInterval(),
	}
}

func (t *CheckVersionTask) Name() string {
	return "check_version"
}

func (t *CheckVersionTask) Run(ctx context.Context) error {
	plan, err := t.app.Updater.Check(ctx)
	if err != nil {
		return err
	}

	t.app.SetCheckVersion(plan)

	if plan.HasUpdate {
		t.app.Logger().Info("new version available",
			zap.String(logger.FieldVersion, plan.LatestVersion),
			zap.Int("patch", plan.LatestPatch),
			zap.String(logger.FieldTag, plan.LatestTag))
	}
	return nil
}

func (t *CheckVersionTask) LoopInterval() time.Duration {
	return t.interval
}

func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}
