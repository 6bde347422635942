package updater

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReleaseInfo describes the latest published release; it is rebuilt on every query
// ReleaseInfo 最新发布信息，每次查询重新构建
type ReleaseInfo struct {
	Version     string
	Patch       int
	Tag         string
	Notes       string
	PublishedAt *time.Time
}

// ReleaseLocator 查找上游最新发布
type ReleaseLocator struct {
	registry Registry
	manifest string
	logger   *zap.Logger
}

func NewReleaseLocator(registry Registry, manifest string, logger *zap.Logger) *ReleaseLocator {
	return &ReleaseLocator{registry: registry, manifest: manifest, logger: logger}
}

// LatestRelease returns nil when no release is known
// LatestRelease 没有可知的发布时返回 nil
//
// 标签查询失败即视为没有更新；补丁计数与发布说明互相独立，失败时使用默认值。
func (l *ReleaseLocator) LatestRelease(ctx context.Context) *ReleaseInfo {
	tag, err := l.registry.LatestTag(ctx)
	if err != nil {
		l.logger.Warn("fetch latest tag failed", zap.Error(err))
		return nil
	}
	if tag == "" {
		l.logger.Debug("registry has no tags")
		return nil
	}

	info := &ReleaseInfo{
		Version: trimPrefix(tag),
		Tag:     tag,
	}

	if data, err := l.registry.FileAt(ctx, l.manifest, tag); err != nil {
		l.logger.Debug("fetch manifest at tag failed", zap.String("tag", tag), zap.Error(err))
	} else if v, err := ParseManifest(data); err != nil {
		l.logger.Debug("parse manifest at tag failed", zap.String("tag", tag), zap.Error(err))
	} else {
		info.Patch = v.Patch
	}

	if release, err := l.registry.ReleaseByTag(ctx, tag); err != nil {
		l.logger.Debug("fetch release notes failed", zap.String("tag", tag), zap.Error(err))
	} else {
		info.Notes = release.Body
		info.PublishedAt = release.PublishedAt
	}

	return info
}
