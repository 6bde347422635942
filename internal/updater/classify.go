package updater

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// ClassifyRules maps changed paths to update requirements
// ClassifyRules 变更路径到更新需求的匹配规则
type ClassifyRules struct {
	// DependencyManifests 依赖清单及锁文件
	DependencyManifests []string `yaml:"dependency-manifests"`
	// SchemaDir 数据库结构目录
	SchemaDir string `yaml:"schema-dir"`
	// SchemaSuffix 结构文件后缀
	SchemaSuffix string `yaml:"schema-suffix"`
	// MigrationsDir 迁移子目录名
	MigrationsDir string `yaml:"migrations-dir"`
	// BackendSrc 后端源码目录
	BackendSrc string `yaml:"backend-src"`
	// FrontendSrc 前端源码目录
	FrontendSrc string `yaml:"frontend-src"`
	// DocSuffixes 不触发重启的文档后缀
	DocSuffixes []string `yaml:"doc-suffixes"`
}

func DefaultClassifyRules() ClassifyRules {
	return ClassifyRules{
		DependencyManifests: []string{
			"package.json",
			"package-lock.json",
			"backend/package.json",
			"backend/package-lock.json",
			"frontend/package.json",
			"frontend/package-lock.json",
		},
		SchemaDir:     "backend/prisma/",
		SchemaSuffix:  ".prisma",
		MigrationsDir: "migrations/",
		BackendSrc:    "backend/src/",
		FrontendSrc:   "frontend/src/",
		DocSuffixes:   []string{".md", ".txt"},
	}
}

// ChangeSet is the impact classification of a diff between two tags
// ChangeSet 两个标签之间差异的影响分类
type ChangeSet struct {
	Files                  []string
	NeedsDependencyInstall bool
	NeedsProcessRestart    bool
	NeedsDataMigration     bool
	FrontendOnly           bool
}

// ConservativeChangeSet is assumed when the diff cannot be fetched
// ConservativeChangeSet 无法获取差异时采用的最大影响分类
func ConservativeChangeSet() ChangeSet {
	return ChangeSet{
		NeedsDependencyInstall: true,
		NeedsProcessRestart:    true,
		NeedsDataMigration:     true,
	}
}

// ClassifyFiles applies rules to each path independently; one path may set several flags
// ClassifyFiles 对每个路径独立应用规则，一个路径可以触发多个标记
func ClassifyFiles(files []string, rules ClassifyRules) ChangeSet {
	cs := ChangeSet{Files: files}
	var backend, frontend bool

	for _, f := range files {
		if slices.Contains(rules.DependencyManifests, f) {
			cs.NeedsDependencyInstall = true
		}
		if rules.SchemaDir != "" && strings.HasPrefix(f, rules.SchemaDir) {
			if (rules.SchemaSuffix != "" && strings.HasSuffix(f, rules.SchemaSuffix)) ||
				(rules.MigrationsDir != "" && strings.Contains(f, rules.MigrationsDir)) {
				cs.NeedsDataMigration = true
			}
		}
		if rules.BackendSrc != "" && strings.HasPrefix(f, rules.BackendSrc) && !isDoc(f, rules.DocSuffixes) {
			cs.NeedsProcessRestart = true
			backend = true
		}
		if rules.FrontendSrc != "" && strings.HasPrefix(f, rules.FrontendSrc) && !isDoc(f, rules.DocSuffixes) {
			frontend = true
		}
	}

	cs.FrontendOnly = frontend && !backend && !cs.NeedsDependencyInstall && !cs.NeedsDataMigration
	return cs
}

func isDoc(path string, suffixes []string) bool {
	lower := strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Classifier 基于上游差异的变更分类器
type Classifier struct {
	registry Registry
	rules    ClassifyRules
	logger   *zap.Logger
}

func NewClassifier(registry Registry, rules ClassifyRules, logger *zap.Logger) *Classifier {
	return &Classifier{registry: registry, rules: rules, logger: logger}
}

// Classify falls back to ConservativeChangeSet when the diff query fails
// Classify 差异查询失败时退回最大影响分类
func (c *Classifier) Classify(ctx context.Context, currentTag, latestTag string) ChangeSet {
	files, err := c.registry.CompareFiles(ctx, currentTag, latestTag)
	if err != nil {
		c.logger.Warn("fetch diff failed, assuming every update step is required",
			zap.String("base", currentTag),
			zap.String("head", latestTag),
			zap.Error(err))
		return ConservativeChangeSet()
	}
	return ClassifyFiles(files, c.rules)
}
