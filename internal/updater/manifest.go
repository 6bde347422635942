package updater

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// UnknownVersion is reported when the deployment manifest cannot be read
// UnknownVersion 无法读取部署清单时返回的版本号
const UnknownVersion = "unknown"

type manifest struct {
	Version string `json:"version"`
	Patch   int    `json:"patch"`
}

// ParseManifest decodes the version and patch fields of a package manifest
// ParseManifest 解析包清单中的 version 与 patch 字段
func ParseManifest(data []byte) (Version, error) {
	var m manifest
	if err := sonic.Unmarshal(data, &m); err != nil {
		return Version{}, errors.Wrap(err, "parse manifest failed")
	}
	if m.Version == "" {
		return Version{}, errors.New("manifest has no version")
	}
	if m.Patch < 0 {
		m.Patch = 0
	}
	return Version{Version: m.Version, Patch: m.Patch}, nil
}

// ManifestReader reads the currently deployed version
// ManifestReader 读取当前部署的版本
type ManifestReader struct {
	path   string
	logger *zap.Logger
}

func NewManifestReader(deployDir, name string, logger *zap.Logger) *ManifestReader {
	return &ManifestReader{
		path:   filepath.Join(deployDir, name),
		logger: logger,
	}
}

// CurrentVersion never fails; an unreadable manifest yields UnknownVersion with patch 0
// CurrentVersion 不返回错误；清单不可读时返回 UnknownVersion 且补丁为 0
func (r *ManifestReader) CurrentVersion() Version {
	data, err := os.ReadFile(r.path)
	if err == nil {
		var v Version
		if v, err = ParseManifest(data); err == nil {
			return v
		}
	}
	r.logger.Warn("read deployment manifest failed", zap.String("path", r.path), zap.Error(err))
	return Version{Version: UnknownVersion}
}
