package updater

import (
	"context"
	"os/exec"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

// ErrNoVersionControl is returned by Pull when git or the work tree is missing
// ErrNoVersionControl 缺少 git 命令或工作区时 Pull 返回的错误
var ErrNoVersionControl = errors.New("no version control available")

// GitRepo is the deployment directory seen as a git work tree
// GitRepo 以 git 工作区视角看待的部署目录
type GitRepo struct {
	dir      string
	remote   string
	branch   string
	runner   Runner
	lookPath func(string) (string, error)
}

func NewGitRepo(dir, remote, branch string, runner Runner) *GitRepo {
	return &GitRepo{
		dir:      dir,
		remote:   remote,
		branch:   branch,
		runner:   runner,
		lookPath: exec.LookPath,
	}
}

func (g *GitRepo) open() (*git.Repository, error) {
	return git.PlainOpenWithOptions(g.dir, &git.PlainOpenOptions{DetectDotGit: true})
}

// Available reports whether the git binary is on PATH and the directory is a work tree
// Available git 命令存在且部署目录是工作区
func (g *GitRepo) Available() bool {
	if _, err := g.lookPath("git"); err != nil {
		return false
	}
	_, err := g.open()
	return err == nil
}

// Head returns the checked out commit and, when on a branch, its short name
// Head 返回当前提交及所在分支名
func (g *GitRepo) Head() (commit, branch string, err error) {
	repo, err := g.open()
	if err != nil {
		return "", "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", "", err
	}
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	return ref.Hash().String(), branch, nil
}

// Pull synchronizes with the upstream branch; there is no timeout and no retry
// Pull 与上游分支同步；不设超时也不重试
func (g *GitRepo) Pull(ctx context.Context) (string, error) {
	if !g.Available() {
		return "", ErrNoVersionControl
	}
	out, err := g.runner.Run(ctx, g.dir, "git", "pull", g.remote, g.branch)
	if err != nil {
		return out, errors.Wrap(err, "git pull failed")
	}
	return out, nil
}
