package updater

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// DefaultRegistryURL GitHub REST API 地址
const DefaultRegistryURL = "https://api.github.com"

// Registry is the upstream release registry
// Registry 上游发布仓库
type Registry interface {
	// LatestTag returns the most recent tag name, or "" when the repository has no tags
	LatestTag(ctx context.Context) (string, error)
	// FileAt returns the raw content of path at ref
	FileAt(ctx context.Context, path, ref string) ([]byte, error)
	// ReleaseByTag returns the release published for tag
	ReleaseByTag(ctx context.Context, tag string) (*Release, error)
	// CompareFiles returns the paths changed between base and head
	CompareFiles(ctx context.Context, base, head string) ([]string, error)
}

// Release 发布说明
type Release struct {
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at"`
}

type githubTag struct {
	Name string `json:"name"`
}

type githubContent struct {
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

type githubCompare struct {
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

// StatusError is returned when the registry answers with a non 2xx status
// StatusError 仓库返回非 2xx 状态码
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry request %s returned status %d", e.URL, e.StatusCode)
}

// GitHubClient talks to the GitHub compatible REST API of one repository
// GitHubClient 访问单个仓库的 GitHub 兼容 REST API
type GitHubClient struct {
	baseURL string
	owner   string
	repo    string
	token   string
	client  *http.Client
}

// NewGitHubClient repository 格式为 owner/repo
func NewGitHubClient(baseURL, repository, token string, timeout time.Duration) (*GitHubClient, error) {
	owner, repo, ok := strings.Cut(strings.Trim(repository, "/"), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, errors.Errorf("invalid repository %q, expected owner/repo", repository)
	}
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}
	return &GitHubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		owner:   owner,
		repo:    repo,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (g *GitHubClient) LatestTag(ctx context.Context) (string, error) {
	var tags []githubTag
	if err := g.get(ctx, "/tags?per_page=1", &tags); err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", nil
	}
	return tags[0].Name, nil
}

func (g *GitHubClient) FileAt(ctx context.Context, path, ref string) ([]byte, error) {
	var content githubContent
	p := "/contents/" + escapePath(path) + "?ref=" + url.QueryEscape(ref)
	if err := g.get(ctx, p, &content); err != nil {
		return nil, err
	}
	if content.Encoding != "base64" {
		return nil, errors.Errorf("unsupported content encoding %q", content.Encoding)
	}
	// GitHub 返回的 base64 内容按 60 列换行
	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, errors.Wrap(err, "decode content failed")
	}
	return data, nil
}

func (g *GitHubClient) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	var release Release
	if err := g.get(ctx, "/releases/tags/"+url.PathEscape(tag), &release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (g *GitHubClient) CompareFiles(ctx context.Context, base, head string) ([]string, error) {
	var cmp githubCompare
	if err := g.get(ctx, "/compare/"+url.PathEscape(base)+"..."+url.PathEscape(head), &cmp); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(cmp.Files))
	for _, f := range cmp.Files {
		files = append(files, f.Filename)
	}
	return files, nil
}

func (g *GitHubClient) get(ctx context.Context, path string, out any) error {
	u := g.baseURL + "/repos/" + url.PathEscape(g.owner) + "/" + url.PathEscape(g.repo) + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "build registry request failed")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "start-page-service-updater")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read registry response failed")
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode registry response failed")
	}
	return nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
