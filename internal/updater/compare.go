package updater

import (
	"cmp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a deployed or published version plus its patch counter
// Version 版本号及其独立的补丁计数
type Version struct {
	Version string `json:"version"`
	Patch   int    `json:"patch"`
}

// Compare orders two dotted version strings, returning 1, 0 or -1
// Compare 比较两个点分版本号，返回 1、0 或 -1
//
// 前导 v 会被去掉，"+" 之后的构建信息被忽略。"-" 之前的数字段逐段比较，缺失段与非数字段按 0 处理；
// 数字段相同时，带预发布后缀的版本排在不带后缀的之前，两侧都有后缀时按语义化版本的预发布规则比较。
// 每个版本都先归约为同一个比较键，因此任意长度与格式混用时仍是全序。
func Compare(a, b string) int {
	ca, pa := splitVersion(a)
	cb, pb := splitVersion(b)

	n := max(len(ca), len(cb))
	for i := 0; i < n; i++ {
		x, y := component(ca, i), component(cb, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}

	switch {
	case pa == pb:
		return 0
	case pa == "":
		return 1
	case pb == "":
		return -1
	}
	return comparePrerelease(pa, pb)
}

// HasUpdate reports whether latest is newer than current, using the patch counter to break ties
// HasUpdate 判断 latest 是否比 current 新，版本号相同时比较补丁计数
func HasUpdate(current, latest Version) bool {
	c := Compare(latest.Version, current.Version)
	return c > 0 || (c == 0 && latest.Patch > current.Patch)
}

func trimPrefix(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 0 && (v[0] == 'v' || v[0] == 'V') {
		return v[1:]
	}
	return v
}

// splitVersion returns the dotted core and the pre-release suffix
func splitVersion(v string) ([]string, string) {
	v = trimPrefix(v)
	v, _, _ = strings.Cut(v, "+")
	core, pre, _ := strings.Cut(v, "-")
	return strings.Split(core, "."), pre
}

// comparePrerelease 按语义化版本规则比较预发布后缀：数字标识按数值比较且小于字母标识，前缀相同时段数少的更小
func comparePrerelease(a, b string) int {
	if semver.IsValid("v0.0.0-"+a) && semver.IsValid("v0.0.0-"+b) {
		return semver.Compare("v0.0.0-"+a, "v0.0.0-"+b)
	}

	ia, ib := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(ia) && i < len(ib); i++ {
		if c := compareIdentifier(ia[i], ib[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ia), len(ib))
}

func compareIdentifier(a, b string) int {
	na, nb := isNumeric(a), isNumeric(b)
	switch {
	case na && nb:
		// 去掉前导 0 后先比长度再比字典序，避免大数溢出
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case na:
		return -1
	case nb:
		return 1
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
