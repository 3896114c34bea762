/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package version carries build/release metadata (package name, author,
// license, build time, Go version constraint) for a binary, and exposes it
// to the config component framework as an opaque handle.
package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/kcenon/network-system-sub001/errors"
)

// Version exposes build/release metadata for a binary or library.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string
	GetLicenseName() string
	GetLicenseFull(extra ...License) string
	GetLicenseBoiler(extra ...License) string
	GetLicenseLegal(extra ...License) string

	CheckGo(constraint, operator string) errors.Error

	PrintInfo()
	PrintLicense(extra ...License)
}

type model struct {
	license License
	pkg     string
	desc    string
	date    time.Time
	build   string
	release string
	author  string
	prefix  string
	pkgPath string
}

// NewVersion builds a Version handle.
//
//   - lic is the declared license of the package.
//   - pkg is the package name; empty or "noname" derives it from obj's
//     reflected package path.
//   - date is parsed as RFC3339; an unparsable value falls back to now.
//   - obj is any value living in the root package whose path should be
//     reported by GetRootPackagePath; numSubPackage trims that many
//     trailing path segments (0 keeps obj's own package).
func NewVersion(lic License, pkg, desc, date, build, release, author, prefix string, obj interface{}, numSubPackage int) Version {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t = time.Now()
	}

	path := reflect.TypeOf(obj).PkgPath()
	root := trimPackagePath(path, numSubPackage)

	if len(pkg) < 1 || strings.EqualFold(pkg, "noname") {
		pkg = lastPathSegment(path)
	}

	return &model{
		license: lic,
		pkg:     pkg,
		desc:    desc,
		date:    t,
		build:   build,
		release: release,
		author:  author,
		prefix:  prefix,
		pkgPath: root,
	}
}

func lastPathSegment(path string) string {
	p := strings.Split(path, "/")
	return p[len(p)-1]
}

func trimPackagePath(path string, numSubPackage int) string {
	if numSubPackage <= 0 {
		return path
	}

	p := strings.Split(path, "/")
	if numSubPackage >= len(p) {
		return p[0]
	}

	return strings.Join(p[:len(p)-numSubPackage], "/")
}

func (m *model) GetPackage() string {
	return m.pkg
}

func (m *model) GetDescription() string {
	return m.desc
}

func (m *model) GetBuild() string {
	return m.build
}

func (m *model) GetRelease() string {
	return m.release
}

func (m *model) GetAuthor() string {
	return fmt.Sprintf("%s (source: %s)", m.author, m.pkgPath)
}

func (m *model) GetPrefix() string {
	return strings.ToUpper(m.prefix)
}

func (m *model) GetDate() string {
	return m.date.Format("2006-01-02 15:04:05 MST")
}

func (m *model) GetTime() time.Time {
	return m.date
}

func (m *model) GetAppId() string {
	return fmt.Sprintf("%s-%s-%s/Runtime:%s", m.release, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func (m *model) GetRootPackagePath() string {
	return m.pkgPath
}

func (m *model) GetHeader() string {
	return fmt.Sprintf("%s (%s) - release %s, build %s", m.pkg, m.desc, m.release, m.build)
}

func (m *model) GetInfo() string {
	return fmt.Sprintf("Release: %s\nBuild: %s\nDate: %s\nAuthor: %s", m.release, m.build, m.GetDate(), m.GetAuthor())
}

func (m *model) GetLicenseName() string {
	return m.license.name()
}

func (m *model) GetLicenseFull(extra ...License) string {
	return mergeLicenseBoiler(m.license, extra...)
}

func (m *model) GetLicenseBoiler(extra ...License) string {
	return mergeLicenseBoiler(m.license, extra...)
}

func (m *model) GetLicenseLegal(extra ...License) string {
	return mergeLicenseLegal(m.license, extra...)
}

func (m *model) PrintInfo() {
	println(m.GetHeader())
}

func (m *model) PrintLicense(extra ...License) {
	println(m.GetLicenseBoiler(extra...))
}

// CheckGo compares the running Go version against a constraint of the form
// "<operator> <version>" (e.g. CheckGo("1.21", ">=")). Supported operators
// are ==, !=, >, >=, <, <=.
func (m *model) CheckGo(constraint, operator string) errors.Error {
	if len(constraint) < 1 || len(operator) < 1 {
		return ErrorParamEmpty.Error(nil)
	}

	want, e := parseGoVersion(constraint)
	if e != nil {
		return ErrorGoVersionInit.Error(e)
	}

	have, e := parseGoVersion(strings.TrimPrefix(runtime.Version(), "go"))
	if e != nil {
		return ErrorGoVersionRuntime.Error(e)
	}

	cmp := compareGoVersion(have, want)

	var ok bool
	switch operator {
	case "==":
		ok = cmp == 0
	case "!=":
		ok = cmp != 0
	case ">":
		ok = cmp > 0
	case ">=":
		ok = cmp >= 0
	case "<":
		ok = cmp < 0
	case "<=":
		ok = cmp <= 0
	default:
		return ErrorGoVersionInit.Error(nil)
	}

	if !ok {
		return ErrorGoVersionConstraint.Error(nil)
	}

	return nil
}

func parseGoVersion(v string) ([]int, error) {
	parts := strings.Split(v, ".")
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty go version %q", v)
	}

	res := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid go version segment %q: %w", p, err)
		}
		res[i] = n
	}

	return res, nil
}

func compareGoVersion(have, want []int) int {
	n := len(have)
	if len(want) > n {
		n = len(want)
	}

	for i := 0; i < n; i++ {
		var a, b int
		if i < len(have) {
			a = have[i]
		}
		if i < len(want) {
			b = want[i]
		}
		if a != b {
			if a > b {
				return 1
			}
			return -1
		}
	}

	return 0
}
