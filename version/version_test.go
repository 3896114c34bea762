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

package version_test

import (
	"runtime"
	"strings"
	"time"

	"github.com/kcenon/network-system-sub001/version"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewVersion", func() {
	var (
		testPackage     = "TestApp"
		testDescription = "Test Application"
		testBuild       = "abc123def"
		testRelease     = "v1.2.3"
		testAuthor      = "Test Author"
		testPrefix      = "test"
	)

	It("creates a version instance", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v).ToNot(BeNil())
	})

	It("parses the declared date", func() {
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetTime()).To(Equal(testTimeParsed))
		Expect(v.GetDate()).To(ContainSubstring("2024"))
	})

	It("falls back to now for an unparsable date", func() {
		before := time.Now()
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, "not-a-date", testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		after := time.Now()

		Expect(v.GetTime()).To(BeTemporally(">=", before))
		Expect(v.GetTime()).To(BeTemporally("<=", after))
	})

	It("derives the package name from reflection when empty", func() {
		v := version.NewVersion(version.License_MIT, "", testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetPackage()).To(Equal("version_test"))
	})

	It("derives the package name from reflection when \"noname\"", func() {
		v := version.NewVersion(version.License_MIT, "noname", testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetPackage()).To(Equal("version_test"))
	})

	It("trims numSubPackage trailing segments from the root package path", func() {
		v0 := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v0.GetRootPackagePath()).To(ContainSubstring("version_test"))

		v1 := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 1)
		Expect(v1.GetRootPackagePath()).ToNot(ContainSubstring("version_test"))
	})

	Describe("getters", func() {
		var v version.Version

		BeforeEach(func() {
			v = version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		})

		It("returns the package, description, build and release as given", func() {
			Expect(v.GetPackage()).To(Equal(testPackage))
			Expect(v.GetDescription()).To(Equal(testDescription))
			Expect(v.GetBuild()).To(Equal(testBuild))
			Expect(v.GetRelease()).To(Equal(testRelease))
		})

		It("returns an uppercased prefix", func() {
			Expect(v.GetPrefix()).To(Equal(strings.ToUpper(testPrefix)))
		})

		It("includes the author and a source hint", func() {
			author := v.GetAuthor()
			Expect(author).To(ContainSubstring(testAuthor))
			Expect(author).To(ContainSubstring("source"))
		})

		It("includes release, OS, arch and the Go runtime in the app id", func() {
			appId := v.GetAppId()
			Expect(appId).To(ContainSubstring(testRelease))
			Expect(appId).To(ContainSubstring(runtime.GOOS))
			Expect(appId).To(ContainSubstring(runtime.GOARCH))
			Expect(appId).To(ContainSubstring("Runtime"))
		})

		It("includes package, release and build in the header", func() {
			header := v.GetHeader()
			Expect(header).To(ContainSubstring(testPackage))
			Expect(header).To(ContainSubstring(testRelease))
			Expect(header).To(ContainSubstring(testBuild))
		})

		It("includes release, build and date in the info block", func() {
			info := v.GetInfo()
			Expect(info).To(ContainSubstring("Release"))
			Expect(info).To(ContainSubstring(testRelease))
			Expect(info).To(ContainSubstring("Build"))
			Expect(info).To(ContainSubstring(testBuild))
			Expect(info).To(ContainSubstring("Date"))
		})
	})

	Describe("print methods", func() {
		var v version.Version

		BeforeEach(func() {
			v = version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		})

		It("PrintInfo relies on a non-empty header", func() {
			Expect(v.GetHeader()).ToNot(BeEmpty())
		})

		It("PrintLicense relies on a non-empty boilerplate, including extra licenses", func() {
			boiler := v.GetLicenseBoiler(version.License_Apache_v2)
			Expect(boiler).To(ContainSubstring("MIT License"))
			Expect(boiler).To(ContainSubstring("Apache License"))
		})
	})

	Describe("edge cases", func() {
		It("handles every field being empty", func() {
			v := version.NewVersion(version.License_MIT, "", "", "", "", "", "", "", testStruct{}, 0)
			Expect(v).ToNot(BeNil())
			Expect(v.GetPackage()).ToNot(BeEmpty())
			Expect(v.GetTime()).ToNot(BeZero())
		})

		It("handles a numSubPackage larger than the path depth", func() {
			v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 100)
			Expect(v.GetRootPackagePath()).ToNot(BeEmpty())
		})
	})

	Describe("CheckGo", func() {
		var v version.Version

		BeforeEach(func() {
			v = version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		})

		extractGoVersion := func() (string, string) {
			ver := strings.TrimPrefix(runtime.Version(), "go")
			parts := strings.Split(ver, ".")
			if len(parts) >= 2 {
				return parts[0], parts[1]
			}
			return parts[0], "0"
		}

		It("passes a >= constraint below the running version", func() {
			Expect(v.CheckGo("1.10", ">=")).To(BeNil())
		})

		It("fails a >= constraint above the running version", func() {
			err := v.CheckGo("99.99", ">=")
			Expect(err).ToNot(BeNil())
			Expect(err.GetCode()).To(Equal(version.ErrorGoVersionConstraint))
		})

		It("passes a < constraint above the running version", func() {
			Expect(v.CheckGo("99.99", "<")).To(BeNil())
		})

		It("matches the running version with ==", func() {
			major, minor := extractGoVersion()
			Expect(v.CheckGo(major+"."+minor, "==")).To(BeNil())
		})

		It("rejects an unknown operator", func() {
			err := v.CheckGo("1.18", "~>")
			Expect(err).ToNot(BeNil())
			Expect(err.GetCode()).To(Equal(version.ErrorGoVersionInit))
		})

		It("rejects an unparsable constraint", func() {
			err := v.CheckGo("not-a-version", ">=")
			Expect(err).ToNot(BeNil())
			Expect(err.GetCode()).To(Equal(version.ErrorGoVersionInit))
		})

		It("rejects empty constraint or operator", func() {
			Expect(v.CheckGo("", ">=")).ToNot(BeNil())
			Expect(v.CheckGo("1.18", "")).ToNot(BeNil())
		})
	})

	Describe("integration", func() {
		It("provides a consistent picture across all getters", func() {
			v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)

			Expect(v.GetInfo()).To(ContainSubstring(testRelease))
			Expect(v.GetHeader()).To(ContainSubstring(testPackage))
			Expect(v.GetAppId()).To(ContainSubstring(testRelease))
			Expect(v.GetAuthor()).To(ContainSubstring(testAuthor))
			Expect(v.GetLicenseName()).ToNot(BeEmpty())
			Expect(v.GetLicenseLegal()).ToNot(BeEmpty())
			Expect(v.GetLicenseBoiler()).ToNot(BeEmpty())
			Expect(v.GetLicenseFull()).ToNot(BeEmpty())
		})
	})
})
