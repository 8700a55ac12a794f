package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameExtractors(t *testing.T) {
	tests := []struct {
		name    string
		extract func([]byte) string
		input   string
		want    string
	}{
		{"cargo", tomlName, "[package]\nname = \"my-crate\"\nversion = \"0.1.0\"\n", "my-crate"},
		{"cargo ignores namespace-like keys", tomlName, "names_extra = 1\nname=\"real\"\n", "real"},
		{"cargo workspace only", tomlName, "[workspace]\nmembers = [\"a\"]\n", ""},
		{"pyproject", tomlName, "[project]\nname = \"pkg\"\n", "pkg"},
		{"setup.py", setupPyName, "from setuptools import setup\nsetup(\n    name='legacy',\n)\n", "legacy"},
		{"setup.cfg", setupCfgName, "[options]\nname = wrong\n[metadata]\nname = cfgpkg\n", "cfgpkg"},
		{"package.json", jsonName, `{"version":"1.0.0","name":"web-app"}`, "web-app"},
		{"package.json malformed", jsonName, `{"name":`, ""},
		{"pubspec", yamlName, "name: flutter_app\nversion: 1.0.0\n", "flutter_app"},
		{"pubspec malformed", yamlName, "name: [unclosed\n", ""},
		{"go.mod", goModName, "module github.com/acme/service\n\ngo 1.22\n", "service"},
		{"go.mod single element", goModName, "module tool\n", "tool"},
		{"maven skips parent", mavenName, "<project>\n<parent>\n<artifactId>parent-pom</artifactId>\n</parent>\n<artifactId>app</artifactId>\n</project>\n", "app"},
		{"gradle double quotes", gradleName, "rootProject.name = \"gradle-app\"\n", "gradle-app"},
		{"gradle single quotes", gradleName, "rootProject.name = 'groovy-app'\n", "groovy-app"},
		{"sbt", sbtName, "ThisBuild / scalaVersion := \"3.3.0\"\nname := \"scala-app\"\n", "scala-app"},
		{"swift", swiftName, "let package = Package(\n    name: \"SwiftTool\",\n    targets: []\n)\n", "SwiftTool"},
		{"cmake", cmakeName, "cmake_minimum_required(VERSION 3.10)\nproject(Engine VERSION 1.0)\n", "Engine"},
		{"cmake uppercase quoted", cmakeName, "PROJECT(\"quoted\")\n", "quoted"},
		{"cabal", cabalName, "cabal-version: 2.4\nName:    hs-lib\n", "hs-lib"},
		{"zig string", zigName, ".{\n    .name = \"zigapp\",\n}\n", "zigapp"},
		{"zig enum literal", zigName, ".{\n    .name = .zigapp,\n}\n", "zigapp"},
		{"gemspec", gemspecName, "Gem::Specification.new do |spec|\n  spec.name = \"gem-one\"\nend\n", "gem-one"},
		{"mix", mixName, "def project do\n  [app: :my_app, version: \"0.1.0\"]\nend\n", "my_app"},
		{"empty", tomlName, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.extract([]byte(tt.input)))
		})
	}
}

func TestQuoteHelpers(t *testing.T) {
	assert.Equal(t, "abc", quoted(`name = "abc"`))
	assert.Equal(t, "", quoted(`name = "abc`))
	assert.Equal(t, "a", firstQuoted(`x('a', "b")`))
	assert.Equal(t, "", firstQuoted(`no quotes`))
	assert.True(t, isAssignment("name = 1", "name"))
	assert.False(t, isAssignment("namespace = 1", "name"))
}
