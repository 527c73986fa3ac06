// Package buildplan decides how a source tree must be built before the
// analysis engine can extract a database from it. Resolution is a pure
// function of the language and the tree layout; nothing is executed here.
package buildplan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/scanmill/scanmill/internal/language"
)

// Strategy names the rule that produced a build command.
type Strategy string

const (
	// StrategyManifest means a recognized build-manifest file drives the build.
	StrategyManifest Strategy = "manifest"
	// StrategyWrapper means a wrapper script checked into the tree drives the build.
	StrategyWrapper Strategy = "wrapper"
	// StrategyNaive means the plain compiler is invoked over the raw file
	// list. Unreliable for multi-package projects; kept as a last resort.
	StrategyNaive Strategy = "naive"
)

// Plan is the build command handed to the engine tracer during database
// creation.
type Plan struct {
	Command  string
	Strategy Strategy
}

// Resolve returns the build plan for a source tree, or nil when the language
// is interpreted and needs no build. sources must hold the tree's relative
// paths for the given language; it is only consulted for the naive fallback.
// Resolution performs existence checks under root and nothing else.
func Resolve(root string, lang language.Language, sources []string) *Plan {
	if !lang.IsCompiled() {
		return nil
	}

	switch lang {
	case language.Java:
		if exists(root, "pom.xml") {
			return &Plan{Command: "mvn clean compile -DskipTests", Strategy: StrategyManifest}
		}
		if exists(root, "gradlew") {
			return &Plan{Command: "./gradlew clean assemble", Strategy: StrategyWrapper}
		}
		return naive("javac -cp .", sources)
	case language.Go:
		if exists(root, "go.mod") {
			return &Plan{Command: "go build ./...", Strategy: StrategyManifest}
		}
		if exists(root, "Makefile") {
			return &Plan{Command: "make", Strategy: StrategyWrapper}
		}
		return naive("go build", sources)
	case language.Cpp:
		if exists(root, "Makefile") {
			return &Plan{Command: "make", Strategy: StrategyManifest}
		}
		if exists(root, "configure") {
			return &Plan{Command: "./configure && make", Strategy: StrategyWrapper}
		}
		return naive("g++ -c", sources)
	case language.CSharp:
		if glob(root, "*.sln") || glob(root, "*.csproj") {
			return &Plan{Command: "dotnet build", Strategy: StrategyManifest}
		}
		return naive("csc", sources)
	}
	return nil
}

// naive builds a plain compiler invocation over the file list. An empty list
// degrades to a no-op command so database creation can still proceed.
func naive(compiler string, sources []string) *Plan {
	if len(sources) == 0 {
		return &Plan{Command: "true", Strategy: StrategyNaive}
	}
	return &Plan{Command: compiler + " " + strings.Join(sources, " "), Strategy: StrategyNaive}
}

func exists(root, name string) bool {
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}

func glob(root, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	return err == nil && len(matches) > 0
}
