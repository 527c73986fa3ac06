// Package ruleset resolves the query suite a scan should run for a language.
// Resolution walks a fixed chain of local candidates and only falls back to a
// symbolic suite name, resolved by the engine itself over the network, when
// nothing exists on disk.
package ruleset

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/language"
	"github.com/scanmill/scanmill/pkg/shared/config"
)

// Source names the chain step that produced a reference.
type Source string

const (
	// SourcePinned is a per-language suite path pinned in the configuration.
	SourcePinned Source = "pinned"
	// SourceVendored is a suite discovered in the local vendored suites folder.
	SourceVendored Source = "vendored"
	// SourceUpstream is a suite inside the cloned upstream query repository.
	SourceUpstream Source = "upstream"
	// SourceSymbolic is an unresolved suite name handed to the engine. The
	// engine resolves it through its own pack cache, which may require
	// network access.
	SourceSymbolic Source = "symbolic"
)

// Reference is a resolved suite handle. Value is a filesystem path unless
// Symbolic is set, in which case it is a suite name for the engine to
// resolve. Callers use Symbolic to pick the stricter remote timeout.
type Reference struct {
	Value    string
	Source   Source
	Symbolic bool
}

// Resolver locates query suites for the configured installation.
type Resolver struct {
	logger     hclog.Logger
	pinned     map[string]string
	suitesDir  string
	queriesDir string
}

// New builds a resolver over the validated configuration.
func New(logger hclog.Logger, cfg *config.Config) *Resolver {
	return &Resolver{
		logger:     logger,
		pinned:     cfg.Engine.PinnedSuites,
		suitesDir:  config.GetSuitesHome(cfg),
		queriesDir: config.GetQueriesHome(cfg),
	}
}

// Resolve returns the first suite reference that exists for the language, in
// strict order: the pinned path from the configuration, a vendored suite
// file, the cloned upstream repository, and finally the symbolic name.
// Resolution itself never fails; the symbolic branch always applies.
func (r *Resolver) Resolve(lang language.Language) Reference {
	if path, ok := r.pinned[lang.String()]; ok && fileExists(path) {
		r.logger.Debug("using pinned suite", "language", lang, "path", path)
		return Reference{Value: path, Source: SourcePinned}
	}

	if path := r.vendoredSuite(lang); path != "" {
		r.logger.Debug("using vendored suite", "language", lang, "path", path)
		return Reference{Value: path, Source: SourceVendored}
	}

	if path := r.upstreamSuite(lang); path != "" {
		r.logger.Debug("using upstream suite", "language", lang, "path", path)
		return Reference{Value: path, Source: SourceUpstream}
	}

	name := PrimaryName(lang)
	r.logger.Debug("no local suite found, deferring to engine resolution", "language", lang, "suite", name)
	return Reference{Value: name, Source: SourceSymbolic, Symbolic: true}
}

// vendoredSuite scans the per-family suites folder for the language and picks
// the lexically first suite descriptor.
func (r *Resolver) vendoredSuite(lang language.Language) string {
	family := "interpreted"
	if lang.IsCompiled() {
		family = "compiled"
	}
	matches, err := filepath.Glob(filepath.Join(r.suitesDir, family, lang.String(), "*.qls"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// upstreamSuite probes the conventional suite locations inside the cloned
// upstream query repository, security-and-quality before code-scanning.
func (r *Resolver) upstreamSuite(lang language.Language) string {
	candidates := []string{
		filepath.Join(r.queriesDir, lang.String(), "ql", "src", "codeql-suites", PrimaryName(lang)),
		filepath.Join(r.queriesDir, lang.String(), "ql", "src", "codeql-suites", FallbackName(lang)),
	}
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// PrimaryName returns the engine-resolvable name of the language's standard
// security-and-quality suite.
func PrimaryName(lang language.Language) string {
	return lang.String() + "-security-and-quality.qls"
}

// FallbackName returns the more generic code-scanning suite name used for
// the single analysis retry.
func FallbackName(lang language.Language) string {
	return lang.String() + "-code-scanning.qls"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
