// Package index scans package checkouts and maintains the index document
// and its archives.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/forgeyard/shelf/internal/archive"
	"github.com/forgeyard/shelf/pkg/types"
)

// Directory names for packages and archives, shared by both trees: the
// packages checkout holds integrations/ and platforms/ source folders, the
// index directory holds the matching archive folders.
const (
	IntegrationsDir = "integrations"
	PlatformsDir    = "platforms"
)

// Default archive ignore lists. Designer-only files never ship in a
// package archive; the emulator descriptor is integration-specific.
var (
	DefaultIntegrationIgnore = []string{"__pycache__", "designer", "designer.py", "emulator.json"}
	DefaultPlatformIgnore    = []string{"__pycache__", "designer", "designer.py"}
)

// Builder scans a packages checkout and brings the index directory up to
// date for one release channel.
type Builder struct {
	PackagesDir string
	IndexDir    string
	Channel     string
	Ignore      types.Ignore
	// Core holds source-repository versions recorded verbatim in the
	// document's core section.
	Core map[string]string
	Log  zerolog.Logger
}

// Artifact describes one archive (re)built during a run.
type Artifact struct {
	Name        string
	Kind        string
	Channel     string
	Version     string
	SHA256      string
	ArchivePath string
}

// Result summarizes an index run.
type Result struct {
	Doc     *types.Document
	Built   []Artifact
	Scanned int
}

// Run loads the existing index document, scans both package kinds, rebuilds
// stale archives, and writes the updated document back atomically.
func (b *Builder) Run() (Result, error) {
	var res Result

	if !types.ValidChannel(b.Channel) {
		return res, types.ErrChannelUnknown
	}

	doc, err := Load(filepath.Join(b.IndexDir, FileName))
	if err != nil {
		return res, err
	}
	res.Doc = doc

	if err := b.scanKind(&res, types.KindIntegration); err != nil {
		return res, err
	}
	if err := b.scanKind(&res, types.KindPlatform); err != nil {
		return res, err
	}

	for name, version := range b.Core {
		doc.SetCore(name, version)
	}

	if err := Save(filepath.Join(b.IndexDir, FileName), doc); err != nil {
		return res, err
	}
	return res, nil
}

// scanKind indexes every package directory of one kind. Directories
// without a descriptor file are skipped.
func (b *Builder) scanKind(res *Result, kind string) error {
	srcRoot := filepath.Join(b.PackagesDir, kindDir(kind))
	destRoot := filepath.Join(b.IndexDir, kindDir(kind))

	dirs, err := packageDirs(srcRoot)
	if err != nil {
		return err
	}

	for _, name := range dirs {
		pkgDir := filepath.Join(srcRoot, name)
		version, ok, err := b.descriptorVersion(kind, pkgDir)
		if err != nil {
			return err
		}
		if !ok {
			b.Log.Debug().Str("package", name).Str("kind", kind).Msg("no descriptor, skipping")
			continue
		}
		res.Scanned++

		archivePath := filepath.Join(destRoot, archive.Name(name, b.Channel))
		prev, hadPrev := res.Doc.Version(kind, name, b.Channel)
		if err := res.Doc.SetVersion(kind, name, b.Channel, version); err != nil {
			return err
		}

		if !needsRebuild(archivePath, prev, hadPrev, version) {
			b.Log.Debug().Str("package", name).Str("version", version).Msg("archive up to date")
			continue
		}

		b.Log.Info().Str("package", name).Str("kind", kind).
			Str("version", version).Str("channel", b.Channel).Msg("packaging")

		built, err := archive.Build(pkgDir, archivePath, archive.Options{Ignore: b.ignoreFor(kind)})
		if err != nil {
			return fmt.Errorf("package %s: %w", name, err)
		}
		res.Built = append(res.Built, Artifact{
			Name:        name,
			Kind:        kind,
			Channel:     b.Channel,
			Version:     version,
			SHA256:      built.SHA256,
			ArchivePath: built.Path,
		})
	}
	return nil
}

// descriptorVersion reads the package descriptor for the given kind.
// The second return value is false when the descriptor file is absent.
func (b *Builder) descriptorVersion(kind, pkgDir string) (string, bool, error) {
	switch kind {
	case types.KindIntegration:
		path := filepath.Join(pkgDir, types.ManifestFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", false, nil
		}
		m, err := types.LoadManifest(path)
		if err != nil {
			return "", false, err
		}
		return m.Version, true, nil
	case types.KindPlatform:
		path := filepath.Join(pkgDir, types.PlatformFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", false, nil
		}
		p, err := types.LoadPlatform(path)
		if err != nil {
			return "", false, err
		}
		return p.Version, true, nil
	default:
		return "", false, types.ErrKindUnknown
	}
}

// ignoreFor returns the configured ignore list for a kind, falling back to
// the defaults.
func (b *Builder) ignoreFor(kind string) []string {
	switch kind {
	case types.KindIntegration:
		if len(b.Ignore.Integrations) > 0 {
			return b.Ignore.Integrations
		}
		return DefaultIntegrationIgnore
	default:
		if len(b.Ignore.Platforms) > 0 {
			return b.Ignore.Platforms
		}
		return DefaultPlatformIgnore
	}
}

// needsRebuild decides whether a package archive must be rebuilt: the
// archive is missing, the package has no version recorded for this channel,
// or the descriptor version is newer than the recorded one. Unparseable
// versions force a rebuild rather than silently going stale.
func needsRebuild(archivePath, prev string, hadPrev bool, next string) bool {
	if _, err := os.Stat(archivePath); err != nil {
		return true
	}
	if !hadPrev {
		return true
	}
	pv, err := semver.NewVersion(prev)
	if err != nil {
		return true
	}
	nv, err := semver.NewVersion(next)
	if err != nil {
		return true
	}
	return nv.GreaterThan(pv)
}

// packageDirs lists subdirectory names of root in sorted order. A missing
// root yields an empty list: a checkout without platforms is legal.
func packageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read packages dir: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// kindDir maps a package kind to its directory name.
func kindDir(kind string) string {
	if kind == types.KindPlatform {
		return PlatformsDir
	}
	return IntegrationsDir
}
