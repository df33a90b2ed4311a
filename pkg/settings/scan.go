package settings

import (
	"bufio"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/skel/pkg/mounts"
	"github.com/arthur-debert/skel/pkg/types"
)

// IgnoreFileName is the optional per-probing-path file listing glob patterns
// (doublestar syntax) of template configurations to skip during a scan.
const IgnoreFileName = ".skelignore"

// ScanProbingPaths walks every probing path, mounts it, asks each registered
// generator for the templates it recognizes, and rewrites the template cache
// with the result. Unreadable paths and failing generators are skipped, not
// fatal. The merged culture-neutral list is returned.
func (e *Environment) ScanProbingPaths() ([]types.TemplateInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}

	var all []types.TemplateInfo
	localized := make(map[string][]types.TemplateInfo)

	for _, probe := range e.store.ProbingPaths() {
		stat, err := os.Stat(probe)
		if err != nil || !stat.IsDir() {
			e.log.Debug().Str("path", probe).Msg("probing path unavailable, skipping")
			continue
		}

		info, found := mounts.FindInfo(e.store.MountPoints(), probe, "")
		if !found {
			canonical, err := e.store.AddMountPoint(mounts.NewDirectoryInfo(probe))
			if err != nil {
				return nil, err
			}
			e.mounts.AddInfo(canonical)
			info = canonical
		}

		mp, err := e.mounts.Demand(info.ID)
		if err != nil {
			e.log.Warn().Err(err).Str("path", probe).Msg("cannot mount probing path, skipping")
			continue
		}

		ignores := readIgnorePatterns(mp)

		e.components.EachGenerator(func(g types.Generator) {
			infos, langpacks, err := g.TemplatesFromMount(mp)
			if err != nil {
				e.log.Warn().Err(err).Str("generator", g.ID()).Str("path", probe).Msg("scan failed for generator")
				return
			}
			for _, ti := range infos {
				if matchesAny(ignores, ti.ConfigPlace) {
					continue
				}
				all = append(all, ti)
			}
			for _, lp := range langpacks {
				localized[lp.Locale] = append(localized[lp.Locale], lp.Templates...)
			}
		})
	}

	if err := e.cache.Write("", all); err != nil {
		return nil, err
	}
	// The current locale's file is rewritten even without langpacks: an
	// earlier load may have cloned the neutral cache into it, and that clone
	// would otherwise shadow this scan's results on every subsequent load.
	if current := e.cache.Locale(); current != "" {
		if _, ok := localized[current]; !ok {
			localized[current] = nil
		}
	}
	for locale, templates := range localized {
		if err := e.cache.Write(locale, mergeLocalized(all, templates)); err != nil {
			return nil, err
		}
	}

	// Pick up the freshly written documents for the current locale.
	if err := e.cache.Load(); err != nil {
		return nil, err
	}
	return all, nil
}

// mergeLocalized overlays localized template records onto the neutral list:
// records sharing an ID replace the neutral entry, the rest of the neutral
// list is kept as-is.
func mergeLocalized(neutral, localized []types.TemplateInfo) []types.TemplateInfo {
	byID := make(map[string]types.TemplateInfo, len(localized))
	for _, ti := range localized {
		byID[ti.ID] = ti
	}

	merged := make([]types.TemplateInfo, 0, len(neutral))
	for _, ti := range neutral {
		if loc, ok := byID[ti.ID]; ok {
			merged = append(merged, loc)
			continue
		}
		merged = append(merged, ti)
	}
	return merged
}

// readIgnorePatterns loads glob patterns from the mount's ignore file.
// No file means no patterns.
func readIgnorePatterns(mp types.MountPoint) []string {
	f, err := mp.FS().Open(IgnoreFileName)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

func matchesAny(patterns []string, place string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, place); err == nil && ok {
			return true
		}
	}
	return false
}
