// Package rules loads industry rules from the INI rule file.
//
// Each section names an industry matcher. A section holds a match_level key
// (1, 2 or 3) and one key per scale category whose value is a condition
// expression:
//
//	[工业]
//	match_level = 1
//	大型企业 = 从业人数>=1000, 全年营业收入>=40000
//	微型企业 = 从业人数<20, 全年营业收入<300
//
// Sections with problems are skipped and reported; only a missing or
// unreadable file is fatal.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/predicate"
	"gopkg.in/ini.v1"
)

// DefaultFileName is the rule file looked up next to the executable.
const DefaultFileName = "industries_config.ini"

// matchLevelKeys are the accepted spellings of the match level key, lower case
// because keys are loaded case-insensitively.
var matchLevelKeys = []string{"match_level", "matchlevel"}

// SectionError describes a section that was skipped.
type SectionError struct {
	Err     error
	Section string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section [%s]: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// LoadResult holds the rules that loaded and the sections that did not.
type LoadResult struct {
	Path    string
	Rules   []model.IndustryRule
	Skipped []*SectionError
}

// Load reads the rule file at path.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	slog.Debug("Reading rule file", "path", path)

	result, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.Path = path
	return result, nil
}

// Parse builds rules from rule file contents.
func Parse(data []byte) (*LoadResult, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys: true,
		// Condition values contain '=' and never ':'.
		KeyValueDelimiters: "=",
		// Repeats are kept apart so checkUnique can reject them.
		AllowNonUniqueSections: true,
		AllowShadows:           true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfigParse, err)
	}
	if err := checkUnique(cfg); err != nil {
		return nil, err
	}

	result := &LoadResult{}
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				slog.Warn("Ignoring keys outside of any industry section", "count", len(section.Keys()))
			}
			continue
		}

		rule, err := parseSection(section)
		if err != nil {
			skipped := &SectionError{Section: section.Name(), Err: err}
			result.Skipped = append(result.Skipped, skipped)
			slog.Warn("Skipping industry section", "section", section.Name(), "error", err)
			continue
		}

		slog.Debug("Loaded industry rule",
			"industry", rule.Matcher,
			"match_level", int(rule.Level),
			"categories", len(rule.Categories))
		result.Rules = append(result.Rules, rule)
	}

	slog.Info("Rule file loaded", "rules", len(result.Rules), "skipped", len(result.Skipped))
	return result, nil
}

// checkUnique rejects repeated section headers and repeated keys within a
// section. Either would otherwise merge into a rule nobody wrote.
func checkUnique(cfg *ini.File) error {
	seen := make(map[string]bool)
	for _, section := range cfg.Sections() {
		name := section.Name()
		if !seen[name] {
			seen[name] = true
			sections, err := cfg.SectionsByName(name)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrConfigParse, err)
			}
			if len(sections) > 1 {
				return fmt.Errorf("%w: section [%s] appears %d times", common.ErrConfigParse, name, len(sections))
			}
		}

		for _, key := range section.Keys() {
			if n := len(key.ValueWithShadows()); n > 1 {
				return fmt.Errorf("%w: key %q appears %d times in section [%s]", common.ErrConfigParse, key.Name(), n, name)
			}
		}
	}
	return nil
}

func parseSection(section *ini.Section) (model.IndustryRule, error) {
	rule := model.IndustryRule{Matcher: strings.TrimSpace(section.Name())}

	level, levelKey, err := sectionMatchLevel(section)
	if err != nil {
		return rule, err
	}
	rule.Level = level

	for _, key := range section.Keys() {
		if key.Name() == levelKey {
			continue
		}

		category, err := model.ParseScaleLevel(key.Name())
		if err != nil {
			return rule, err
		}

		preds, err := predicate.Parse(key.String())
		if err != nil {
			return rule, fmt.Errorf("category %s: %w", category.Label(), err)
		}

		rule.Categories = append(rule.Categories, model.CategoryRule{
			Level:      category,
			Kind:       model.KindFor(category),
			Predicates: preds,
		})
	}

	if err := rule.Validate(); err != nil {
		return rule, err
	}
	return rule, nil
}

func sectionMatchLevel(section *ini.Section) (model.MatchLevel, string, error) {
	for _, name := range matchLevelKeys {
		if !section.HasKey(name) {
			continue
		}
		raw := strings.TrimSpace(section.Key(name).String())
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, name, fmt.Errorf("%w: %q", common.ErrInvalidMatchLevel, raw)
		}
		level, err := model.ParseMatchLevel(n)
		return level, name, err
	}
	return 0, "", fmt.Errorf("%w: match_level is missing", common.ErrInvalidMatchLevel)
}

// DefaultPath returns the rule file location beside the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName), nil
}
