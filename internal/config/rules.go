package config

import (
	"fmt"
	"os"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape of a rules overlay. Absent keys keep the
// defaults.
type rulesFile struct {
	NearDeadlineDays   *int     `yaml:"near_deadline_days"`
	LowProgressPercent *float64 `yaml:"low_progress_percent"`
	LowProgressDays    *int     `yaml:"low_progress_grace_days"`
	GanttMarginDays    *int     `yaml:"gantt_margin_days"`
	SummaryMaxChars    *int     `yaml:"summary_max_chars"`
}

// LoadRules returns the default classification rules, overlaid with the
// YAML file at path when path is non-empty.
func LoadRules(path string) (domain.Rules, error) {
	rules := domain.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules overlays a YAML document on the default rules.
func ParseRules(data []byte) (domain.Rules, error) {
	rules := domain.DefaultRules()

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rules, fmt.Errorf("parsing rules file: %w", err)
	}

	days := func(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

	if f.NearDeadlineDays != nil {
		if *f.NearDeadlineDays < 0 {
			return rules, fmt.Errorf("near_deadline_days must not be negative")
		}
		rules.NearDeadlineWindow = days(*f.NearDeadlineDays)
	}
	if f.LowProgressPercent != nil {
		if *f.LowProgressPercent < 0 || *f.LowProgressPercent > 100 {
			return rules, fmt.Errorf("low_progress_percent must be between 0 and 100")
		}
		rules.LowProgressPercent = *f.LowProgressPercent
	}
	if f.LowProgressDays != nil {
		rules.LowProgressGrace = days(*f.LowProgressDays)
	}
	if f.GanttMarginDays != nil {
		rules.GanttMargin = days(*f.GanttMarginDays)
	}
	if f.SummaryMaxChars != nil {
		if *f.SummaryMaxChars <= 0 {
			return rules, fmt.Errorf("summary_max_chars must be positive")
		}
		rules.SummaryMaxRunes = *f.SummaryMaxChars
	}

	return rules, nil
}
