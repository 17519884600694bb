package export

import (
	"strings"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
)

// FilenameParams are the filters reflected in a download name.
type FilenameParams struct {
	Team   string
	Status string
	Type   string
	Start  *time.Time
	End    *time.Time
}

// Filename builds a descriptive download name such as
// epics_report_team_Platform_2025-01-01_to_2025-03-31_20250615_103000.csv.
func Filename(r Report, p FilenameParams, now time.Time) string {
	parts := []string{string(r) + "_report"}

	if p.Team != "" {
		parts = append(parts, "team_"+slug(p.Team))
	}
	if p.Status != "" {
		parts = append(parts, "status_"+slug(p.Status))
	}
	if p.Type != "" {
		parts = append(parts, "type_"+slug(p.Type))
	}

	switch {
	case p.Start != nil && p.End != nil:
		parts = append(parts, p.Start.Format(domain.DateLayout)+"_to_"+p.End.Format(domain.DateLayout))
	case p.Start != nil:
		parts = append(parts, "since_"+p.Start.Format(domain.DateLayout))
	case p.End != nil:
		parts = append(parts, "until_"+p.End.Format(domain.DateLayout))
	}

	parts = append(parts, now.Format("20060102_150405"))
	return strings.Join(parts, "_") + ".csv"
}

var slugReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-", `"`, "", ";", "", ",", "")

func slug(s string) string {
	return slugReplacer.Replace(strings.TrimSpace(s))
}
