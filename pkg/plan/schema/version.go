// Package schema turns a loosely structured model reply into a PlantingPlan.
//
// Each reply shape version has its own Adapter: a pure function that repairs
// the decoded JSON document in the ways the model is known to drift (text
// counts, shorthand tutorial items, renamed keys). Adapters only reshape
// values already present; they never invent task content.
package schema

import (
	"fmt"
	"strings"
)

type Version string

const (
	// V1 tasks carry cron and habilidade.nome, no tutorial.
	V1 Version = "v1"
	// V2 tasks carry cron, habilidade.id and a tutorial.
	V2 Version = "v2"
	// V3 tasks carry a coarse frequencia label instead of cron.
	V3 Version = "v3"

	Default = V3
)

// Frequencies permitted for V3 tasks.
var Frequencies = []string{"unica", "diaria", "a_cada_2_dias", "semanal", "quinzenal", "mensal"}

// Adapter repairs a decoded reply for one version. It must not mutate its input.
type Adapter func(reply map[string]any) map[string]any

var adapters = map[Version]Adapter{
	V1: adaptV1,
	V2: adaptV2,
	V3: adaptV3,
}

// ParseVersion accepts "v2", "V2" or "2".
func ParseVersion(s string) (Version, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	v := Version(s)
	if _, ok := adapters[v]; !ok {
		return "", fmt.Errorf("unknown schema version %q", s)
	}
	return v, nil
}

// RecurrenceKey is the task key holding the schedule for this version.
func (v Version) RecurrenceKey() string {
	if v == V3 {
		return "frequencia"
	}
	return "cron"
}

// SkillKey is the habilidade key identifying the skill for this version.
func (v Version) SkillKey() string {
	if v == V1 {
		return "nome"
	}
	return "id"
}

// HasTutorial reports whether tasks of this version may carry a tutorial.
func (v Version) HasTutorial() bool { return v != V1 }
