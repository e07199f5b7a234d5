package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"plantio/entities"
)

// StructValidator is satisfied by validation.Validator (and echo.Validator).
type StructValidator interface {
	Validate(i interface{}) error
}

// ViolationError lists version-specific rule violations of a decoded plan.
type ViolationError struct {
	Version    Version
	Violations []string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("plan does not match schema %s: %s", e.Version, strings.Join(e.Violations, "; "))
}

// Decode projects a normalized document onto the strict PlantingPlan for v
// and validates it. Keys that belong to other versions are dropped.
func Decode(v Version, doc map[string]any, val StructValidator) (*entities.PlantingPlan, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode normalized reply: %w", err)
	}
	var plan entities.PlantingPlan
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	project(v, &plan)

	if err := val.Validate(&plan); err != nil {
		return nil, err
	}
	if err := checkVersion(v, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func project(v Version, plan *entities.PlantingPlan) {
	for i := range plan.Tarefas {
		t := &plan.Tarefas[i]
		switch v {
		case V3:
			t.Cron = ""
		default:
			t.Frequencia = ""
		}
		if v == V1 {
			t.Habilidade.ID = ""
			t.Tutorial = nil
		} else {
			t.Habilidade.Nome = ""
		}
	}
}

func checkVersion(v Version, plan *entities.PlantingPlan) error {
	var problems []string
	seen := map[string]bool{}
	for i, t := range plan.Tarefas {
		seen[t.Tipo] = true
		switch v {
		case V3:
			if !slices.Contains(Frequencies, t.Frequencia) {
				problems = append(problems, fmt.Sprintf("tarefas[%d].frequencia %q not in %v", i, t.Frequencia, Frequencies))
			}
		default:
			if strings.TrimSpace(t.Cron) == "" {
				problems = append(problems, fmt.Sprintf("tarefas[%d].cron is required", i))
			}
		}
		skill := t.Habilidade.ID
		if v == V1 {
			skill = t.Habilidade.Nome
		}
		if strings.TrimSpace(skill) == "" {
			problems = append(problems, fmt.Sprintf("tarefas[%d].habilidade.%s is required", i, v.SkillKey()))
		}
	}
	for _, tipo := range entities.MandatoryTaskTypes {
		if !seen[tipo] {
			problems = append(problems, fmt.Sprintf("missing mandatory task type %q", tipo))
		}
	}
	if len(problems) > 0 {
		return &ViolationError{Version: v, Violations: problems}
	}
	return nil
}
