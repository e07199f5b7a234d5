package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	defaultMaterialQty  = 1
	defaultMaterialUnit = "un"
)

var firstDigits = regexp.MustCompile(`\d+`)

// Parse decodes a raw model reply. Numbers are kept as json.Number so the
// normalizer sees exactly what the model wrote.
func Parse(raw string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reply is a JSON %s, want object", kindOf(v))
	}
	return doc, nil
}

// Normalize applies the adapter registered for v.
func Normalize(v Version, reply map[string]any) (map[string]any, error) {
	adapt, ok := adapters[v]
	if !ok {
		return nil, fmt.Errorf("unknown schema version %q", v)
	}
	return adapt(reply), nil
}

func adaptV1(reply map[string]any) map[string]any {
	out := clone(reply).(map[string]any)
	eachTask(out, func(task map[string]any) {
		coerceCount(task)
		renameKey(task, "frequencia", "cron")
		renameSkillKey(task, "id", "nome")
		delete(task, "tutorial")
	})
	return out
}

func adaptV2(reply map[string]any) map[string]any {
	out := clone(reply).(map[string]any)
	eachTask(out, func(task map[string]any) {
		coerceCount(task)
		renameKey(task, "frequencia", "cron")
		renameSkillKey(task, "nome", "id")
		normalizeTutorial(task)
	})
	return out
}

func adaptV3(reply map[string]any) map[string]any {
	out := clone(reply).(map[string]any)
	eachTask(out, func(task map[string]any) {
		coerceCount(task)
		renameKey(task, "cron", "frequencia")
		renameSkillKey(task, "nome", "id")
		normalizeTutorial(task)
	})
	return out
}

func eachTask(doc map[string]any, fn func(map[string]any)) {
	tasks, ok := doc["tarefas"].([]any)
	if !ok {
		return
	}
	for _, t := range tasks {
		if task, ok := t.(map[string]any); ok {
			fn(task)
		}
	}
}

// coerceCount turns a textual quantidade_total into the first run of digits
// it contains, or 0 when there is none. Whole-number floats such as 12.0
// become ints.
func coerceCount(task map[string]any) {
	switch v := task["quantidade_total"].(type) {
	case string:
		task["quantidade_total"] = countFromText(v)
	case json.Number:
		if n, ok := wholeNumber(v); ok {
			task["quantidade_total"] = n
		}
	}
}

// countFromText keeps a digit run too large for int as a json.Number so the
// strict decode rejects it instead of reading it as 0.
func countFromText(s string) any {
	m := firstDigits.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return json.Number(m)
	}
	return n
}

// maxExactInt is the largest magnitude a float64 holds without rounding.
const maxExactInt = 1 << 53

func wholeNumber(v json.Number) (int, bool) {
	if _, err := v.Int64(); err == nil {
		return 0, false
	}
	f, err := v.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// renameKey moves from -> to unless to is already set.
func renameKey(m map[string]any, from, to string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, taken := m[to]; taken {
		return
	}
	m[to] = v
	delete(m, from)
}

func renameSkillKey(task map[string]any, from, to string) {
	if skill, ok := task["habilidade"].(map[string]any); ok {
		renameKey(skill, from, to)
	}
}

func normalizeTutorial(task map[string]any) {
	tut, ok := task["tutorial"].(map[string]any)
	if !ok {
		return
	}

	mats, _ := tut["materiais"].([]any)
	wrapped := make([]any, 0, len(mats))
	for _, item := range mats {
		if name, ok := item.(string); ok {
			wrapped = append(wrapped, map[string]any{
				"nome":       name,
				"quantidade": defaultMaterialQty,
				"unidade":    defaultMaterialUnit,
			})
			continue
		}
		wrapped = append(wrapped, item)
	}
	tut["materiais"] = wrapped

	steps, _ := tut["etapas"].([]any)
	ordered := make([]any, 0, len(steps))
	for i, step := range steps {
		if desc, ok := step.(string); ok {
			ordered = append(ordered, map[string]any{
				"descricao": desc,
				"ordem":     i + 1,
			})
			continue
		}
		ordered = append(ordered, step)
	}
	tut["etapas"] = ordered
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = clone(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = clone(x)
		}
		return out
	default:
		return v
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
