package assessment

import (
	"encoding/json"
	"fmt"
)

// Documents arrive from storage with a mix of snake_case and camelCase keys
// depending on which upstream writer produced them. NormalizeDoc collapses
// the known aliases to the canonical camelCase form before structural
// decoding. When both spellings are present the canonical key wins.
var keyAliases = map[string]string{
	"assessment_id":        "assessmentId",
	"candidate_id":         "candidateId",
	"question_id":          "questionId",
	"option_id":            "optionId",
	"correct_option_id":    "correctOptionId",
	"submission_id":        "submissionId",
	"exit_code":            "exitCode",
	"timed_out":            "timedOut",
	"question_type":        "kind",
	"type":                 "kind",
	"programming_language": "language",
}

// NormalizeDoc rewrites aliased keys recursively through nested objects and
// arrays. The input map is not modified.
func NormalizeDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		key := k
		if canon, ok := keyAliases[k]; ok {
			if _, exists := doc[canon]; exists {
				continue // canonical spelling present, drop the alias
			}
			key = canon
		}
		out[key] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return NormalizeDoc(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// DecodeSubmission decodes a raw storage document into a Submission,
// normalizing field-name variants first.
func DecodeSubmission(raw []byte) (*Submission, error) {
	var sub Submission
	if err := decodeNormalized(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	return &sub, nil
}

// DecodeAssessment decodes a raw storage document into an Assessment,
// normalizing field-name variants first.
func DecodeAssessment(raw []byte) (*Assessment, error) {
	var asm Assessment
	if err := decodeNormalized(raw, &asm); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	return &asm, nil
}

func decodeNormalized(raw []byte, dst any) error {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	normalized, err := json.Marshal(NormalizeDoc(doc))
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, dst)
}
