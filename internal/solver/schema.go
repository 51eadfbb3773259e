package solver

import "matheassistent/internal/llm"

// JSON-Schemas für die strukturierten LLM-Antworten

var stepSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"explanation": map[string]any{"type": "string"},
		"equation":    map[string]any{"type": "string"},
	},
	"required": []string{"explanation", "equation"},
}

var solutionSchema = &llm.Schema{
	Name: "math_solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":  "array",
				"items": stepSchema,
			},
			"final_answer":     map[string]any{"type": "string"},
			"difficulty_level": map[string]any{"type": "string"},
			"tips": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"graph_data": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{"type": "string"},
					"points": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x": map[string]any{"type": "number"},
								"y": map[string]any{"type": "number"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
			},
		},
		"required": []string{"steps", "final_answer"},
	},
}

var alternativesSchema = &llm.Schema{
	Name: "alternative_methods",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"methods": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"steps": map[string]any{
							"type":  "array",
							"items": stepSchema,
						},
						"final_answer": map[string]any{"type": "string"},
					},
					"required": []string{"name", "steps", "final_answer"},
				},
			},
		},
		"required": []string{"methods"},
	},
}

var practiceSchema = &llm.Schema{
	Name: "practice_problems",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"problem":    map[string]any{"type": "string"},
						"difficulty": map[string]any{"type": "string"},
						"solution":   map[string]any{"type": "string"},
					},
					"required": []string{"problem", "difficulty", "solution"},
				},
			},
		},
		"required": []string{"problems"},
	},
}

var worksheetSchema = &llm.Schema{
	Name: "worksheet_equations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"equations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"equations"},
	},
}
