package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var candidateSchema = map[string]interface{}{
	"type":        "object",
	"description": "The news entity or opportunity to score",
	"properties": map[string]interface{}{
		"entityName": map[string]interface{}{"type": "string"},
		"entityType": map[string]interface{}{"type": "string"},
		"topics": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"velocity":  map[string]interface{}{"type": "number", "description": "Trend velocity; above 50 earns bonus points"},
		"sentiment": map[string]interface{}{"type": "number"},
		"mentions":  map[string]interface{}{"type": "integer"},
	},
	"required": []string{"entityName"},
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "score_candidate",
		Description: "Score a candidate against an organization's profile, interest topics and entity rules, then apply its alert thresholds. Pass either a stored organization or an inline profile.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"organization": map[string]interface{}{
					"type":        "string",
					"description": "Organization name (case-insensitive) or ID",
				},
				"candidate": candidateSchema,
				"urgency": map[string]interface{}{
					"type":        "number",
					"description": "Urgency score 0-100 from the upstream pipeline (default: 0)",
				},
				"record": map[string]interface{}{
					"type":        "boolean",
					"description": "Store the evaluation for a stored organization (default: false)",
				},
				"profile": map[string]interface{}{
					"type":        "object",
					"description": "Inline organization profile used when no organization is given",
				},
				"interest_topics": map[string]interface{}{
					"type":        "array",
					"description": "Inline interest topics ({topic, weight, source})",
				},
				"entity_rules": map[string]interface{}{
					"type":        "array",
					"description": "Inline entity rules ({entity_name, rule_type, reason})",
				},
				"alert_preferences": map[string]interface{}{
					"type":        "object",
					"description": "Inline alert preferences ({min_relevance_score, min_urgency_score}); without them every score passes",
				},
			},
			"required": []string{"candidate"},
		},
	},
	{
		Name:        "check_thresholds",
		Description: "Check a relevance and urgency score pair against an organization's alert preferences or inline minimums.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"relevance_score": map[string]interface{}{"type": "number"},
				"urgency_score":   map[string]interface{}{"type": "number"},
				"organization": map[string]interface{}{
					"type":        "string",
					"description": "Organization name or ID whose preferences apply",
				},
				"min_relevance_score": map[string]interface{}{"type": "number"},
				"min_urgency_score":   map[string]interface{}{"type": "number"},
			},
			"required": []string{"relevance_score", "urgency_score"},
		},
	},
	{
		Name:        "default_topics",
		Description: "Get the starter interest topics for an organization type.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"org_type": map[string]interface{}{
					"type": "string",
					"enum": []string{"foreign_policy", "human_rights", "candidate", "labor", "climate", "civil_rights"},
				},
			},
			"required": []string{"org_type"},
		},
	},
	{
		Name:        "list_evaluations",
		Description: "List recorded evaluations, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"organization": map[string]interface{}{
					"type":        "string",
					"description": "Organization name or ID",
				},
				"bucket": map[string]interface{}{
					"type": "string",
					"enum": []string{"high", "medium", "low"},
				},
				"passed": map[string]interface{}{
					"type":        "boolean",
					"description": "Only evaluations that passed (true) or failed (false) the threshold gate",
				},
				"alerted": map[string]interface{}{
					"type":        "boolean",
					"description": "Only evaluations that did (true) or did not (false) produce an alert",
				},
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only evaluations from the last N days",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate evaluation statistics: bucket counts, gate pass rate, alerts and feedback.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"organization": map[string]interface{}{
					"type":        "string",
					"description": "Organization name or ID",
				},
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only include evaluations from the last N days",
				},
			},
		},
	},
}
