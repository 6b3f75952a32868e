package issues

import (
	"strings"

	"jirabackend/models"
)

const (
	myIssuesJQL   = "assignee = currentUser() ORDER BY updated DESC"
	unassignedJQL = "assignee is EMPTY ORDER BY updated DESC"
	orderClause   = " ORDER BY updated DESC"
)

// BuildSearchJQL turns a filter into a JQL query. Values are always quoted so user
// text can not change the structure of the query.
func BuildSearchJQL(filter models.SearchFilter) string {
	var clauses []string
	if filter.ProjectKey != "" {
		clauses = append(clauses, "project = "+quoteJQL(strings.ToUpper(filter.ProjectKey)))
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = "+quoteJQL(filter.Status))
	}
	if filter.IssueType != "" {
		clauses = append(clauses, "issuetype = "+quoteJQL(filter.IssueType))
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = "+quoteJQL(filter.Priority))
	}
	if filter.Assignee != "" {
		switch strings.ToLower(filter.Assignee) {
		case "me", "currentuser()":
			clauses = append(clauses, "assignee = currentUser()")
		case "unassigned", "none":
			clauses = append(clauses, "assignee is EMPTY")
		default:
			clauses = append(clauses, "assignee = "+quoteJQL(filter.Assignee))
		}
	}
	if filter.Text != "" {
		clauses = append(clauses, "text ~ "+quoteJQL(filter.Text))
	}
	return strings.TrimSpace(strings.Join(clauses, " AND ") + orderClause)
}

func quoteJQL(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

// ParseSearchArgs reads "key=value" tokens of a search command. Recognised keys are
// project, status, type, priority and assignee. Underscores in status, type and
// priority values stand for spaces. Every other token is part of the free-text query.
func ParseSearchArgs(args []string) models.SearchFilter {
	var filter models.SearchFilter
	var text []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			text = append(text, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "project":
			filter.ProjectKey = strings.ToUpper(value)
		case "status":
			filter.Status = spaced(value)
		case "type", "issuetype":
			filter.IssueType = spaced(value)
		case "priority":
			filter.Priority = spaced(value)
		case "assignee":
			filter.Assignee = value
		default:
			text = append(text, arg)
		}
	}
	filter.Text = strings.Join(text, " ")
	return filter
}

func spaced(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}
