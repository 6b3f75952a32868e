package models

import "strings"

// SlashCommand is one invocation of the /jira command
type SlashCommand struct {
	UserID    string
	UserName  string
	ChannelID string
	TeamID    string
	TriggerID string
	Text      string
}

// Subcommand splits Text into the subcommand name and its arguments
func (c SlashCommand) Subcommand() (string, []string) {
	fields := strings.Fields(c.Text)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
