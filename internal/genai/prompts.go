package genai

import "fmt"

// NewEventPrompt asks for announcement copy for a newly added event.
// The caller supplies a plain-text description; links, dates, and
// location are added by the composer, not the model.
func NewEventPrompt(description, platformName, groupName string) string {
	return fmt.Sprintf("create a single friendly and inviting announcement for a new event "+
		"that was just added to %s from the %s. This will be posted to Discord via webhook, "+
		"and we only need the content section, do not include links or dates or location. "+
		"Here is the event description: %s", platformName, groupName, description)
}

// ReminderPrompt asks for reminder copy for an event happening tomorrow.
func ReminderPrompt(description string) string {
	return fmt.Sprintf("create a single friendly and inviting event reminder for the following "+
		"event that is happening tomorrow. This will be posted to Discord via webhook, and we "+
		"only need the content section, do not include links or dates or location. "+
		"Here is the event description: %s", description)
}

// WeeklyHeaderPrompt asks for a header line for the weekly events list.
func WeeklyHeaderPrompt(eventCount int) string {
	return fmt.Sprintf("create a single friendly and exciting sounding header for a post sharing "+
		"%d community events occurring this week. This will be posted to Discord via webhook, and "+
		"we only need the content section; do not include any dates. The actual events will be "+
		"added separately. Just provide one, I don't need multiple options.", eventCount)
}
