package rag

import "strings"

// Profile carries the reader's questionnaire answers, keyed by attribute name.
type Profile map[string]string

const passageSeparator = "\n\n---\n\n"

// BuildPrompt renders the tutor prompt for query over passages.
func BuildPrompt(query string, passages []Passage, profile Profile) string {
	var b strings.Builder

	b.WriteString("You are an expert AI tutor for the Physical AI Humanoid Robotics Textbook. \n")
	b.WriteString("Your role is to help students learn about ROS 2, simulation (Gazebo, Unity), NVIDIA Isaac, and Vision-Language-Action models.\n\n")
	b.WriteString("Use the following context from the textbook to answer the question. If the context doesn't contain relevant information, \n")
	b.WriteString("say so and provide general guidance based on your knowledge of robotics.\n\n")
	b.WriteString("Be concise but thorough. Use examples when helpful. Reference specific modules or sections when relevant.\n")
	b.WriteString(personalization(profile))
	b.WriteString("\n\nCONTEXT FROM TEXTBOOK:\n")

	for i, p := range passages {
		if i > 0 {
			b.WriteString(passageSeparator)
		}
		b.WriteString("[Source: ")
		b.WriteString(p.Module)
		b.WriteString(" - ")
		b.WriteString(p.Title)
		b.WriteString("]\n")
		b.WriteString(p.Content)
	}

	b.WriteString("\n\n---\n\nUSER QUESTION: ")
	b.WriteString(query)
	b.WriteString("\n\nProvide a helpful, educational response:")

	return b.String()
}

func personalization(profile Profile) string {
	if len(profile) == 0 {
		return ""
	}
	level := profile["programming_level"]
	if level == "" {
		level = "beginner"
	}
	goal := profile["learning_goal"]
	if goal == "" {
		goal = "learning"
	}
	return "\nThe user is at " + level + " programming level and their learning goal is " + goal + ". Adjust your explanation accordingly."
}
