package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	passages := []Passage{
		{Module: "Module 1: ROS 2 Fundamentals", Title: "Nodes", Content: "Nodes are processes."},
		{Module: "Module 2: Digital Twin Simulation", Title: "Gazebo", Content: "Gazebo simulates physics."},
	}

	got := BuildPrompt("What is a node?", passages, Profile{"programming_level": "advanced", "learning_goal": "hobby"})

	want := "You are an expert AI tutor for the Physical AI Humanoid Robotics Textbook. \n" +
		"Your role is to help students learn about ROS 2, simulation (Gazebo, Unity), NVIDIA Isaac, and Vision-Language-Action models.\n\n" +
		"Use the following context from the textbook to answer the question. If the context doesn't contain relevant information, \n" +
		"say so and provide general guidance based on your knowledge of robotics.\n\n" +
		"Be concise but thorough. Use examples when helpful. Reference specific modules or sections when relevant.\n" +
		"\nThe user is at advanced programming level and their learning goal is hobby. Adjust your explanation accordingly.\n\n" +
		"CONTEXT FROM TEXTBOOK:\n" +
		"[Source: Module 1: ROS 2 Fundamentals - Nodes]\nNodes are processes." +
		"\n\n---\n\n" +
		"[Source: Module 2: Digital Twin Simulation - Gazebo]\nGazebo simulates physics.\n\n" +
		"---\n\n" +
		"USER QUESTION: What is a node?\n\n" +
		"Provide a helpful, educational response:"

	assert.Equal(t, want, got)
}

func TestBuildPromptPersonalization(t *testing.T) {
	withoutProfile := BuildPrompt("q", nil, nil)
	assert.NotContains(t, withoutProfile, "programming level")
	assert.Contains(t, withoutProfile, "when relevant.\n\n\nCONTEXT FROM TEXTBOOK:\n\n\n---")

	partial := BuildPrompt("q", nil, Profile{"robotics_familiarity": "hobbyist"})
	assert.Contains(t, partial, "The user is at beginner programming level and their learning goal is learning.")
}
