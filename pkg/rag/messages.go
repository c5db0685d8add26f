package rag

import "physical-ai-textbook-be/pkg/upstream"

// Attribution is appended to every model or canned reply by the chat boundary.
const Attribution = "\n\n---\n*Physical AI Textbook™ — Created by [Daniyal Sarwar](https://github.com/Daniyal-Sarwar)*"

const (
	GreetingMessage = "Hello! 👋 I'm your Physical AI learning assistant powered by RAG (Retrieval-Augmented Generation).\n\n" +
		"I have access to the full textbook content and can help you with:\n\n" +
		"📚 **Module 1: ROS 2 Fundamentals**\n- Nodes, Topics, Services, Actions\n- Launch files and parameters\n\n" +
		"🤖 **Module 2: Digital Twin Simulation**\n- Gazebo physics simulation\n- URDF/SDF robot descriptions\n- Unity integration\n\n" +
		"🎮 **Module 3: NVIDIA Isaac Platform**\n- Isaac Sim on Omniverse\n- Replicator for synthetic data\n- Isaac ROS perception\n\n" +
		"🧠 **Module 4: Vision-Language-Action**\n- Multimodal models\n- Embodied AI concepts\n- Natural language robot control\n\n" +
		"What would you like to learn about?"

	HelpMessage = "I can help you learn about Physical AI and Humanoid Robotics!\n\n" +
		"**How I work:**\n" +
		"I use semantic search to find the most relevant sections from the textbook, then generate a personalized response using AI. I'll cite the sources I use.\n\n" +
		"**Example questions you can ask:**\n" +
		"- \"What are the key components of ROS 2?\"\n" +
		"- \"How do I create a URDF file for my robot?\"\n" +
		"- \"Explain the difference between Gazebo and Isaac Sim\"\n" +
		"- \"What are Vision-Language-Action models?\"\n" +
		"- \"How does domain randomization work in Isaac Replicator?\"\n\n" +
		"Just ask any question about the textbook topics!"

	NotInitializedMessage = "I'm sorry, but my knowledge base is not fully configured yet. " +
		"Please make sure the GEMINI_API_KEY is set and the textbook content has been ingested. " +
		"Try asking the administrator to run the content ingestion script."

	EmptyStoreMessage = "I don't have any textbook content loaded yet. " +
		"Please ask the administrator to run the content ingestion to load the textbook into my knowledge base."

	ModelUnavailableMessage = "I'm sorry, the AI service is not available right now. Please check that the GEMINI_API_KEY is configured."
)

var greetingPhrases = []string{"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening"}

var helpPhrases = []string{"help", "what can you"}

var failureMessages = map[upstream.Category]string{
	upstream.CategoryDailyQuota:    "⚠️ Daily API quota has been exceeded. Please try again tomorrow or contact the administrator.",
	upstream.CategoryRateLimited:   "⚠️ Too many requests. Please wait a moment and try again.",
	upstream.CategoryAuth:          "⚠️ API authentication failed. Please contact the administrator.",
	upstream.CategoryTimeout:       "⚠️ Request timed out. Please try again.",
	upstream.CategoryConnection:    "⚠️ Connection failed. Please check your internet and try again.",
	upstream.CategoryModelNotFound: "⚠️ AI model not available. Please contact the administrator.",
}

const defaultFailureMessage = "⚠️ Unable to generate a response right now. Please try again later."

// FailureMessage is the reader-facing text for a failed generation.
func FailureMessage(c upstream.Category) string {
	if msg, ok := failureMessages[c]; ok {
		return msg
	}
	return defaultFailureMessage
}
