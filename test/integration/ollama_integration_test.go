package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"design-team-be/pkg/contributor"
	"design-team-be/pkg/llm"
	"design-team-be/pkg/llm/ollama"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestOllamaProvider(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	provider := ollama.NewProvider(baseURL, model)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	t.Run("Check Chat Completion", func(t *testing.T) {
		reply, err := provider.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: "You answer in one short sentence."},
			{Role: llm.RoleUser, Content: "Name one classic roguelike game."},
		}, llm.WithTemperature(0.2), llm.WithMaxTokens(64))
		assert.NoError(t, err)
		assert.NotEmpty(t, reply)
		t.Logf("Ollama reply: %s", reply)
	})

	t.Run("Check Contributor Invocation", func(t *testing.T) {
		c := contributor.NewLLMContributor(provider)
		draft, err := c.Contribute(ctx, &contributor.Invocation{
			StageIndex:  0,
			Role:        "LeadGameDesigner",
			StageName:   "Game Overview",
			Instruction: "Write a two-sentence game overview from the pitch.",
			Pitch:       "A cozy roguelike about a lighthouse keeper.",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, draft)
		t.Logf("Contributor draft: %s", draft)
	})
}
