package cli

import (
	"context"
	"errors"

	"physical-ai-textbook-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Services are the operations ragctl drives. cmd/ragctl builds the real ones;
// tests substitute their own.
type Services struct {
	Chat        service.IChatService
	RateLimit   service.IRateLimitService
	ContentRoot string
}

var services *Services

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Operate the Physical AI textbook knowledge base",
	Long: `ragctl ingests textbook content into the vector index, inspects and clears
the collection, and maintains the anonymous chat rate limit records.`,
	SilenceUsage: true,
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	keyColor  = color.New(color.FgCyan)
)

// Execute runs the CLI against svc.
func Execute(ctx context.Context, svc *Services) error {
	services = svc
	return rootCmd.ExecuteContext(ctx)
}

func requireChat() (service.IChatService, error) {
	if services == nil || services.Chat == nil {
		return nil, errors.New("chat service not configured")
	}
	return services.Chat, nil
}

func requireRateLimit() (service.IRateLimitService, error) {
	if services == nil || services.RateLimit == nil {
		return nil, errors.New("rate limit service not configured")
	}
	return services.RateLimit, nil
}
