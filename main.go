package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	actionx "github.com/tableside/concierge/agent/action"
	conciergex "github.com/tableside/concierge/agent/agents/concierge"
	contractx "github.com/tableside/concierge/agent/contract"
	ledgerx "github.com/tableside/concierge/agent/ledger"
	recommendx "github.com/tableside/concierge/agent/recommend"
	storex "github.com/tableside/concierge/agent/store"
	configx "github.com/tableside/concierge/pkg/config"
	groqx "github.com/tableside/concierge/pkg/groq"
	_ "github.com/tableside/concierge/pkg/logger/autoload"
)

type AppConfig struct {
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	DemoUserID  int    `envconfig:"DEMO_USER_ID" default:"1"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	groqCfg := configx.MustNew[groqx.Config]("GROQ")

	store, cleanup, err := buildStore(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer cleanup()

	registry, err := actionx.New(store, ledgerx.New(store), recommendx.New(store))
	if err != nil {
		log.Fatal().Err(err).Msg("action registry init failed")
	}

	agent, err := conciergex.New(registry, groqx.New(*groqCfg))
	if err != nil {
		log.Fatal().Err(err).Msg("concierge init failed")
	}

	userInfo := map[string]any{"user_id": appCfg.DemoUserID}

	fmt.Println("Restaurant concierge ready. Type a message, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}

		reply, err := agent.ProcessMessage(ctx, text, userInfo)
		if err != nil {
			log.Error().Err(err).Msg("message processing failed")
			continue
		}
		fmt.Println(reply)
	}
}

func buildStore(ctx context.Context, appCfg *AppConfig) (contractx.Store, func(), error) {
	if appCfg.PostgresDSN == "" {
		store := storex.NewMemoryStore()
		if err := storex.Seed(ctx, store); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	pgCfg := configx.MustNew[storex.PostgresConfig]("POSTGRES")
	store, err := storex.NewPostgresStore(*pgCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	if err := storex.Seed(ctx, store); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
