// Command chat runs an interactive session against the agent team for one user.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"cinedesk/internal/config"
	"cinedesk/internal/domain/repositories"
	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/repository/memory"
	"cinedesk/internal/repository/postgres"
	"cinedesk/internal/service"
	serviceLLM "cinedesk/internal/service/llm"
	"cinedesk/internal/service/llm/agent"
	"cinedesk/internal/service/llm/tools"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// maxLogFiles kept in LOG_DIR
const maxLogFiles = 10

// CLI defines the chat command line
type CLI struct {
	UserID   int64  `name:"user-id" required:"" help:"Numeric user id every tool call is scoped to."`
	Provider string `help:"LLM provider (openai, anthropic). Defaults to DEFAULT_PROVIDER."`
	Model    string `help:"Model name. Defaults to DEFAULT_MODEL."`
	Message  string `short:"m" help:"Send one message, print the reply and exit."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("chat"),
		kong.Description("Talk to the document and movie agents from the terminal."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(cli.Run())
}

// Run wires the agent team and runs the session
func (c *CLI) Run() error {
	if c.UserID <= 0 {
		return fmt.Errorf("--user-id must be positive, got %d", c.UserID)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if c.Provider != "" {
		cfg.DefaultProvider = c.Provider
	}
	if c.Model != "" {
		cfg.DefaultModel = c.Model
	}

	// Logs go to a file so they don't interleave with the conversation
	logFile, err := config.SetupLogFile(cfg.LogDir, "chat", maxLogFiles)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		docRepo   repositories.DocumentRepository
		txManager repositories.TransactionManager
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		docRepo = postgres.NewDocumentRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		txManager = postgres.NewTransactionManager(pool, logger)
	} else {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set, documents live only for this session")
		store := memory.NewDocumentStore()
		docRepo, txManager = store, store
	}

	providers, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		return err
	}
	movies, permissions := serviceLLM.SetupMovieClients(cfg, logger)
	svcs, err := serviceLLM.SetupServices(serviceLLM.Dependencies{
		Documents:   service.NewDocumentService(docRepo, txManager, logger),
		Movies:      movies,
		Permissions: permissions,
	}, providers, cfg, logger)
	if err != nil {
		return err
	}

	session := &session{
		ctx:    tools.WithUserID(ctx, c.UserID),
		runner: svcs.Supervisor,
	}

	if c.Message != "" {
		reply, err := session.send(c.Message)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	}

	fmt.Printf("cinedesk chat as user %d on %s (%s). Empty line or Ctrl-D quits.\n",
		c.UserID, svcs.Model.Model, logFile.Name())
	return session.loop(os.Stdin)
}

// runner is the part of the supervisor a session needs
type runner interface {
	Run(ctx context.Context, messages []llm.Message) (*agent.Result, error)
}

type session struct {
	ctx     context.Context
	runner  runner
	history []llm.Message
}

// send runs one turn and keeps both sides in the session history
func (s *session) send(message string) (string, error) {
	messages := append(s.history, llm.Message{Role: llm.RoleUser, Content: message})
	res, err := s.runner.Run(s.ctx, messages)
	if err != nil {
		return "", err
	}
	s.history = append(messages, llm.Message{Role: llm.RoleAssistant, Content: res.Reply})
	return res.Reply, nil
}

func (s *session) loop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}

		reply, err := s.send(line)
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}
