// Package app wires one chatbot together: environment, bot definition,
// model client, terminal and conversation driver.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ccastromar/pizzabot/internal/chat"
	"github.com/ccastromar/pizzabot/internal/config"
	"github.com/ccastromar/pizzabot/internal/llm"
	"github.com/ccastromar/pizzabot/internal/logx"
	"github.com/ccastromar/pizzabot/internal/prompt"
	"github.com/ccastromar/pizzabot/internal/render"
)

// ErrInvalidAPIKey means the provider rejected the configured key.
var ErrInvalidAPIKey = errors.New("the API key was rejected by the model provider")

var _ chat.Screen = (*render.Terminal)(nil)

type App struct {
	env    *config.EnvVars
	def    *config.Definition
	llm    llm.LLMClient
	driver *chat.Driver
}

type options struct {
	in     io.Reader
	out    io.Writer
	client llm.LLMClient
}

type Option func(*options)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) { o.in, o.out = in, out }
}

// WithClient skips building a client from the environment.
func WithClient(c llm.LLMClient) Option {
	return func(o *options) { o.client = c }
}

// New builds the bot described by definitions/<bot>.yaml.
func New(bot string, opts ...Option) (*App, error) {
	o := options{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if err := logx.Init(env.LogLevel); err != nil {
		return nil, err
	}

	def, err := config.LoadDefinition(env.DefinitionsDir, bot)
	if err != nil {
		return nil, err
	}
	system, err := prompt.Render(def)
	if err != nil {
		return nil, err
	}

	client := o.client
	if client == nil {
		client, err = newClient(context.Background(), env, def.Bot.Protocol == config.ProtocolJSON)
		if err != nil {
			return nil, err
		}
	}

	term := render.New(o.out, def.Bot.Title, env.RenderWidth)
	logx.Info("App", "bot %s ready (provider=%s model=%s protocol=%s)", def.Bot.Name, env.Provider(), env.LLMModel, def.Bot.Protocol)

	return &App{
		env:    env,
		def:    def,
		llm:    client,
		driver: chat.New(def, system, client, term, o.in),
	}, nil
}

func newClient(ctx context.Context, env *config.EnvVars, jsonOutput bool) (llm.LLMClient, error) {
	switch env.Provider() {
	case config.ProviderOpenAI:
		c := llm.NewOpenAIClient(env.BaseURL(), env.APIKey(), env.LLMModel)
		c.Temperature = env.LLMTemperature
		c.JSONOutput = jsonOutput
		c.Timeout = env.LLMTimeout
		return c, nil
	default:
		c, err := llm.NewGeminiClient(ctx, env.BaseURL(), env.APIKey(), env.LLMModel)
		if err != nil {
			return nil, err
		}
		c.Temperature = env.LLMTemperature
		c.JSONOutput = jsonOutput
		c.Timeout = env.LLMTimeout
		return c, nil
	}
}

// Run checks the credential and then holds the conversation. A rejected
// key stops the bot; any other ping failure is only logged since the
// first turn will report it to the customer anyway.
func (a *App) Run(ctx context.Context) error {
	defer logx.Sync()

	if err := a.llm.Ping(ctx); err != nil {
		if llm.IsAuthError(err) {
			return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		}
		logx.Warn("App", "model ping failed, starting anyway: %v", err)
	}
	return a.driver.Run(ctx)
}
