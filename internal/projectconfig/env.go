package projectconfig

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Env holds settings read from the process environment.
type Env struct {
	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL"`
	LogLevel     string `env:"MENTORQA_LOG_LEVEL, default=info"`
}

// LoadEnv reads Env from the OS environment.
func LoadEnv(ctx context.Context) (*Env, error) {
	return LoadEnvFrom(ctx, envconfig.OsLookuper())
}

// LoadEnvFrom reads Env through l.
func LoadEnvFrom(ctx context.Context, l envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv copies environment settings into the grading config of cfg
// without overriding values set in the config file.
func (c *ProjectConfig) ApplyEnv(env *Env) {
	if c.Grading.Config == nil {
		c.Grading.Config = map[string]any{}
	}
	if _, ok := c.Grading.Config["api_key"]; !ok && env.GoogleAPIKey != "" {
		c.Grading.Config["api_key"] = env.GoogleAPIKey
	}
	if _, ok := c.Grading.Config["model"]; !ok && env.GeminiModel != "" {
		c.Grading.Config["model"] = env.GeminiModel
	}
}
